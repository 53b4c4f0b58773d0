package executor

import (
	"os"
	"time"
)

// Op names a file operation. The value is what the audit log records.
type Op string

const (
	OpRead       Op = "read"
	OpWrite      Op = "write"
	OpDelete     Op = "delete"
	OpRename     Op = "rename"
	OpCopy       Op = "copy"
	OpMetadata   Op = "metadata"
	OpCompress   Op = "compress"
	OpDecompress Op = "decompress"
)

// Ops lists every operation in menu order
var Ops = []Op{OpRead, OpWrite, OpMetadata, OpCopy, OpCompress, OpDecompress, OpDelete, OpRename}

func (o Op) String() string {
	return string(o)
}

// FileMetadata is a point-in-time stat snapshot. It is not locked and may
// be stale as soon as it is returned.
type FileMetadata struct {
	Path        string      `json:"path"`
	Size        int64       `json:"size"`
	CreatedAt   time.Time   `json:"created_at"`
	ModifiedAt  time.Time   `json:"modified_at"`
	Mode        os.FileMode `json:"mode"`
	Permissions os.FileMode `json:"permissions"`
	IsDir       bool        `json:"is_dir"`
	MIMEType    string      `json:"mime_type,omitempty"`
	Charset     string      `json:"charset,omitempty"`
}
