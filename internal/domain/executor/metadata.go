package executor

import (
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
)

// charsetSample bounds how much of a text file is read for charset detection
const charsetSample = 4096

// Metadata stats the file without touching the registry. The result is a
// snapshot and may race with concurrent writers.
func (e *Executor) Metadata(path string) (*FileMetadata, error) {
	var meta *FileMetadata
	err := e.run(OpMetadata, path, func() error {
		if path == "" {
			return ErrInvalidPath
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		meta = &FileMetadata{
			Path:        path,
			Size:        info.Size(),
			CreatedAt:   changeTime(path, info),
			ModifiedAt:  info.ModTime(),
			Mode:        info.Mode(),
			Permissions: info.Mode().Perm(),
			IsDir:       info.IsDir(),
		}

		// Content sniffing is best effort
		if info.Mode().IsRegular() {
			if mt, err := mimetype.DetectFile(path); err == nil {
				meta.MIMEType = mt.String()
				if strings.HasPrefix(meta.MIMEType, "text/") {
					meta.Charset = detectCharset(path)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func detectCharset(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, charsetSample)
	n, _ := io.ReadFull(f, buf)
	if n == 0 {
		return ""
	}

	result, err := chardet.NewTextDetector().DetectBest(buf[:n])
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}
