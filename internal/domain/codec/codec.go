package codec

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Codec wraps a streaming compressor. Writers compress into the wrapped
// stream and must be closed to flush; readers decompress from it.
type Codec interface {
	Name() string
	Extension() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

const (
	Gzip = "gzip"
	Zstd = "zstd"
	LZ4  = "lz4"

	// Default matches the .gz output of earlier releases
	Default = Gzip
)

var codecs = map[string]Codec{
	Gzip: gzipCodec{},
	Zstd: zstdCodec{},
	LZ4:  lz4Codec{},
}

// magic prefixes used by Detect
var magics = []struct {
	prefix []byte
	name   string
}{
	{[]byte{0x1f, 0x8b}, Gzip},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
	{[]byte{0x04, 0x22, 0x4d, 0x18}, LZ4},
}

// MagicLen is the number of leading bytes Detect needs to see
const MagicLen = 4

// Lookup returns the codec registered under name
func Lookup(name string) (Codec, error) {
	c, ok := codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// MustLookup is Lookup for names known at compile time
func MustLookup(name string) Codec {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Names lists the registered codecs
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect identifies a codec from the first bytes of a compressed stream
func Detect(prefix []byte) (Codec, bool) {
	for _, m := range magics {
		if bytes.HasPrefix(prefix, m.prefix) {
			return codecs[m.name], true
		}
	}
	return nil, false
}
