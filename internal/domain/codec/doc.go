// Package codec provides streaming compression codecs.
//
// Each Codec hands out an io.WriteCloser that compresses into a destination
// stream and an io.ReadCloser that decompresses from a source stream, so a
// compressed transfer has the same open/transfer/close shape as a plain
// file copy. Memory use is bounded by the codec window, never by file size.
//
// Codecs:
//   - gzip: klauspost/compress/gzip (default, .gz)
//   - zstd: klauspost/compress/zstd (.zst)
//   - lz4: pierrec/lz4 frame format (.lz4)
//
// Example Usage:
//
//	c, _ := codec.Lookup("zstd")
//	zw, _ := c.NewWriter(dst)
//	io.Copy(zw, src)
//	zw.Close()
package codec
