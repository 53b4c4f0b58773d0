package executor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/codec"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/registry"
)

// Copy streams src into dst in fixed-size chunks. Only src is locked.
func (e *Executor) Copy(src, dst string) error {
	return e.run(OpCopy, src, func() error {
		return e.stream(OpCopy, src, dst, nil, nil)
	}, zap.String("destination", dst))
}

// Compress encodes src into dst with the configured codec
func (e *Executor) Compress(src, dst string) error {
	c := e.codec
	return e.run(OpCompress, src, func() error {
		return e.stream(OpCompress, src, dst, nil, c.NewWriter)
	}, zap.String("destination", dst), zap.String("codec", c.Name()))
}

// Decompress decodes src into dst. The codec is detected from the stream's
// magic bytes. Input that starts with no known magic is not compressed and
// is copied through unchanged.
func (e *Executor) Decompress(src, dst string) error {
	return e.run(OpDecompress, src, func() error {
		return e.stream(OpDecompress, src, dst, e.detectReader, nil)
	}, zap.String("destination", dst))
}

// Destination returns the derived output name the driver and HTTP API use
// for operations that produce a second path.
func (e *Executor) Destination(op Op, src string, n int) string {
	switch op {
	case OpRename:
		return fmt.Sprintf("%s_renamed_%d", src, n)
	case OpCopy:
		return fmt.Sprintf("%s_copy_%d", src, n)
	case OpCompress:
		return fmt.Sprintf("%s_compressed_%d%s", src, n, e.codec.Extension())
	case OpDecompress:
		return fmt.Sprintf("%s_decompressed_%d", src, n)
	default:
		return src
	}
}

type (
	sourceFunc func(io.Reader) (io.ReadCloser, error)
	sinkFunc   func(io.Writer) (io.WriteCloser, error)
)

// stream opens src under a shared lock and pipes it through the optional
// decoder and encoder into dst.
func (e *Executor) stream(op Op, src, dst string, source sourceFunc, sink sinkFunc) error {
	if dst == "" {
		return registry.ErrInvalidPath
	}

	h, err := e.acquire(src, registry.Shared, false)
	if err != nil {
		return err
	}
	defer h.Release()

	if registry.Canonical(dst) == h.Path() {
		return fmt.Errorf("destination %s is the source", dst)
	}

	in, err := os.Open(h.Path())
	if err != nil {
		return err
	}
	defer in.Close()

	var reader io.Reader = in
	if source != nil {
		rc, err := source(in)
		if err != nil {
			return fmt.Errorf("open decoder: %w", err)
		}
		defer rc.Close()
		reader = rc
	}

	out, err := e.createDestination(dst)
	if err != nil {
		return err
	}

	var writer io.Writer = out.file
	var encoder io.WriteCloser
	if sink != nil {
		encoder, err = sink(out.file)
		if err != nil {
			out.abort()
			return fmt.Errorf("open encoder: %w", err)
		}
		writer = encoder
	}

	n, err := e.transfer(reader, writer)
	if encoder != nil {
		// Close flushes the codec trailer
		if cerr := encoder.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close encoder: %w", cerr)
		}
	}
	if err != nil {
		out.abort()
		return err
	}

	if err := out.commit(); err != nil {
		return err
	}

	e.metrics.AddBytes(op.String(), n)
	return nil
}

// transfer copies r to w one chunk at a time and returns the bytes read
func (e *Executor) transfer(r io.Reader, w io.Writer) (int64, error) {
	bufp := e.buffers.Get().(*[]byte)
	defer e.buffers.Put(bufp)
	buf := *bufp

	var total int64
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, fmt.Errorf("write: %w", werr)
			}
			if written != n {
				return total, fmt.Errorf("wrote %d of %d bytes: %w", written, n, io.ErrShortWrite)
			}
		}
		if errors.Is(rerr, io.EOF) {
			return total, nil
		}
		if rerr != nil {
			return total, fmt.Errorf("read: %w", rerr)
		}
	}
}

func (e *Executor) detectReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	// Short and empty streams are checked against what they have
	prefix, _ := br.Peek(codec.MagicLen)

	c, ok := codec.Detect(prefix)
	if !ok {
		e.logger.Debug("Input not compressed, copying through")
		return io.NopCloser(br), nil
	}
	e.logger.Debug("Decoder selected", zap.String("codec", c.Name()))
	return c.NewReader(br)
}

// destination is an output file that is either written in place or staged
// next to its final name.
type destination struct {
	file  *os.File
	final string
	mode  os.FileMode
	temp  bool
}

func (e *Executor) createDestination(path string) (*destination, error) {
	path = registry.Canonical(path)

	if !e.atomic {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, e.fileMode)
		if err != nil {
			return nil, err
		}
		return &destination{file: f, final: path, mode: e.fileMode}, nil
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &destination{file: f, final: path, mode: e.fileMode, temp: true}, nil
}

func (d *destination) commit() error {
	if err := d.file.Close(); err != nil {
		d.discard()
		return err
	}
	if !d.temp {
		return nil
	}
	if err := os.Chmod(d.file.Name(), d.mode); err != nil {
		d.discard()
		return err
	}
	if err := os.Rename(d.file.Name(), d.final); err != nil {
		d.discard()
		return err
	}
	return nil
}

// abort closes the file. A staged file is removed; an in-place file keeps
// whatever was written.
func (d *destination) abort() {
	d.file.Close()
	d.discard()
}

func (d *destination) discard() {
	if d.temp {
		os.Remove(d.file.Name())
	}
}
