package executor

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/registry"
)

// Read returns the whole file under a shared lock. Concurrent reads of the
// same path proceed in parallel.
func (e *Executor) Read(path string) ([]byte, error) {
	var data []byte
	err := e.run(OpRead, path, func() error {
		h, err := e.acquire(path, registry.Shared, false)
		if err != nil {
			return err
		}
		defer h.Release()

		f, err := os.Open(h.Path())
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		buf := make([]byte, info.Size())
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("read %s: %w", h.Path(), err)
		}
		data = buf
		e.metrics.AddBytes(OpRead.String(), int64(len(buf)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write replaces the file's contents under an exclusive lock, creating it
// if needed.
func (e *Executor) Write(path string, data []byte) error {
	return e.run(OpWrite, path, func() error {
		h, err := e.acquire(path, registry.Exclusive, false)
		if err != nil {
			return err
		}
		defer h.Release()

		f, err := os.OpenFile(h.Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, e.fileMode)
		if err != nil {
			return err
		}

		n, werr := f.Write(data)
		cerr := f.Close()
		switch {
		case werr != nil:
			return werr
		case n != len(data):
			return fmt.Errorf("wrote %d of %d bytes: %w", n, len(data), io.ErrShortWrite)
		case cerr != nil:
			return cerr
		}

		e.metrics.AddBytes(OpWrite.String(), int64(n))
		return nil
	}, zap.Int("bytes", len(data)))
}

// Delete removes the file under an exclusive lock. The registry entry is
// kept, so later operations on the path reuse the same lock.
func (e *Executor) Delete(path string) error {
	return e.run(OpDelete, path, func() error {
		h, err := e.acquire(path, registry.Exclusive, false)
		if err != nil {
			return err
		}
		defer h.Release()

		return os.Remove(h.Path())
	})
}

// Rename moves oldPath to newPath. oldPath must already be tracked by an
// earlier operation. The entry keeps its lock and moves to newPath; the
// rename fails with ErrAlreadyTracked if newPath has an entry of its own.
func (e *Executor) Rename(oldPath, newPath string) error {
	return e.run(OpRename, oldPath, func() error {
		h, err := e.acquire(oldPath, registry.Exclusive, true)
		if err != nil {
			return err
		}
		defer h.Release()

		pending, err := e.registry.ReserveRename(h, newPath)
		if err != nil {
			return err
		}

		if err := os.Rename(h.Path(), registry.Canonical(newPath)); err != nil {
			pending.Abort()
			return err
		}
		pending.Commit()
		return nil
	}, zap.String("new_path", newPath))
}
