package executor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/registry"
)

var (
	ErrIO         = errors.New("i/o error")
	ErrNotFound   = errors.New("file not found")
	ErrShortWrite = errors.New("short write")

	// Registry failures surface unchanged
	ErrResourceExhausted = registry.ErrResourceExhausted
	ErrAlreadyTracked    = registry.ErrAlreadyTracked
	ErrNotTracked        = registry.ErrNotTracked
	ErrClosed            = registry.ErrClosed
	ErrInvalidPath       = registry.ErrInvalidPath
)

// Kind classifies why an operation failed
type Kind int

const (
	KindIO Kind = iota + 1
	KindNotFound
	KindShortWrite
	KindResourceExhausted
	KindAlreadyTracked
	KindNotTracked
	KindClosed
	KindInvalidPath
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io_error"
	case KindNotFound:
		return "not_found"
	case KindShortWrite:
		return "short_write"
	case KindResourceExhausted:
		return "resource_exhausted"
	case KindAlreadyTracked:
		return "already_tracked"
	case KindNotTracked:
		return "not_tracked"
	case KindClosed:
		return "closed"
	case KindInvalidPath:
		return "invalid_path"
	default:
		return "unknown"
	}
}

// Status is the integer written to the audit log for this kind
func (k Kind) Status() int {
	if k < KindIO || k > KindInvalidPath {
		return int(-KindIO)
	}
	return -int(k)
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindNotFound:
		return ErrNotFound
	case KindShortWrite:
		return ErrShortWrite
	case KindResourceExhausted:
		return ErrResourceExhausted
	case KindAlreadyTracked:
		return ErrAlreadyTracked
	case KindNotTracked:
		return ErrNotTracked
	case KindClosed:
		return ErrClosed
	case KindInvalidPath:
		return ErrInvalidPath
	default:
		return nil
	}
}

// OpError is returned by every failed operation
type OpError struct {
	Op   Op
	Path string
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *OpError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf classifies err. Returns 0 for nil.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}

	switch {
	case errors.Is(err, registry.ErrResourceExhausted):
		return KindResourceExhausted
	case errors.Is(err, registry.ErrAlreadyTracked):
		return KindAlreadyTracked
	case errors.Is(err, registry.ErrNotTracked):
		return KindNotTracked
	case errors.Is(err, registry.ErrClosed):
		return KindClosed
	case errors.Is(err, registry.ErrInvalidPath):
		return KindInvalidPath
	case errors.Is(err, io.ErrShortWrite):
		return KindShortWrite
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	default:
		return KindIO
	}
}

// StatusOf returns the audit status for an operation result: 0 on success,
// a negative kind code otherwise.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).Status()
}

func newOpError(op Op, path string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}
	return &OpError{Op: op, Path: path, Kind: KindOf(err), Err: err}
}
