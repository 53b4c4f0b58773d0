package executor

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/audit"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/codec"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/shared/id"
)

const (
	// DefaultChunkSize is the transfer buffer size for copy and codec streams
	DefaultChunkSize = 4096
	// DefaultFileMode is applied to files the executor creates
	DefaultFileMode os.FileMode = 0644

	statusOK = "ok"
)

// Executor runs file operations under the registry's per-path locks and
// records one audit line for every call.
type Executor struct {
	registry  *registry.Manager
	audit     audit.Recorder
	codec     codec.Codec
	chunkSize int
	fileMode  os.FileMode
	atomic    bool
	buffers   *sync.Pool
	logger    *logging.Logger
	metrics   *monitoring.Metrics
}

// New creates an executor. A nil recorder discards audit records.
func New(reg *registry.Manager, recorder audit.Recorder) *Executor {
	if recorder == nil {
		recorder = audit.Discard{}
	}
	e := &Executor{
		registry: reg,
		audit:    recorder,
		codec:    codec.MustLookup(codec.Default),
		fileMode: DefaultFileMode,
		logger:   logging.NewNop(),
	}
	e.setChunkSize(DefaultChunkSize)
	return e
}

// WithCodec sets the codec used by Compress and the Decompress fallback
func (e *Executor) WithCodec(c codec.Codec) *Executor {
	if c != nil {
		e.codec = c
	}
	return e
}

// WithChunkSize sets the transfer buffer size. Non-positive sizes are ignored.
func (e *Executor) WithChunkSize(n int) *Executor {
	if n > 0 {
		e.setChunkSize(n)
	}
	return e
}

// WithFileMode sets the permissions of created files
func (e *Executor) WithFileMode(mode os.FileMode) *Executor {
	e.fileMode = mode.Perm()
	return e
}

// WithAtomicTransfers makes Copy, Compress and Decompress write to a
// temporary file in the destination directory and rename it into place.
func (e *Executor) WithAtomicTransfers(enabled bool) *Executor {
	e.atomic = enabled
	return e
}

// WithLogger sets the structured logger
func (e *Executor) WithLogger(logger *logging.Logger) *Executor {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithMetrics enables metrics and reports registry size changes
func (e *Executor) WithMetrics(metrics *monitoring.Metrics) *Executor {
	e.metrics = metrics
	if metrics != nil && e.registry != nil {
		e.registry.WithObserver(metrics.SetRegistryEntries)
		metrics.SetRegistryEntries(e.registry.Len())
	}
	return e
}

// Registry returns the lock registry
func (e *Executor) Registry() *registry.Manager {
	return e.registry
}

// Codec returns the configured codec
func (e *Executor) Codec() codec.Codec {
	return e.codec
}

func (e *Executor) setChunkSize(n int) {
	e.chunkSize = n
	e.buffers = &sync.Pool{
		New: func() any {
			buf := make([]byte, n)
			return &buf
		},
	}
}

// run executes fn and does the bookkeeping every operation shares: error
// classification, the audit line, metrics and logging.
func (e *Executor) run(op Op, path string, fn func() error, fields ...zap.Field) error {
	opID := id.NewOpID()
	timer := monitoring.NewTimer(e.metrics, op.String())

	err := newOpError(op, path, fn())

	e.audit.Record(op.String(), path, StatusOf(err))

	status := statusOK
	if err != nil {
		status = KindOf(err).String()
	}
	duration := timer.Stop(status)

	fields = append(fields,
		zap.Stringer("op_id", opID),
		zap.String("operation", op.String()),
		zap.String("path", path),
		zap.Duration("duration", duration),
	)

	if err != nil {
		if KindOf(err) == KindResourceExhausted {
			e.metrics.IncRegistryExhausted()
		}
		e.logger.Warn("File operation failed", append(fields, zap.Error(err))...)
		return err
	}

	e.logger.Debug("File operation completed", fields...)
	return nil
}

// acquire takes a lock and reports how long the caller waited for it
func (e *Executor) acquire(path string, mode registry.Mode, tracked bool) (*registry.Handle, error) {
	start := time.Now()

	var (
		h   *registry.Handle
		err error
	)
	switch {
	case tracked:
		h, err = e.registry.AcquireTracked(path)
	case mode == registry.Exclusive:
		h, err = e.registry.AcquireExclusive(path)
	default:
		h, err = e.registry.AcquireShared(path)
	}

	e.metrics.ObserveLockWait(mode.String(), time.Since(start))
	return h, err
}
