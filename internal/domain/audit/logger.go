package audit

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultPath is the audit log written when no path is configured
const DefaultPath = "file_operations.log"

// TimeFormat renders timestamps the way ctime(3) does
const TimeFormat = time.ANSIC

// Recorder accepts one audit record per operation attempt
type Recorder interface {
	Record(kind, path string, status int)
}

// Record is one audit log line
type Record struct {
	Time   time.Time
	Kind   string
	Path   string
	Status int
}

// String formats the record as it appears in the log, without newline
func (r Record) String() string {
	return fmt.Sprintf("[%s] Operation: %s, File: %s, Status: %d",
		r.Time.Format(TimeFormat), r.Kind, sanitize(r.Path), r.Status)
}

// Logger appends records to a text file. A single mutex covers every
// path and operation, so lines never interleave.
type Logger struct {
	mu      sync.Mutex
	path    string
	perm    os.FileMode
	now     func() time.Time
	onError func(error)
}

// New creates an audit logger writing to path
func New(path string) *Logger {
	if path == "" {
		path = DefaultPath
	}
	return &Logger{
		path: path,
		perm: 0644,
		now:  time.Now,
	}
}

// WithErrorHandler sets the callback that receives write failures.
// Failures never propagate to the caller of Record.
func (l *Logger) WithErrorHandler(fn func(error)) *Logger {
	l.mu.Lock()
	l.onError = fn
	l.mu.Unlock()
	return l
}

// WithClock overrides the timestamp source
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
	return l
}

// Path returns the log file location
func (l *Logger) Path() string {
	return l.path
}

// Record appends one line for an operation attempt
func (l *Logger) Record(kind, path string, status int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := Record{Time: l.now(), Kind: kind, Path: path, Status: status}
	if err := l.append(rec.String() + "\n"); err != nil && l.onError != nil {
		l.onError(err)
	}
}

func (l *Logger) append(line string) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, l.perm)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("write audit log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	return nil
}

// sanitize keeps a record on one line
func sanitize(path string) string {
	if !strings.ContainsAny(path, "\r\n") {
		return path
	}
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(path)
}

// Discard is a Recorder that drops every record
type Discard struct{}

func (Discard) Record(string, string, int) {}
