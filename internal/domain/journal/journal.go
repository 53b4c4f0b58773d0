package journal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// DefaultFileMode is applied to journal files on creation
const DefaultFileMode os.FileMode = 0644

// MaxLineSize is the longest line Stream accepts
const MaxLineSize = 1 << 20

// ErrStop ends a Stream early without reporting an error
var ErrStop = errors.New("journal: stop")

// Journal appends and streams newline-delimited text files. It has its own
// lock and shares nothing with the lock registry or the audit log.
type Journal struct {
	mu   sync.Mutex
	perm os.FileMode
}

// New creates a journal
func New() *Journal {
	return &Journal{perm: DefaultFileMode}
}

// Append writes line plus a trailing newline to the end of path, creating
// the file if needed. Lines containing a newline are rejected.
func (j *Journal) Append(path, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("journal: line contains a newline")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, j.perm)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", path, err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("journal: append %s: %w", path, err)
	}
	return f.Close()
}

// Stream calls fn for each line of path without its newline. Returning
// ErrStop from fn ends the stream with a nil error; any other error is
// returned as is.
func (j *Journal) Stream(path string, fn func(line string) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("journal: read %s: %w", path, err)
	}
	return nil
}

// Lines returns every line of path
func (j *Journal) Lines(path string) ([]string, error) {
	var lines []string
	err := j.Stream(path, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines, err
}
