package http

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
)

// confinement keeps request paths inside one directory. Relative paths are
// taken from the root; absolute paths must already lie under it. Symlinks
// are followed before the check so a link cannot lead out.
type confinement struct {
	root string
	real string
}

func newConfinement(root string) (*confinement, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}
	return &confinement{root: abs, real: real}, nil
}

// resolve returns the absolute path the executor should use
func (c *confinement) resolve(path string) (string, error) {
	if path == "" {
		return "", executor.ErrInvalidPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.root, path)
	}
	path = filepath.Clean(path)
	if !within(c.root, path) {
		return "", fmt.Errorf("%s is outside the served root: %w", path, executor.ErrInvalidPath)
	}

	real, err := evalExisting(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if !within(c.real, real) {
		return "", fmt.Errorf("%s leads outside the served root: %w", path, executor.ErrInvalidPath)
	}
	return path, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalExisting resolves symlinks in the longest existing prefix of path and
// appends the missing tail unchanged.
func evalExisting(path string) (string, error) {
	var tail []string
	for {
		real, err := filepath.EvalSymlinks(path)
		if err == nil {
			return filepath.Join(append([]string{real}, tail...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		// A dangling link would be created through on write
		if _, lerr := os.Lstat(path); lerr == nil {
			return "", fmt.Errorf("dangling symlink: %w", executor.ErrInvalidPath)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return filepath.Join(append([]string{path}, tail...)...), nil
		}
		tail = append([]string{filepath.Base(path)}, tail...)
		path = parent
	}
}
