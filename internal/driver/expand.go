package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// IsPattern reports whether path contains glob syntax
func IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Expand resolves a doublestar pattern such as "logs/**/*.txt" to the
// regular files it matches, sorted. A path without glob syntax is returned
// unchanged whether or not it exists.
func Expand(ctx context.Context, pattern string) ([]string, error) {
	if !IsPattern(pattern) {
		return []string{pattern}, nil
	}

	clean := filepath.ToSlash(filepath.Clean(pattern))
	if !doublestar.ValidatePattern(clean) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	root, _ := doublestar.SplitPattern(clean)

	var (
		mu      sync.Mutex
		matches []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, filepath.FromSlash(root), func(p string, d os.DirEntry, err error) error {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // Skip unreadable entries
		}
		if !d.Type().IsRegular() {
			return nil
		}

		candidate := filepath.ToSlash(filepath.Clean(p))
		if ok, _ := doublestar.Match(clean, candidate); ok {
			mu.Lock()
			matches = append(matches, filepath.FromSlash(candidate))
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(matches)
	return matches, nil
}
