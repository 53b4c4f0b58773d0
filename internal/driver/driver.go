package driver

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
)

const (
	// DefaultPath is the shared file every worker targets
	DefaultPath = "test.txt"
	// SeedContent is written to the shared file before workers start
	SeedContent = "This is the initial test file content.\n"
	// WorkerContent is what write workers store
	WorkerContent = "This is new content written by a thread.\n"
)

// Plan is one worker's single operation
type Plan struct {
	Worker  int
	Op      executor.Op
	Path    string
	Content []byte
}

// Result is the outcome of one plan
type Result struct {
	Plan        Plan
	Destination string
	Bytes       int
	Metadata    *executor.FileMetadata
	Duration    time.Duration
	Err         error
}

// OK reports whether the operation succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// ParseOp accepts a menu number (1-8) or an operation name. Anything else
// falls back to read and reports false.
func ParseOp(s string) (executor.Op, bool) {
	s = strings.TrimSpace(strings.ToLower(s))

	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(executor.Ops) {
			return executor.Ops[n-1], true
		}
		return executor.OpRead, false
	}

	for _, op := range executor.Ops {
		if string(op) == s {
			return op, true
		}
	}
	return executor.OpRead, false
}

// Menu returns the numbered operation list shown to interactive users
func Menu() string {
	var b strings.Builder
	b.WriteString("Operation types:\n")
	for i, op := range executor.Ops {
		fmt.Fprintf(&b, "%d: %s\n", i+1, op)
	}
	return b.String()
}

// Plans builds one plan per operation, numbering workers from 1
func Plans(path string, ops []executor.Op) []Plan {
	plans := make([]Plan, len(ops))
	for i, op := range ops {
		plans[i] = Plan{Worker: i + 1, Op: op, Path: path}
		if op == executor.OpWrite {
			plans[i].Content = []byte(WorkerContent)
		}
	}
	return plans
}

// Run starts one goroutine per plan, waits for all of them and returns the
// results in plan order. Each worker prints its outcome to out as it
// finishes. Operation failures are reported in the results, not as errors;
// the returned error is only set when ctx ends before every worker started.
func Run(ctx context.Context, exec *executor.Executor, plans []Plan, out io.Writer) ([]Result, error) {
	if out == nil {
		out = io.Discard
	}

	results := make([]Result, len(plans))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Plan: plan, Err: err}
				return err
			}

			result := execute(exec, plan)
			results[i] = result

			mu.Lock()
			defer mu.Unlock()
			_, _ = io.WriteString(out, Format(result))
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func execute(exec *executor.Executor, plan Plan) Result {
	result := Result{Plan: plan}
	start := time.Now()

	switch plan.Op {
	case executor.OpRead:
		data, err := exec.Read(plan.Path)
		result.Bytes, result.Err = len(data), err
	case executor.OpWrite:
		result.Err = exec.Write(plan.Path, plan.Content)
		result.Bytes = len(plan.Content)
	case executor.OpMetadata:
		result.Metadata, result.Err = exec.Metadata(plan.Path)
	case executor.OpDelete:
		result.Err = exec.Delete(plan.Path)
	case executor.OpRename:
		result.Destination = exec.Destination(plan.Op, plan.Path, plan.Worker)
		result.Err = exec.Rename(plan.Path, result.Destination)
	case executor.OpCopy:
		result.Destination = exec.Destination(plan.Op, plan.Path, plan.Worker)
		result.Err = exec.Copy(plan.Path, result.Destination)
	case executor.OpCompress:
		result.Destination = exec.Destination(plan.Op, plan.Path, plan.Worker)
		result.Err = exec.Compress(plan.Path, result.Destination)
	case executor.OpDecompress:
		result.Destination = exec.Destination(plan.Op, plan.Path, plan.Worker)
		result.Err = exec.Decompress(plan.Path, result.Destination)
	default:
		result.Err = fmt.Errorf("unknown operation %q", plan.Op)
	}

	result.Duration = time.Since(start)
	return result
}

// Format renders a result the way workers print it
func Format(r Result) string {
	p := r.Plan
	if r.Err != nil {
		return fmt.Sprintf("Worker %d: Failed to %s %s: %v\n", p.Worker, p.Op, p.Path, r.Err)
	}

	switch p.Op {
	case executor.OpRead:
		return fmt.Sprintf("Worker %d: Successfully read %d bytes from %s\n", p.Worker, r.Bytes, p.Path)
	case executor.OpWrite:
		return fmt.Sprintf("Worker %d: Successfully wrote to %s\n", p.Worker, p.Path)
	case executor.OpMetadata:
		m := r.Metadata
		return fmt.Sprintf("Worker %d: Metadata for %s:\n  Size: %d bytes\n  Created: %s\n  Permissions: %o\n",
			p.Worker, p.Path, m.Size, m.CreatedAt.Format(time.ANSIC), uint32(m.Permissions))
	case executor.OpDelete:
		return fmt.Sprintf("Worker %d: Successfully deleted %s\n", p.Worker, p.Path)
	case executor.OpRename:
		return fmt.Sprintf("Worker %d: Successfully renamed %s to %s\n", p.Worker, p.Path, r.Destination)
	case executor.OpCopy:
		return fmt.Sprintf("Worker %d: Successfully copied %s to %s\n", p.Worker, p.Path, r.Destination)
	case executor.OpCompress:
		return fmt.Sprintf("Worker %d: Successfully compressed %s to %s\n", p.Worker, p.Path, r.Destination)
	case executor.OpDecompress:
		return fmt.Sprintf("Worker %d: Successfully decompressed %s to %s\n", p.Worker, p.Path, r.Destination)
	default:
		return fmt.Sprintf("Worker %d: Completed %s on %s\n", p.Worker, p.Op, p.Path)
	}
}

// Summary counts successes and failures
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
