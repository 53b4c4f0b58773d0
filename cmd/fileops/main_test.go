package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/driver"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/shared/id"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FILEOPS_AUDIT_LOG", filepath.Join(dir, "audit.log"))
	t.Setenv("FILEOPS_HTTP_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestRunWithFlags(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "test.txt")

	var out bytes.Buffer
	err := run([]string{"-o", "1,3", "-p", path}, strings.NewReader(""), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Created initial test file: "+path)
	assert.Contains(t, text, "Worker 1: Successfully read")
	assert.Contains(t, text, "Worker 2: Metadata for "+path)
	assert.Contains(t, text, "All workers completed: 2 succeeded, 0 failed.")
	assert.Contains(t, text, "detailed operation history")

	data, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	// seed write plus two workers
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)
}

func TestRunPrompts(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "test.txt")

	var out bytes.Buffer
	stdin := strings.NewReader("2\n1\nbogus\n")
	err := run([]string{"-p", path}, stdin, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Enter the number of workers:")
	assert.Contains(t, text, "Operation types:")
	assert.Contains(t, text, "Enter operation for worker 2 (1-8):")
	assert.Contains(t, text, "Defaulting to read operation.")
	assert.Contains(t, text, "2 succeeded, 0 failed")
}

func TestRunJSONAndJournal(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "test.txt")
	journalPath := filepath.Join(dir, "journal.log")

	var out bytes.Buffer
	err := run([]string{"-n", "2", "-o", "read", "-p", path, "--json", "--journal", journalPath}, strings.NewReader(""), &out)
	require.NoError(t, err)

	text := out.String()
	start := strings.Index(text, "{")
	require.GreaterOrEqual(t, start, 0)

	var report reportJSON
	require.NoError(t, sonic.Unmarshal([]byte(text[start:]), &report))
	assert.True(t, strings.HasPrefix(report.RunID, "run_"))
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Results, 2)
	assert.Equal(t, executor.OpRead, report.Results[0].Op)
	assert.Equal(t, len(driver.SeedContent), report.Results[0].Bytes)

	data, err := os.ReadFile(journalPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run="+report.RunID+" worker=1 op=read")
	assert.Contains(t, lines[1], "status=0")
}

func TestRunMissingFileWithoutSeed(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "absent.txt")

	var out bytes.Buffer
	err := run([]string{"-o", "read", "-n", "1", "-p", path, "--no-seed"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Worker 1: Failed to read")
	assert.Contains(t, out.String(), "0 succeeded, 1 failed")
}

func TestRunRejectsBadInput(t *testing.T) {
	setupEnv(t)

	err := run([]string{"extra"}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unexpected argument")

	err = run([]string{"--codec", "bzip9"}, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)

	err = run(nil, strings.NewReader("zero\n"), &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid number of workers")

	err = run(nil, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, errNoInput)
}

func TestResolveOps(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader(""))
	var out bytes.Buffer

	ops, err := resolveOps(scanner, &out, 3, []string{"copy"})
	require.NoError(t, err)
	assert.Equal(t, []executor.Op{executor.OpCopy, executor.OpCopy, executor.OpCopy}, ops)

	ops, err = resolveOps(scanner, &out, 2, []string{"8", "9"})
	require.NoError(t, err)
	assert.Equal(t, []executor.Op{executor.OpRename, executor.OpRead}, ops)
	assert.Contains(t, out.String(), `Invalid operation "9" for worker 2`)

	_, err = resolveOps(scanner, &out, 3, []string{"1", "2"})
	assert.ErrorContains(t, err, "got 2 operations for 3 workers")
}

func TestBuildPlansNumbersAcrossPaths(t *testing.T) {
	plans := buildPlans([]string{"a", "b"}, []executor.Op{executor.OpRead, executor.OpWrite})
	require.Len(t, plans, 4)
	for i, p := range plans {
		assert.Equal(t, i+1, p.Worker)
	}
	assert.Equal(t, "b", plans[3].Path)
	assert.Equal(t, []byte(driver.WorkerContent), plans[3].Content)
}

func TestJournalLineIsSingleLine(t *testing.T) {
	line := journalLine(id.RunID("run_x"), driver.Result{
		Plan: driver.Plan{Worker: 4, Op: executor.OpCopy, Path: "a\nb"},
		Err:  os.ErrNotExist,
	})
	assert.NotContains(t, line, "\n")
	assert.Contains(t, line, "run=run_x worker=4 op=copy")
}
