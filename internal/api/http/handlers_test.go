package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/audit"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/journal"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/monitoring"
)

type testEnv struct {
	router    *gin.Engine
	exec      *executor.Executor
	dir       string
	auditPath string
}

func setup(t *testing.T, capacity int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")

	reg, err := registry.New(capacity)
	require.NoError(t, err)
	exec := executor.New(reg, audit.New(auditPath))

	router := gin.New()
	handlers, err := NewHandlers(exec, journal.New(), dir, auditPath, nil)
	require.NoError(t, err)
	handlers.Register(router)

	return &testEnv{router: router, exec: exec, dir: dir, auditPath: auditPath}
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e *testEnv) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestHealth(t *testing.T) {
	env := setup(t, 10)

	w, body := env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "gzip", body["codec"])
	assert.Equal(t, map[string]any{"entries": float64(0), "capacity": float64(10)}, body["registry"])
}

func TestHealthReportsOperationTotals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	reg, err := registry.New(10)
	require.NoError(t, err)
	exec := executor.New(reg, nil).WithMetrics(metrics)

	handlers, err := NewHandlers(exec, nil, dir, filepath.Join(dir, "audit.log"), nil)
	require.NoError(t, err)
	router := gin.New()
	handlers.WithMetrics(metrics).Register(router)
	env := &testEnv{router: router, exec: exec, dir: dir}

	w, _ := env.do(t, "POST", "/files/write", WriteRequest{Path: "a.txt", Text: "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, "POST", "/files/read", PathRequest{Path: "missing.txt"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w, body := env.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ops, ok := body["operations"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), ops["total_operations"])
	assert.Equal(t, float64(1), ops["failed_operations"])
	assert.Equal(t, float64(2), ops["registry_entries"])
}

func TestWriteReadRoundTrip(t *testing.T) {
	env := setup(t, 10)
	path := env.path("a.txt")

	w, body := env.do(t, "POST", "/files/write", WriteRequest{Path: path, Text: "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), body["bytes"])

	var resp struct {
		Path string `json:"path"`
		Size int    `json:"size"`
		Data []byte `json:"data"`
	}
	w, _ = env.do(t, "POST", "/files/read", PathRequest{Path: path})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", string(resp.Data))
	assert.Equal(t, 5, resp.Size)

	// Binary payloads travel as base64
	w, _ = env.do(t, "POST", "/files/write", WriteRequest{Path: path, Data: []byte{0, 1, 2, 255}})
	require.Equal(t, http.StatusOK, w.Code)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 255}, content)
}

func TestErrorStatusMapping(t *testing.T) {
	env := setup(t, 2)

	w, body := env.do(t, "POST", "/files/read", PathRequest{Path: env.path("missing")})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", body["kind"])
	assert.Equal(t, float64(-2), body["status"])

	w, body = env.do(t, "POST", "/files/rename", RenameRequest{OldPath: env.path("never"), NewPath: env.path("x")})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_tracked", body["kind"])

	// missing is tracked now, fill the second slot
	w, _ = env.do(t, "POST", "/files/write", WriteRequest{Path: env.path("b"), Text: "b"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, "POST", "/files/write", WriteRequest{Path: env.path("c"), Text: "c"})
	assert.Equal(t, http.StatusInsufficientStorage, w.Code)
	assert.Equal(t, float64(-4), body["status"])

	w, body = env.do(t, "POST", "/files/rename", RenameRequest{OldPath: env.path("b"), NewPath: env.path("missing")})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_tracked", body["kind"])
}

func TestBadRequest(t *testing.T) {
	env := setup(t, 10)

	w, body := env.do(t, "POST", "/files/read", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "invalid request")

	w, _ = env.do(t, "POST", "/files/copy", TransferRequest{Source: env.path("a")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, "GET", "/audit?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransfersAndRegistry(t *testing.T) {
	env := setup(t, 10)
	src := env.path("src.txt")
	require.NoError(t, env.exec.Write(src, []byte("transfer me")))

	w, _ := env.do(t, "POST", "/files/copy", TransferRequest{Source: src, Destination: env.path("copy.txt")})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, "POST", "/files/compress", TransferRequest{Source: src, Destination: env.path("src.gz")})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, "POST", "/files/decompress", TransferRequest{Source: env.path("src.gz"), Destination: env.path("out.txt")})
	require.Equal(t, http.StatusOK, w.Code)

	out, err := os.ReadFile(env.path("out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "transfer me", string(out))

	w, body := env.do(t, "GET", "/registry", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Sorted: "src.gz" before "src.txt"
	assert.Equal(t, []any{env.path("src.gz"), src}, body["paths"])

	w, _ = env.do(t, "POST", "/files/rename", RenameRequest{OldPath: src, NewPath: env.path("moved.txt")})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, "POST", "/files/delete", PathRequest{Path: env.path("moved.txt")})
	require.Equal(t, http.StatusOK, w.Code)
	_, err = os.Stat(env.path("moved.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestMetadataEndpoint(t *testing.T) {
	env := setup(t, 10)
	path := env.path("meta.txt")
	require.NoError(t, os.WriteFile(path, []byte("twelve bytes"), 0644))

	var meta executor.FileMetadata
	w, _ := env.do(t, "POST", "/files/metadata", PathRequest{Path: path})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, int64(12), meta.Size)
	assert.Equal(t, path, meta.Path)
	assert.WithinDuration(t, time.Now(), meta.ModifiedAt, time.Minute)
}

func TestAuditEndpoint(t *testing.T) {
	env := setup(t, 10)

	// No log yet
	w, body := env.do(t, "GET", "/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["total"])
	assert.Empty(t, body["lines"])

	for i := 0; i < 5; i++ {
		require.NoError(t, env.exec.Write(env.path(fmt.Sprintf("f%d", i)), []byte("x")))
	}

	w, body = env.do(t, "GET", "/audit?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), body["total"])

	lines, ok := body["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "File: "+env.path("f3")+", Status: 0")
	assert.Contains(t, lines[1], "File: "+env.path("f4")+", Status: 0")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusFor(nil))
	assert.Equal(t, http.StatusBadRequest, StatusFor(registry.ErrInvalidPath))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(registry.ErrClosed))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(fmt.Errorf("boom")))
}

func TestPathsConfinedToRoot(t *testing.T) {
	env := setup(t, 10)
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("TOPSECRET"), 0600))
	rel, err := filepath.Rel(env.dir, secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		body   any
	}{
		{"read absolute outside", "/files/read", PathRequest{Path: secret}},
		{"read dot dot", "/files/read", PathRequest{Path: rel}},
		{"read dot dot inside path", "/files/read", PathRequest{Path: "sub/../../x"}},
		{"delete absolute outside", "/files/delete", PathRequest{Path: secret}},
		{"write outside", "/files/write", WriteRequest{Path: filepath.Join(outside, "new.txt"), Text: "x"}},
		{"metadata outside", "/files/metadata", PathRequest{Path: secret}},
		{"copy out of root", "/files/copy", TransferRequest{Source: env.path("a.txt"), Destination: filepath.Join(outside, "a.txt")}},
		{"compress from outside", "/files/compress", TransferRequest{Source: secret, Destination: env.path("s.gz")}},
		{"rename out of root", "/files/rename", RenameRequest{OldPath: env.path("a.txt"), NewPath: filepath.Join(outside, "a.txt")}},
	}

	require.NoError(t, os.WriteFile(env.path("a.txt"), []byte("a"), 0644))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, "POST", tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_path", body["kind"])
			assert.Equal(t, float64(-8), body["status"])
		})
	}

	content, err := os.ReadFile(secret)
	require.NoError(t, err)
	assert.Equal(t, "TOPSECRET", string(content))
	_, err = os.Stat(filepath.Join(outside, "new.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outside, "a.txt"))
	assert.True(t, os.IsNotExist(err))

	// Rejected requests never reach the executor
	assert.Equal(t, 0, env.exec.Registry().Len())
}

func TestRelativePathsResolveUnderRoot(t *testing.T) {
	env := setup(t, 10)

	w, _ := env.do(t, "POST", "/files/write", WriteRequest{Path: "notes/../a.txt", Text: "inside"})
	require.Equal(t, http.StatusOK, w.Code)

	content, err := os.ReadFile(env.path("a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "inside", string(content))
	assert.Equal(t, []string{env.path("a.txt")}, env.exec.Registry().Paths())
}

func TestSymlinkOutOfRootRejected(t *testing.T) {
	env := setup(t, 10)
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("TOPSECRET"), 0600))

	if err := os.Symlink(outside, env.path("link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing.txt"), env.path("dangling")))

	w, _ := env.do(t, "POST", "/files/read", PathRequest{Path: "link/secret.txt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, "POST", "/files/write", WriteRequest{Path: "link/new.txt", Text: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, "POST", "/files/write", WriteRequest{Path: "dangling", Text: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, err := os.Stat(filepath.Join(outside, "missing.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewHandlersRequiresDirectoryRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewHandlers(nil, nil, file, "audit.log", nil)
	assert.Error(t, err)

	_, err = NewHandlers(nil, nil, filepath.Join(file, "missing"), "audit.log", nil)
	assert.Error(t, err)
}
