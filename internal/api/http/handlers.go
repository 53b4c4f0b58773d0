package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/journal"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/infrastructure/monitoring"
)

// Handlers exposes the executor over HTTP
type Handlers struct {
	exec      *executor.Executor
	paths     *confinement
	journal   *journal.Journal
	auditPath string
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// NewHandlers creates a new handler set. Every file path a request names
// must resolve inside root. auditPath is the file served by GET /audit.
func NewHandlers(exec *executor.Executor, j *journal.Journal, root, auditPath string, logger *logging.Logger) (*Handlers, error) {
	paths, err := newConfinement(root)
	if err != nil {
		return nil, err
	}
	if j == nil {
		j = journal.New()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		exec:      exec,
		paths:     paths,
		journal:   j,
		auditPath: auditPath,
		logger:    logger,
	}, nil
}

// WithMetrics adds the running operation totals to GET /health
func (h *Handlers) WithMetrics(m *monitoring.Metrics) *Handlers {
	h.metrics = m
	return h
}

// Root returns the directory request paths are confined to
func (h *Handlers) Root() string {
	return h.paths.root
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/registry", h.Registry)
	r.GET("/audit", h.Audit)

	files := r.Group("/files")
	files.POST("/read", h.Read)
	files.POST("/write", h.Write)
	files.POST("/delete", h.Delete)
	files.POST("/rename", h.Rename)
	files.POST("/copy", h.Copy)
	files.POST("/metadata", h.Metadata)
	files.POST("/compress", h.Compress)
	files.POST("/decompress", h.Decompress)
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	reg := h.exec.Registry()
	body := gin.H{
		"status":  "healthy",
		"service": "fileops",
		"codec":   h.exec.Codec().Name(),
		"root":    h.paths.root,
		"registry": gin.H{
			"entries":  reg.Len(),
			"capacity": reg.Capacity(),
		},
	}
	if h.metrics != nil {
		body["operations"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Registry lists tracked paths
func (h *Handlers) Registry(c *gin.Context) {
	reg := h.exec.Registry()
	c.JSON(http.StatusOK, gin.H{
		"capacity": reg.Capacity(),
		"entries":  reg.Len(),
		"paths":    reg.Paths(),
	})
}
