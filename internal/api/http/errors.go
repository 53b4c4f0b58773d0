package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
)

// StatusFor maps an operation failure to an HTTP status code
func StatusFor(err error) int {
	switch executor.KindOf(err) {
	case 0:
		return http.StatusOK
	case executor.KindNotFound:
		return http.StatusNotFound
	case executor.KindAlreadyTracked, executor.KindNotTracked:
		return http.StatusConflict
	case executor.KindResourceExhausted:
		return http.StatusInsufficientStorage
	case executor.KindInvalidPath:
		return http.StatusBadRequest
	case executor.KindClosed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(c *gin.Context, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("File request failed",
			zap.String("route", c.FullPath()),
			zap.Int("http_status", code),
			zap.Error(err),
		)
	}

	c.JSON(code, gin.H{
		"error":  err.Error(),
		"kind":   executor.KindOf(err).String(),
		"status": executor.StatusOf(err),
	})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return false
	}
	return true
}
