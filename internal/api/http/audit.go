package http

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 10_000
)

// Audit returns the most recent audit log lines, oldest first.
// Query: limit (default 100, max 10000).
func (h *Handlers) Audit(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	// Ring buffer of the last limit lines
	ring := make([]string, 0, limit)
	next := 0
	total := 0
	err := h.journal.Stream(h.auditPath, func(line string) error {
		total++
		if len(ring) < limit {
			ring = append(ring, line)
			return nil
		}
		ring[next] = line
		next = (next + 1) % limit
		return nil
	})

	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Nothing has been audited yet
	case err != nil:
		h.fail(c, err)
		return
	}

	lines := append(ring[next:len(ring):len(ring)], ring[:next]...)
	c.JSON(http.StatusOK, gin.H{
		"path":  h.auditPath,
		"total": total,
		"lines": lines,
	})
}
