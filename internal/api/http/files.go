package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PathRequest names a single file
type PathRequest struct {
	Path string `json:"path" binding:"required"`
}

// WriteRequest replaces a file's contents. Data is base64 in JSON; Text is
// used when Data is absent.
type WriteRequest struct {
	Path string `json:"path" binding:"required"`
	Data []byte `json:"data"`
	Text string `json:"text"`
}

// RenameRequest moves a tracked file
type RenameRequest struct {
	OldPath string `json:"old_path" binding:"required"`
	NewPath string `json:"new_path" binding:"required"`
}

// TransferRequest streams Source into Destination
type TransferRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// Read returns a file's contents
func (h *Handlers) Read(c *gin.Context) {
	var req PathRequest
	if !bind(c, &req) {
		return
	}

	path, ok := h.resolve(c, req.Path)
	if !ok {
		return
	}

	data, err := h.exec.Read(path)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path": req.Path,
		"size": len(data),
		"data": data,
	})
}

// Write replaces a file's contents
func (h *Handlers) Write(c *gin.Context) {
	var req WriteRequest
	if !bind(c, &req) {
		return
	}

	path, ok := h.resolve(c, req.Path)
	if !ok {
		return
	}

	data := req.Data
	if data == nil {
		data = []byte(req.Text)
	}

	if err := h.exec.Write(path, data); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":  req.Path,
		"bytes": len(data),
	})
}

// Delete removes a file
func (h *Handlers) Delete(c *gin.Context) {
	var req PathRequest
	if !bind(c, &req) {
		return
	}

	path, ok := h.resolve(c, req.Path)
	if !ok {
		return
	}

	if err := h.exec.Delete(path); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": req.Path})
}

// Rename moves a tracked file
func (h *Handlers) Rename(c *gin.Context) {
	var req RenameRequest
	if !bind(c, &req) {
		return
	}

	oldPath, ok := h.resolve(c, req.OldPath)
	if !ok {
		return
	}
	newPath, ok := h.resolve(c, req.NewPath)
	if !ok {
		return
	}

	if err := h.exec.Rename(oldPath, newPath); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"old_path": req.OldPath,
		"new_path": req.NewPath,
	})
}

// Copy duplicates a file
func (h *Handlers) Copy(c *gin.Context) {
	h.transfer(c, h.exec.Copy)
}

// Compress encodes a file with the configured codec
func (h *Handlers) Compress(c *gin.Context) {
	h.transfer(c, h.exec.Compress)
}

// Decompress decodes a compressed file
func (h *Handlers) Decompress(c *gin.Context) {
	h.transfer(c, h.exec.Decompress)
}

func (h *Handlers) transfer(c *gin.Context, op func(src, dst string) error) {
	var req TransferRequest
	if !bind(c, &req) {
		return
	}

	src, ok := h.resolve(c, req.Source)
	if !ok {
		return
	}
	dst, ok := h.resolve(c, req.Destination)
	if !ok {
		return
	}

	if err := op(src, dst); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":      req.Source,
		"destination": req.Destination,
	})
}

// Metadata returns a stat snapshot
func (h *Handlers) Metadata(c *gin.Context) {
	var req PathRequest
	if !bind(c, &req) {
		return
	}

	path, ok := h.resolve(c, req.Path)
	if !ok {
		return
	}

	meta, err := h.exec.Metadata(path)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

// resolve confines a request path to the served root, answering 400 when it
// escapes.
func (h *Handlers) resolve(c *gin.Context, path string) (string, bool) {
	resolved, err := h.paths.resolve(path)
	if err != nil {
		h.fail(c, err)
		return "", false
	}
	return resolved, true
}
