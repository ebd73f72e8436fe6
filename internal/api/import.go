package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"salesdash/internal/i18n"
	"salesdash/internal/importer"
	"salesdash/internal/parser"
	"salesdash/internal/store"
)

// GridRequest 浏览器端已解码的表格
type GridRequest struct {
	Name string      `json:"name"`
	Rows parser.Grid `json:"rows" binding:"required"`
}

// uploadError 本地化的上传错误，同时写入看板错误提示
func (h *Handler) uploadError(c *gin.Context, status int) {
	lang := h.state.Snapshot().Language
	snap := h.state.Fail(i18n.Labels(lang).UploadError)
	c.JSON(status, gin.H{"error": snap.Error, "snapshot": snap})
}

// Import 上传文件并导入 (SSE 流式响应)
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.uploadError(c, http.StatusRequestEntityTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart field \"file\""})
		return
	}
	if fileHeader.Size > h.maxUpload {
		h.uploadError(c, http.StatusRequestEntityTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.uploadError(c, http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		h.uploadError(c, http.StatusBadRequest)
		return
	}

	// 流式发送进度事件
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	progressChan := h.importer.Import(c.Request.Context(), importer.ImportOptions{
		Filename: filepath.Base(fileHeader.Filename),
		Data:     data,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ImportGrid 导入 JSON 表格
// POST /api/import/grid
func (h *Handler) ImportGrid(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var req GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.uploadError(c, http.StatusBadRequest)
		return
	}

	report, err := h.importer.ImportGrid(c.Request.Context(), req.Name, req.Rows)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  report.Snapshot.Error,
			"report": report,
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListImports 导入历史
// GET /api/imports?limit=20
func (h *Handler) ListImports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"imports": []any{}})
		return
	}

	var q struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}
	if q.Limit == 0 {
		q.Limit = store.DefaultImportLogLimit
	}

	logs, err := h.store.ListImportLogs(c.Request.Context(), q.Limit)
	if err != nil {
		h.logger.Error("failed to list imports", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list imports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": logs})
}
