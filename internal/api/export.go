package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salesdash/internal/exporter"
)

// Export 导出当前记录集
// GET /api/export?format=csv|xlsx
func (h *Handler) Export(c *gin.Context) {
	format, err := exporter.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := h.state.Snapshot()

	var buf bytes.Buffer
	if err := exporter.Export(&buf, format, snap.Records, snap.KPIs, snap.Language); err != nil {
		h.logger.Error("export failed", slog.String("format", string(format)), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := exporter.Filename(format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
