package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Version         string     `json:"version"`
	StateVersion    uint64     `json:"stateVersion"`    // 看板快照版本
	IsCustomData    bool       `json:"isCustomData"`    // 是否为上传数据
	RecordCount     int        `json:"recordCount"`     // 渠道数
	Language        string     `json:"language"`        // 当前语言
	InsightsEnabled bool       `json:"insightsEnabled"` // 是否已配置 AI 分析
	Database        string     `json:"database"`        // ok / unavailable
	LastImportTime  *time.Time `json:"lastImportTime"`  // 最后导入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	snap := h.state.Snapshot()
	resp := StatusResponse{
		Version:         h.version,
		StateVersion:    snap.Version,
		IsCustomData:    snap.IsCustomData,
		RecordCount:     len(snap.Records),
		Language:        string(snap.Language),
		InsightsEnabled: h.insights != nil && h.insights.Enabled(),
		Database:        "unavailable",
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err == nil {
			resp.Database = "ok"
			if logs, err := h.store.ListImportLogs(ctx, 1); err == nil && len(logs) > 0 {
				t := logs[0].CreatedAt
				resp.LastImportTime = &t
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
