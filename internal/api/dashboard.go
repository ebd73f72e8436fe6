package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"salesdash/internal/calculator"
	"salesdash/internal/i18n"
	"salesdash/internal/model"
	"salesdash/internal/state"
)

// DashboardResponse 看板数据：快照 + 指标卡片 + 文案
type DashboardResponse struct {
	*state.Snapshot
	Indicators []calculator.Indicator `json:"indicators"`
	Labels     i18n.Translation       `json:"labels"`
}

// LanguageRequest 切换语言请求
type LanguageRequest struct {
	Language string `json:"language" binding:"required,oneof=ru en"`
}

func newDashboardResponse(snap *state.Snapshot) DashboardResponse {
	return DashboardResponse{
		Snapshot:   snap,
		Indicators: calculator.Indicators(snap.KPIs, snap.Language),
		Labels:     i18n.Labels(snap.Language),
	}
}

// GetDashboard 获取当前看板
// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, newDashboardResponse(h.state.Snapshot()))
}

// Reset 恢复默认数据
// POST /api/reset
func (h *Handler) Reset(c *gin.Context) {
	snap := h.state.Reset()
	h.logger.Info("dashboard reset to default dataset")
	c.JSON(http.StatusOK, newDashboardResponse(snap))
}

// SetLanguage 设置界面语言
// PATCH /api/language
func (h *Handler) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language must be one of: ru, en"})
		return
	}

	snap := h.state.SetLanguage(model.Language(req.Language))
	h.persistLanguage(snap.Language)
	c.JSON(http.StatusOK, newDashboardResponse(snap))
}

// ToggleLanguage ru <-> en
// POST /api/language/toggle
func (h *Handler) ToggleLanguage(c *gin.Context) {
	snap := h.state.ToggleLanguage()
	h.persistLanguage(snap.Language)
	c.JSON(http.StatusOK, newDashboardResponse(snap))
}

func (h *Handler) persistLanguage(lang model.Language) {
	if h.store == nil {
		return
	}
	if err := h.store.SetLanguage(lang); err != nil {
		h.logger.Warn("failed to persist language", slog.String("error", err.Error()))
	}
}
