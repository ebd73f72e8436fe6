package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salesdash/internal/i18n"
	"salesdash/internal/insights"
	"salesdash/internal/model"
)

// InsightsRequest 可选指定语言，默认使用界面语言
type InsightsRequest struct {
	Language string `json:"language" binding:"omitempty,oneof=ru en"`
}

// GenerateInsights 基于当前记录集生成分析文案
// POST /api/insights
func (h *Handler) GenerateInsights(c *gin.Context) {
	var req InsightsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "language must be one of: ru, en"})
			return
		}
	}

	snap := h.state.Snapshot()
	lang := snap.Language
	if req.Language != "" {
		lang = model.Language(req.Language)
	}
	t := i18n.Labels(lang)

	if h.insights == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": t.GenerationFailed})
		return
	}

	res, err := h.insights.Generate(c.Request.Context(), snap.Records, lang)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, insights.ErrNoData):
		c.JSON(http.StatusBadRequest, gin.H{"error": t.NoData})
	case errors.Is(err, insights.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": t.GenerationFailed})
	case errors.Is(err, insights.ErrNarratorDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": t.GenerationFailed})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": t.GenerationFailed})
	}
}
