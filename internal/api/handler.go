package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"salesdash/internal/importer"
	"salesdash/internal/insights"
	"salesdash/internal/model"
	"salesdash/internal/state"
)

// Store 处理器依赖的持久化能力
type Store interface {
	Ping(ctx context.Context) error
	ListImportLogs(ctx context.Context, limit int) ([]model.ImportLog, error)
	SetLanguage(lang model.Language) error
}

// Deps 处理器依赖
type Deps struct {
	State          *state.Store
	Importer       *importer.Coordinator
	Insights       *insights.Service
	Store          Store
	MaxUploadBytes int64
	Version        string
	Logger         *slog.Logger
}

// Handler API 处理器
type Handler struct {
	state     *state.Store
	importer  *importer.Coordinator
	insights  *insights.Service
	store     Store
	maxUpload int64
	version   string
	logger    *slog.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 20 << 20
	}
	return &Handler{
		state:     d.State,
		importer:  d.Importer,
		insights:  d.Insights,
		store:     d.Store,
		maxUpload: maxUpload,
		version:   d.Version,
		logger:    logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 看板快照
	router.GET("/dashboard", h.GetDashboard)
	router.POST("/reset", h.Reset)

	// 数据导入
	router.POST("/import", h.Import)
	router.POST("/import/grid", h.ImportGrid)
	router.GET("/imports", h.ListImports)

	// 界面语言
	router.PATCH("/language", h.SetLanguage)
	router.POST("/language/toggle", h.ToggleLanguage)

	// AI 分析
	router.POST("/insights", h.GenerateInsights)

	// 数据导出
	router.GET("/export", h.Export)
}
