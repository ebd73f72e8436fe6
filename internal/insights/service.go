package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"salesdash/internal/metrics"
	"salesdash/internal/model"
)

// DefaultTimeout 单次生成超时
const DefaultTimeout = 60 * time.Second

// Result 生成结果
type Result struct {
	RequestID   string         `json:"requestId"`
	Language    model.Language `json:"language"`
	Text        string         `json:"text"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// Service 文案生成服务：限流、超时、错误归一
type Service struct {
	narrator Narrator
	limiter  *rate.Limiter
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService 创建服务；narrator 为 nil 表示未配置，perMinute<=0 表示不限流
func NewService(narrator Narrator, perMinute int, m *metrics.Metrics, logger *slog.Logger) *Service {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		narrator: narrator,
		limiter:  limiter,
		timeout:  DefaultTimeout,
		metrics:  m,
		logger:   logger,
	}
}

// Enabled 是否已配置模型
func (s *Service) Enabled() bool {
	return s.narrator != nil
}

// Generate 生成分析文案；除 ErrNoData 外的失败都包装为 ErrGenerationFailed
func (s *Service) Generate(ctx context.Context, records []model.SalesRecord, lang model.Language) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	requestID := uuid.NewString()
	logger := s.logger.With(slog.String("request_id", requestID))

	if s.narrator == nil {
		s.metrics.ObserveInsight(metrics.ResultError)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ErrNarratorDisabled)
	}
	if !s.limiter.Allow() {
		s.metrics.ObserveInsight(metrics.ResultError)
		logger.Warn("insight request rate limited")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ErrRateLimited)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.narrator.Narrate(ctx, records, lang)
	if err != nil {
		s.metrics.ObserveInsight(metrics.ResultError)
		logger.Error("insight generation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.metrics.ObserveInsight(metrics.ResultSuccess)
	logger.Info("insight generated",
		slog.Int("records", len(records)),
		slog.String("language", string(lang)),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{
		RequestID:   requestID,
		Language:    lang,
		Text:        text,
		GeneratedAt: time.Now(),
	}, nil
}
