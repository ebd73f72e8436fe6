package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"salesdash/internal/model"
)

// DefaultModel 默认模型
const DefaultModel = "gemini-3-flash-preview"

// GeminiNarrator 基于 Gemini API 的 Narrator
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// NewGeminiNarrator 创建 Gemini 客户端；未配置 apiKey 时返回 ErrNarratorDisabled
func NewGeminiNarrator(ctx context.Context, apiKey, modelName string) (*GeminiNarrator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNarratorDisabled
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiNarrator{client: client, model: modelName}, nil
}

// Narrate 调用模型生成分析文案
func (g *GeminiNarrator) Narrate(ctx context.Context, records []model.SalesRecord, lang model.Language) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(records, lang)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
