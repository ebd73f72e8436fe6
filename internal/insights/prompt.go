package insights

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"salesdash/internal/model"
)

// Narrator 根据记录集生成分析文案
type Narrator interface {
	Narrate(ctx context.Context, records []model.SalesRecord, lang model.Language) (string, error)
}

// DataLines 每个渠道一行：- <source>: <revenue> KZT revenue, <leads> leads, <efficiency>% conv.
func DataLines(records []model.SalesRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("- %s: %s KZT revenue, %s leads, %s%% conv.",
			r.Source, plain(r.Revenue), plain(r.Leads), plain(r.Efficiency)))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt 分析师提示词
func BuildPrompt(records []model.SalesRecord, lang model.Language) string {
	langInstruction := "in Russian"
	if lang == model.LanguageEN {
		langInstruction = "in English"
	}

	var b strings.Builder
	b.WriteString("You are a senior data analyst. Analyze the following sales channel performance data:\n\n")
	b.WriteString(DataLines(records))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Provide a concise, strategic analysis %s (Markdown format).\n", langInstruction)
	b.WriteString("1. Identify the top performing channel (Cash Cow).\n")
	b.WriteString("2. Identify the most efficient channel (High ROI potential).\n")
	b.WriteString("3. Identify an underperforming channel that needs attention.\n")
	b.WriteString("4. Provide 3 specific actionable recommendations to increase total revenue.\n\n")
	b.WriteString("Keep the tone professional, modern, and business-oriented. Use bullet points.\n")
	return b.String()
}

// plain 最短十进制表示，不分组
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
