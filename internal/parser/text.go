package parser

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeaderText 规范化表头文本：NFC、小写、去首尾空白、压缩内部空白
// 例如 "Кол-во\nлидов " -> "кол-во лидов"
func NormalizeHeaderText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// HasAnyPrefix 不区分大小写判断是否以任意一个前缀开头
func HasAnyPrefix(text string, prefixes []string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// FooterMarkers 汇总/合计行标记，此类行不属于任何渠道
var FooterMarkers = []string{
	"total",
	"итог",
	"общее",
	"всего",
	"среднее",
}

// IsFooterLabel 渠道名是否为汇总行标记
func IsFooterLabel(source string) bool {
	return HasAnyPrefix(source, FooterMarkers)
}
