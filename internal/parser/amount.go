package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	strictDecimalRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	leadingFloatRe  = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)
)

// ParseAmount 解析金额/数量单元格，任何输入都不会失败，无法识别时返回 0
//
// 依次尝试：严格十进制（仅含逗号时逗号为小数点）；
// 逗号/点统一为点后取前缀数字；去掉所有非数字字符后按整数解析。
func ParseAmount(c Cell) float64 {
	switch c.Kind {
	case CellNumber:
		return finite(c.Num)
	case CellEmpty:
		return 0
	}

	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\u00a0' || r == '"' || r == '\'' {
			return -1
		}
		return r
	}, c.Text)
	if clean == "" {
		return 0
	}

	normalized := clean
	if strings.Contains(clean, ",") && !strings.Contains(clean, ".") {
		normalized = strings.Replace(clean, ",", ".", 1)
	}

	if strictDecimalRe.MatchString(normalized) {
		f, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0
		}
		return finite(f)
	}

	unified := strings.NewReplacer(",", ".").Replace(clean)
	if f, ok := parseLeadingFloat(unified); ok && f != 0 {
		return f
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, clean)
	if digits == "" {
		return 0
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// ParsePercentOrRatio 解析百分比/比率单元格（"45,5%" -> 45.5），失败返回 0
func ParsePercentOrRatio(c Cell) float64 {
	switch c.Kind {
	case CellNumber:
		return finite(c.Num)
	case CellEmpty:
		return 0
	}

	s := strings.ReplaceAll(c.Text, ",", ".")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '"' || r == '\'' || r == '%' || r == '％' {
			return -1
		}
		return r
	}, s)

	f, ok := parseLeadingFloat(s)
	if !ok {
		return 0
	}
	return f
}

// parseLeadingFloat 解析字符串开头最长的十进制数字前缀（"12.5₸" -> 12.5）
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloatRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
