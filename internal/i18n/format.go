package i18n

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// 看板数字统一按 ru-KZ 习惯显示（空格分组、逗号小数）
var printer = message.NewPrinter(language.MustParse("ru-KZ"))

// FormatNumber 最多 3 位小数
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatCurrency 整数金额 + ₸
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0 ₸"
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0))) + " ₸"
}
