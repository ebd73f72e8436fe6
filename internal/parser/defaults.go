package parser

import (
	_ "embed"
	"strings"

	"salesdash/internal/model"
)

//go:embed default_sales.csv
var defaultSalesCSV string

// staticColumns 内置数据集固定列数：source, leads, successful, efficiency, revenue, avgCheck
const staticColumns = 6

// staticNoisePrefixes 内置数据集中的汇总/噪声行
var staticNoisePrefixes = []string{
	"качественные",
	"не указано",
	"общее",
	"qualified",
	"unspecified",
	"overall",
}

// DefaultRecords 解析内置数据集（启动与“重置”时使用）
func DefaultRecords() []model.SalesRecord {
	return ParseStaticDataset(defaultSalesCSV)
}

// ParseStaticDataset 解析固定列顺序的逗号分隔文本，首行为表头（按位置忽略）
func ParseStaticDataset(text string) []model.SalesRecord {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	records := make([]model.SalesRecord, 0, len(lines))

	for i := 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if isSeparatorRun(line) {
			continue
		}

		parts := SplitQuotedCSVLine(line)
		if len(parts) < staticColumns {
			continue
		}

		source := strings.TrimSpace(parts[0])
		if source == "" || HasAnyPrefix(source, staticNoisePrefixes) || IsFooterLabel(source) {
			continue
		}

		rec := model.SalesRecord{
			Source:     source,
			Leads:      ParseAmount(CellFromString(parts[1])),
			Successful: ParseAmount(CellFromString(parts[2])),
			Efficiency: ParsePercentOrRatio(CellFromString(parts[3])),
			Revenue:    ParseAmount(CellFromString(parts[4])),
			AvgCheck:   ParseAmount(CellFromString(parts[5])),
		}
		if rec.IsNoise() {
			continue
		}
		records = append(records, rec)
	}

	SortByRevenue(records)
	return records
}

// SplitQuotedCSVLine 在“其后引号数量为偶数”的逗号处切分，引号内的逗号保留在字段中；
// 字段内容（含引号）原样返回
func SplitQuotedCSVLine(line string) []string {
	// quotesAfter[i] = line[i:] 中的引号数量
	quotesAfter := make([]int, len(line)+1)
	for i := len(line) - 1; i >= 0; i-- {
		quotesAfter[i] = quotesAfter[i+1]
		if line[i] == '"' {
			quotesAfter[i]++
		}
	}

	var parts []string
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ',' && quotesAfter[i+1]%2 == 0 {
			parts = append(parts, line[start:i])
			start = i + 1
		}
	}
	return append(parts, line[start:])
}

func isSeparatorRun(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.Trim(line, ",;") == ""
}
