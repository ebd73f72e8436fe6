package parser

import (
	"cmp"
	"slices"
	"strings"

	"salesdash/internal/model"
)

// UploadResult 上传表格的解析结果
type UploadResult struct {
	Header      Header              `json:"-"`
	HeaderRow   int                 `json:"headerRow"`
	Columns     map[string]int      `json:"columns"`
	Records     []model.SalesRecord `json:"records"`
	DataRows    int                 `json:"dataRows"`    // 表头之后的行数
	SkippedRows int                 `json:"skippedRows"` // 被过滤的行数
}

// ParseUpload 将上传的二维表转换为统一口径记录
// 找不到表头时返回 false；找到表头但没有有效行时返回空记录集
func ParseUpload(grid Grid) (UploadResult, bool) {
	rows := PrepareRows(grid)
	if len(rows) == 0 {
		return UploadResult{HeaderRow: NotFound}, false
	}

	header, ok := DetectHeader(rows)
	if !ok {
		return UploadResult{HeaderRow: NotFound}, false
	}

	res := UploadResult{
		Header:    header,
		HeaderRow: header.Row,
		Columns:   header.Columns.AsMap(),
		Records:   []model.SalesRecord{},
	}

	for _, row := range rows[header.Row+1:] {
		res.DataRows++
		rec, ok := extractRecord(row, header.Columns)
		if !ok {
			res.SkippedRows++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	SortByRevenue(res.Records)
	return res, true
}

// NormalizeUpload 仅返回记录；任何异常输入都只会得到更少或零条记录
func NormalizeUpload(grid Grid) []model.SalesRecord {
	res, ok := ParseUpload(grid)
	if !ok {
		return []model.SalesRecord{}
	}
	return res.Records
}

func extractRecord(row Row, cols ColumnMap) (model.SalesRecord, bool) {
	if len(row) == 0 {
		return model.SalesRecord{}, false
	}

	get := func(f Field) Cell {
		idx := cols.Index(f)
		if idx == NotFound || idx >= len(row) {
			return EmptyCell()
		}
		return row[idx]
	}

	srcIdx := cols.Index(FieldSource)
	if srcIdx == NotFound || srcIdx >= len(row) {
		return model.SalesRecord{}, false
	}
	source := strings.TrimSpace(row[srcIdx].String())
	if source == "" || IsFooterLabel(source) {
		return model.SalesRecord{}, false
	}

	rec := model.SalesRecord{
		Source:     source,
		Leads:      ParseAmount(get(FieldLeads)),
		Successful: ParseAmount(get(FieldSuccessful)),
		Revenue:    ParseAmount(get(FieldRevenue)),
		Efficiency: ParsePercentOrRatio(get(FieldEfficiency)),
		AvgCheck:   ParseAmount(get(FieldAvgCheck)),
	}

	if rec.Efficiency == 0 && rec.Leads > 0 {
		rec.Efficiency = rec.Successful / rec.Leads * 100
	}
	if rec.AvgCheck == 0 && rec.Successful > 0 {
		rec.AvgCheck = rec.Revenue / rec.Successful
	}

	if rec.IsNoise() {
		return model.SalesRecord{}, false
	}
	return rec, true
}

// SortByRevenue 按销售额降序（稳定排序）
func SortByRevenue(records []model.SalesRecord) {
	slices.SortStableFunc(records, func(a, b model.SalesRecord) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
}
