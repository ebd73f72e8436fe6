package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"salesdash/internal/i18n"
	"salesdash/internal/model"
)

// Format 导出格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat 解析导出格式，默认 csv
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// ContentType 响应头
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename 导出文件名，如 sales_report_20261018.csv
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("sales_report_%s.%s", now.Format("20060102"), f)
}

// Export 按格式写出报表
func Export(w io.Writer, f Format, records []model.SalesRecord, kpis model.KPIMetrics, lang model.Language) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, records, kpis, lang)
	case FormatXLSX:
		file, err := BuildXLSX(records, kpis, lang)
		if err != nil {
			return err
		}
		defer file.Close()
		if _, err := file.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write xlsx: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported export format: %q", f)
}

// header 表头（按界面语言）
func header(lang model.Language) []string {
	t := i18n.Labels(lang)
	return []string{t.ColSource, t.ColLeads, t.ColSuccessful, t.ColEfficiency, t.ColRevenue, t.ColAvgCheck}
}

func recordValues(r model.SalesRecord) []float64 {
	return []float64{r.Leads, r.Successful, r.Efficiency, r.Revenue, r.AvgCheck}
}

func totalValues(k model.KPIMetrics) []float64 {
	return []float64{k.TotalLeads, k.TotalSuccessful, k.AvgEfficiency, k.TotalRevenue, k.AvgCheckGlobal}
}

// WriteCSV UTF-8 BOM + 逗号分隔，末行为合计
func WriteCSV(w io.Writer, records []model.SalesRecord, kpis model.KPIMetrics, lang model.Language) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header(lang)); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(csvRow(r.Source, recordValues(r))); err != nil {
			return err
		}
	}
	if err := cw.Write(csvRow(i18n.Labels(lang).ColTotal, totalValues(kpis))); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(label string, values []float64) []string {
	row := make([]string, 0, len(values)+1)
	row = append(row, label)
	for _, v := range values {
		row = append(row, formatValue(v))
	}
	return row
}

// formatValue 保留两位小数，去掉多余的 0
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// BuildXLSX 单 Sheet 报表，末行为合计（加粗）
func BuildXLSX(records []model.SalesRecord, kpis model.KPIMetrics, lang model.Language) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Report"
	if lang == model.LanguageRU {
		sheet = "Отчёт"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := fillSheet(f, sheet, records, kpis, lang); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillSheet(f *excelize.File, sheet string, records []model.SalesRecord, kpis model.KPIMetrics, lang model.Language) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	numeric, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 3})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	cols := header(lang)
	headerRow := make([]interface{}, len(cols))
	for i, c := range cols {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	writeRow := func(rowNo int, label string, values []float64) error {
		row := make([]interface{}, 0, len(values)+1)
		row = append(row, label)
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			row = append(row, math.Round(v*100)/100)
		}
		return f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNo), &row)
	}

	for i, r := range records {
		if err := writeRow(i+2, r.Source, recordValues(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	totalRow := len(records) + 2
	if err := writeRow(totalRow, i18n.Labels(lang).ColTotal, totalValues(kpis)); err != nil {
		return fmt.Errorf("failed to write totals row: %w", err)
	}

	if len(records) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("%s%d", lastCol, totalRow-1), numeric); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("%s%d", lastCol, totalRow), totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", lastCol, 16)
}
