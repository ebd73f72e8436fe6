package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"salesdash/internal/parser"
)

// SupportedExtensions 可上传的文件类型
var SupportedExtensions = []string{".csv", ".xlsx", ".xls"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsSupported 按扩展名判断文件是否可导入
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// DecodeFile 将文件字节解码为单元格网格（只读第一个 Sheet）
func DecodeFile(filename string, data []byte) (parser.Grid, error) {
	var (
		grid parser.Grid
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		grid, err = decodeXLSX(data)
	case ".xls":
		grid, err = decodeXLS(data)
	case ".csv":
		grid, err = decodeCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if len(grid) == 0 {
		return nil, ErrEmptySheet
	}
	return grid, nil
}

// decodeXLSX 读取原始单元格值，不套用数字格式
func decodeXLSX(data []byte) (parser.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return parser.GridFromStrings(rows), nil
}

func decodeXLS(data []byte) (parser.Grid, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}

	if len(workbook.GetSheets()) == 0 {
		return nil, ErrNoSheets
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read xls sheet: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return parser.GridFromStrings(rows), nil
}

// decodeCSV 非 UTF-8 内容按 Windows-1251 解码，分隔符自动识别
func decodeCSV(data []byte) (parser.Grid, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cp1251: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return parser.GridFromStrings(rows), nil
}

// sniffDelimiter 取首个非空行中出现最多的分隔符，默认逗号
func sniffDelimiter(data []byte) rune {
	var line string
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best, bestCount := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
