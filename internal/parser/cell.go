package parser

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// CellKind 单元格类型
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell 表格单元格（空 / 数值 / 文本）
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// Row 一行单元格
type Row []Cell

// Grid 二维单元格表
type Grid []Row

// EmptyCell 空单元格
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// NumberCell 数值单元格
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

// TextCell 文本单元格
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// CellFromString 解码器产出的字符串单元格，空串视为空单元格
func CellFromString(s string) Cell {
	if s == "" {
		return EmptyCell()
	}
	return TextCell(s)
}

// TextRow 由字符串构造一行
func TextRow(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = CellFromString(v)
	}
	return row
}

// GridFromStrings 将 [][]string 转为 Grid
func GridFromStrings(rows [][]string) Grid {
	grid := make(Grid, len(rows))
	for i, r := range rows {
		grid[i] = TextRow(r...)
	}
	return grid
}

// IsEmpty 是否为空单元格
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String 单元格的文本形式
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return ""
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// UnmarshalJSON 支持 null / number / string / bool
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = EmptyCell()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CellFromString(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = TextCell(strconv.FormatBool(b))
	case '[', '{':
		*c = TextCell(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*c = NumberCell(f)
	}
	return nil
}

// MarshalJSON 空单元格输出 null
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.Num)
	case CellText:
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}
