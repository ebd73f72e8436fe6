package parser

import (
	"strings"

	"salesdash/internal/model"
)

// Field 统一口径字段
type Field int

const (
	FieldSource Field = iota
	FieldLeads
	FieldSuccessful
	FieldRevenue
	FieldEfficiency
	FieldAvgCheck

	fieldCount
)

var fieldNames = [fieldCount]string{"source", "leads", "successful", "revenue", "efficiency", "avgCheck"}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// NotFound 字段未在表头中找到
const NotFound = -1

// HeaderScanLimit 表头扫描窗口（行数）
const HeaderScanLimit = 20

// Synonym 表头同义词
type Synonym struct {
	Term string
	Lang model.Language
}

func ru(terms ...string) []Synonym { return tagged(model.LanguageRU, terms) }
func en(terms ...string) []Synonym { return tagged(model.LanguageEN, terms) }

func tagged(lang model.Language, terms []string) []Synonym {
	out := make([]Synonym, len(terms))
	for i, t := range terms {
		out[i] = Synonym{Term: NormalizeHeaderText(t), Lang: lang}
	}
	return out
}

func concat(groups ...[]Synonym) []Synonym {
	var out []Synonym
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Synonyms 字段 -> 按优先级排列的同义词（俄/英）
var Synonyms = map[Field][]Synonym{
	FieldSource: concat(
		ru("источник"), en("source", "channel"), ru("канал", "канал продаж"),
		en("name", "utm source"), ru("название", "наименование", "компания"), en("utm_source"),
	),
	FieldLeads: concat(
		ru("кол-во лидов", "количество лидов"), en("leads", "total leads"),
		ru("лиды", "заявки", "обращения", "клиенты", "посетители", "трафик", "клиентов"),
	),
	FieldSuccessful: concat(
		ru("кол-во успешных", "количество успешных"), en("successful", "deals"),
		ru("сделки", "успешные", "продажи (шт)", "количество продаж"), en("orders"),
		ru("продан", "сделок", "покупок", "заказы", "продажи"),
	),
	FieldRevenue: concat(
		ru("сумма продаж"), en("revenue", "sales"), ru("выручка", "продажи", "сумма", "оборот"),
		en("total revenue"), ru("деньги", "оплата", "бюджет", "итого"),
	),
	FieldEfficiency: concat(
		ru("эффективность %", "эффективность"), en("efficiency", "conversion"),
		ru("конверсия", "cr", "конверсия %"), en("conv.", "ctr"),
	),
	FieldAvgCheck: concat(
		ru("средний чек"), en("avg check", "aov", "average order value"), ru("ср. чек", "средний"),
	),
}

// resolveOrder 字段解析顺序；已被占用的列不会再分配给后续字段，
// 因此 "выручка" 与 "продажи" 同时存在时，前者归 revenue，后者归 successful
var resolveOrder = []Field{FieldSource, FieldLeads, FieldRevenue, FieldSuccessful, FieldEfficiency, FieldAvgCheck}

// ColumnMap 字段 -> 列索引（NotFound 表示缺失）
type ColumnMap [fieldCount]int

// NewColumnMap 所有字段均为 NotFound
func NewColumnMap() ColumnMap {
	var m ColumnMap
	for i := range m {
		m[i] = NotFound
	}
	return m
}

// Index 字段所在列
func (m ColumnMap) Index(f Field) int { return m[f] }

// Has 字段是否已找到
func (m ColumnMap) Has(f Field) bool { return m[f] != NotFound }

// AsMap 便于日志/接口输出
func (m ColumnMap) AsMap() map[string]int {
	out := make(map[string]int, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		out[f.String()] = m[f]
	}
	return out
}

// Header 表头识别结果
type Header struct {
	Row     int
	Columns ColumnMap
}

// matchMode 列匹配轮次
type matchMode int

const (
	matchExactUnique matchMode = iota // 单元格只精确命中当前字段
	matchExact                        // 单元格精确命中（可能同时命中其他字段）
	matchContains                     // 单元格比同义词更长且包含同义词
)

// MapColumns 将一行已规范化的表头文本映射为 ColumnMap
//
// 每一轮都按列顺序取第一个命中任一同义词的单元格。先做精确匹配（只属于本字段的表头优先），
// 再对未解决的字段做包含匹配，避免某字段的同义词以子串方式抢占另一字段的精确表头。
func MapColumns(cells []string) ColumnMap {
	m := NewColumnMap()
	claimed := make([]bool, len(cells))

	exactHits := make([]int, len(cells))
	for i, cell := range cells {
		for _, f := range resolveOrder {
			if matchesAny(cell, Synonyms[f], matchExact) {
				exactHits[i]++
			}
		}
	}

	for _, mode := range []matchMode{matchExactUnique, matchExact, matchContains} {
		for _, f := range resolveOrder {
			if m.Has(f) {
				continue
			}
			if idx := findColumn(cells, claimed, exactHits, Synonyms[f], mode); idx != NotFound {
				m[f] = idx
				claimed[idx] = true
			}
		}
	}
	return m
}

func findColumn(cells []string, claimed []bool, exactHits []int, synonyms []Synonym, mode matchMode) int {
	for i, cell := range cells {
		if claimed[i] || cell == "" {
			continue
		}
		if mode == matchExactUnique && exactHits[i] != 1 {
			continue
		}
		if matchesAny(cell, synonyms, mode) {
			return i
		}
	}
	return NotFound
}

func matchesAny(cell string, synonyms []Synonym, mode matchMode) bool {
	for _, syn := range synonyms {
		if mode == matchContains {
			if len(cell) > len(syn.Term) && strings.Contains(cell, syn.Term) {
				return true
			}
			continue
		}
		if cell == syn.Term {
			return true
		}
	}
	return false
}

// isHeader 表头必须包含 source，且至少包含 leads / revenue / successful 之一
func isHeader(m ColumnMap) bool {
	return m.Has(FieldSource) && (m.Has(FieldLeads) || m.Has(FieldRevenue) || m.Has(FieldSuccessful))
}

// DetectHeader 在前 HeaderScanLimit 行中寻找第一行表头
func DetectHeader(rows Grid) (Header, bool) {
	limit := min(len(rows), HeaderScanLimit)
	for i := 0; i < limit; i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		text := make([]string, len(row))
		for j, c := range row {
			text[j] = NormalizeHeaderText(c.String())
		}

		if m := MapColumns(text); isHeader(m) {
			return Header{Row: i, Columns: m}, true
		}
	}
	return Header{Row: NotFound, Columns: NewColumnMap()}, false
}

// PrepareRows 过滤空行，并在整表被解析为“一行一个字符串”时按 ; 或 \t 重新拆分
func PrepareRows(grid Grid) Grid {
	rows := validRows(grid)
	if len(rows) == 0 {
		return nil
	}

	first := rows[0]
	if len(first) != 1 || first[0].Kind != CellText {
		return rows
	}

	var delimiter string
	switch {
	case strings.Contains(first[0].Text, ";"):
		delimiter = ";"
	case strings.Contains(first[0].Text, "\t"):
		delimiter = "\t"
	default:
		return rows
	}

	split := make(Grid, 0, len(rows))
	for _, r := range rows {
		if len(r) == 1 && r[0].Kind == CellText {
			parts := strings.Split(r[0].Text, delimiter)
			r = make(Row, len(parts))
			for i, p := range parts {
				r[i] = CellFromString(strings.TrimSpace(trimQuotePair(p)))
			}
		}
		split = append(split, r)
	}
	return validRows(split)
}

// trimQuotePair 去掉开头和结尾各一个双引号
func trimQuotePair(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

func validRows(grid Grid) Grid {
	out := make(Grid, 0, len(grid))
	for _, r := range grid {
		if len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}
