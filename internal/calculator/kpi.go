package calculator

import (
	"salesdash/internal/i18n"
	"salesdash/internal/model"
)

// Indicator 指标卡片
type Indicator struct {
	ID    string  `json:"id"`    // 指标ID
	Name  string  `json:"name"`  // 指标名称（已本地化）
	Value float64 `json:"value"` // 指标值
	Unit  string  `json:"unit"`  // 单位 (₸ / %)
}

// CalculateKPIs 计算汇总指标；空记录集返回全 0，除数为 0 时比率取 0
func CalculateKPIs(records []model.SalesRecord) model.KPIMetrics {
	var k model.KPIMetrics
	for _, r := range records {
		k.TotalRevenue += r.Revenue
		k.TotalLeads += r.Leads
		k.TotalSuccessful += r.Successful
	}

	if k.TotalLeads > 0 {
		k.AvgEfficiency = k.TotalSuccessful / k.TotalLeads * 100
	}
	if k.TotalSuccessful > 0 {
		k.AvgCheckGlobal = k.TotalRevenue / k.TotalSuccessful
	}
	return k
}

// Indicators 按看板顺序生成 5 张指标卡片
func Indicators(k model.KPIMetrics, lang model.Language) []Indicator {
	t := i18n.Labels(lang)
	return []Indicator{
		{ID: "totalRevenue", Name: t.TotalRevenue, Value: k.TotalRevenue, Unit: t.Currency},
		{ID: "totalLeads", Name: t.TotalLeads, Value: k.TotalLeads},
		{ID: "totalSuccessful", Name: t.SuccessfulDeals, Value: k.TotalSuccessful},
		{ID: "avgEfficiency", Name: t.ConversionRate, Value: k.AvgEfficiency, Unit: "%"},
		{ID: "avgCheckGlobal", Name: t.AvgCheck, Value: k.AvgCheckGlobal, Unit: t.Currency},
	}
}
