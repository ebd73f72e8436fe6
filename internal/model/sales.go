package model

// SalesRecord 销售渠道记录（统一口径）
type SalesRecord struct {
	Source     string  `json:"source"`     // 渠道名称
	Leads      float64 `json:"leads"`      // 线索数
	Successful float64 `json:"successful"` // 成交数
	Efficiency float64 `json:"efficiency"` // 转化率（百分比）
	Revenue    float64 `json:"revenue"`    // 销售额
	AvgCheck   float64 `json:"avgCheck"`   // 客单价
}

// IsNoise 四项核心指标全部为 0 的行视为噪声
func (r SalesRecord) IsNoise() bool {
	return r.Leads == 0 && r.Successful == 0 && r.Revenue == 0 && r.Efficiency == 0
}

// KPIMetrics 汇总指标
type KPIMetrics struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalLeads      float64 `json:"totalLeads"`
	TotalSuccessful float64 `json:"totalSuccessful"`
	AvgEfficiency   float64 `json:"avgEfficiency"`  // totalSuccessful/totalLeads*100
	AvgCheckGlobal  float64 `json:"avgCheckGlobal"` // totalRevenue/totalSuccessful
}
