package i18n

import "salesdash/internal/model"

// Translation 界面文案
type Translation struct {
	AppTitle           string `json:"appTitle"`
	Subtitle           string `json:"subtitle"`
	UploadData         string `json:"uploadData"`
	ResetData          string `json:"resetData"`
	UploadError        string `json:"uploadError"`
	LiveData           string `json:"liveData"`
	CustomData         string `json:"customData"`
	Settings           string `json:"settings"`
	TotalRevenue       string `json:"totalRevenue"`
	TotalLeads         string `json:"totalLeads"`
	SuccessfulDeals    string `json:"successfulDeals"`
	ConversionRate     string `json:"conversionRate"`
	AvgCheck           string `json:"avgCheck"`
	Currency           string `json:"currency"`
	RevenueBySource    string `json:"revenueBySource"`
	RevenueBySourceSub string `json:"revenueBySourceSub"`
	Distribution       string `json:"distribution"`
	MarketShare        string `json:"marketShare"`
	VolumeVsValue      string `json:"volumeVsValue"`
	VolumeVsValueSub   string `json:"volumeVsValueSub"`
	EfficiencyMatrix   string `json:"efficiencyMatrix"`
	SalesFunnel        string `json:"salesFunnel"`
	AvgCheckRanking    string `json:"avgCheckRanking"`
	QualityAnalysis    string `json:"qualityAnalysis"`
	QualityAnalysisSub string `json:"qualityAnalysisSub"`
	DetailedReport     string `json:"detailedReport"`
	ExportCsv          string `json:"exportCsv"`
	AIInsights         string `json:"aiInsights"`
	GenerateInsights   string `json:"generateInsights"`
	Generating         string `json:"generating"`
	GenerationFailed   string `json:"generationFailed"`
	NoData             string `json:"noData"`
	ProInsights        string `json:"proInsights"`
	ConnectCrm         string `json:"connectCrm"`
	ComingSoon         string `json:"comingSoon"`

	// 表格列
	ColSource     string `json:"colSource"`
	ColLeads      string `json:"colLeads"`
	ColSuccessful string `json:"colSuccessful"`
	ColEfficiency string `json:"colEfficiency"`
	ColRevenue    string `json:"colRevenue"`
	ColAvgCheck   string `json:"colAvgCheck"`
	ColTotal      string `json:"colTotal"`
}

var translations = map[model.Language]Translation{
	model.LanguageRU: {
		AppTitle:           "Аналитика продаж",
		Subtitle:           "Эффективность каналов",
		UploadData:         "Загрузить данные",
		ResetData:          "Сбросить",
		UploadError:        "Не удалось прочитать файл. Проверьте формат таблицы.",
		LiveData:           "Демо-данные",
		CustomData:         "Ваши данные",
		Settings:           "Настройки",
		TotalRevenue:       "Общая выручка",
		TotalLeads:         "Всего лидов",
		SuccessfulDeals:    "Успешные сделки",
		ConversionRate:     "Конверсия",
		AvgCheck:           "Средний чек",
		Currency:           "₸",
		RevenueBySource:    "Выручка по источникам",
		RevenueBySourceSub: "Сумма продаж по каналам",
		Distribution:       "Распределение",
		MarketShare:        "Доля выручки",
		VolumeVsValue:      "Объём и ценность",
		VolumeVsValueSub:   "Лиды против выручки",
		EfficiencyMatrix:   "Матрица эффективности",
		SalesFunnel:        "Воронка продаж",
		AvgCheckRanking:    "Рейтинг среднего чека",
		QualityAnalysis:    "Анализ качества лидов",
		QualityAnalysisSub: "Конверсия и средний чек",
		DetailedReport:     "Детальный отчёт",
		ExportCsv:          "Экспорт CSV",
		AIInsights:         "AI-аналитика",
		GenerateInsights:   "Сгенерировать анализ",
		Generating:         "Анализируем данные...",
		GenerationFailed:   "Не удалось получить анализ. Попробуйте позже.",
		NoData:             "Нет данных",
		ProInsights:        "Pro-аналитика",
		ConnectCrm:         "Подключите CRM для автоматического обновления данных.",
		ComingSoon:         "Скоро",
		ColSource:          "Источник",
		ColLeads:           "Лиды",
		ColSuccessful:      "Успешные",
		ColEfficiency:      "Эффективность %",
		ColRevenue:         "Сумма продаж",
		ColAvgCheck:        "Средний чек",
		ColTotal:           "Итого",
	},
	model.LanguageEN: {
		AppTitle:           "Sales Analytics",
		Subtitle:           "Channel performance",
		UploadData:         "Upload data",
		ResetData:          "Reset",
		UploadError:        "Could not read the file. Please check the table format.",
		LiveData:           "Demo data",
		CustomData:         "Your data",
		Settings:           "Settings",
		TotalRevenue:       "Total revenue",
		TotalLeads:         "Total leads",
		SuccessfulDeals:    "Successful deals",
		ConversionRate:     "Conversion",
		AvgCheck:           "Average check",
		Currency:           "₸",
		RevenueBySource:    "Revenue by source",
		RevenueBySourceSub: "Sales amount per channel",
		Distribution:       "Distribution",
		MarketShare:        "Revenue share",
		VolumeVsValue:      "Volume vs value",
		VolumeVsValueSub:   "Leads against revenue",
		EfficiencyMatrix:   "Efficiency matrix",
		SalesFunnel:        "Sales funnel",
		AvgCheckRanking:    "Average check ranking",
		QualityAnalysis:    "Lead quality analysis",
		QualityAnalysisSub: "Conversion and average check",
		DetailedReport:     "Detailed report",
		ExportCsv:          "Export CSV",
		AIInsights:         "AI insights",
		GenerateInsights:   "Generate analysis",
		Generating:         "Analyzing data...",
		GenerationFailed:   "Could not generate the analysis. Please try again later.",
		NoData:             "No data",
		ProInsights:        "Pro insights",
		ConnectCrm:         "Connect your CRM to refresh data automatically.",
		ComingSoon:         "Coming soon",
		ColSource:          "Source",
		ColLeads:           "Leads",
		ColSuccessful:      "Successful",
		ColEfficiency:      "Efficiency %",
		ColRevenue:         "Revenue",
		ColAvgCheck:        "Avg check",
		ColTotal:           "Total",
	},
}

// Labels 返回语言对应的文案，未知语言回退为 ru
func Labels(lang model.Language) Translation {
	if t, ok := translations[lang]; ok {
		return t
	}
	return translations[model.LanguageRU]
}
