package importer

import "errors"

// 导入错误；HTTP 层统一映射为本地化的 uploadError
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoSheets          = errors.New("workbook has no sheets")
	ErrEmptySheet        = errors.New("sheet is empty")
	ErrNoRecords         = errors.New("no sales records recognized")
)
