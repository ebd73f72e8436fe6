package model

import "time"

// ImportStatus 导入状态
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportSucceeded  ImportStatus = "succeeded"
	ImportFailed     ImportStatus = "failed"
)

// ImportLog 导入日志（仅元数据，不保存记录本身）
type ImportLog struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	FileSize    int64        `json:"fileSize"`
	FileHash    string       `json:"fileHash"`
	Status      ImportStatus `json:"status"`
	HeaderRow   int          `json:"headerRow"`
	RecordCount int          `json:"recordCount"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}
