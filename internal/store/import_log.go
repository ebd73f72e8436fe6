package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"salesdash/internal/model"
)

// DefaultImportLogLimit 列表默认条数
const DefaultImportLogLimit = 50

// CreateImportLog 创建导入日志（状态为 processing）
func (s *Store) CreateImportLog(ctx context.Context, log model.ImportLog) error {
	if log.Status == "" {
		log.Status = model.ImportProcessing
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (id, filename, file_size, file_hash, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, log.ID, log.Filename, log.FileSize, log.FileHash, string(log.Status), log.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	return nil
}

// CompleteImportLog 完成导入日志更新
func (s *Store) CompleteImportLog(ctx context.Context, id string, status model.ImportStatus, headerRow, recordCount int, errorMessage string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			status = ?,
			header_row = ?,
			record_count = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, string(status), headerRow, recordCount, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("import log not found: %s", id)
	}
	return nil
}

// ListImportLogs 按时间倒序列出导入日志
func (s *Store) ListImportLogs(ctx context.Context, limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = DefaultImportLogLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, file_size, file_hash, status, header_row, record_count, error_message, created_at, completed_at
		FROM import_logs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	logs := []model.ImportLog{}
	for rows.Next() {
		var (
			log       model.ImportLog
			status    string
			completed sql.NullTime
		)
		if err := rows.Scan(&log.ID, &log.Filename, &log.FileSize, &log.FileHash, &status,
			&log.HeaderRow, &log.RecordCount, &log.Error, &log.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		log.Status = model.ImportStatus(status)
		if completed.Valid {
			t := completed.Time
			log.CompletedAt = &t
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
