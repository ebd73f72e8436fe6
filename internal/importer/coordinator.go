package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salesdash/internal/i18n"
	"salesdash/internal/metrics"
	"salesdash/internal/model"
	"salesdash/internal/parser"
	"salesdash/internal/state"
	"salesdash/internal/telemetry"
)

// 进度事件类型
const (
	EventStart = "start"
	EventInfo  = "info"
	EventDone  = "done"
	EventError = "error"
)

// LogStore 导入日志存储
type LogStore interface {
	CreateImportLog(ctx context.Context, log model.ImportLog) error
	CompleteImportLog(ctx context.Context, id string, status model.ImportStatus, headerRow, recordCount int, errorMessage string) error
}

// Coordinator 导入协调器：解码 -> 标准化 -> 替换看板状态
type Coordinator struct {
	logs    LogStore
	state   *state.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewCoordinator 创建导入协调器；logs 与 m 可以为 nil
func NewCoordinator(logs LogStore, st *state.Store, m *metrics.Metrics, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		logs:    logs,
		state:   st,
		metrics: m,
		logger:  logger,
		tracer:  telemetry.Tracer("salesdash/importer"),
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	Filename string
	Data     []byte
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Report 导入结果
type Report struct {
	ImportID    string          `json:"importId"`
	Filename    string          `json:"filename"`
	HeaderRow   int             `json:"headerRow"`
	Columns     map[string]int  `json:"columns,omitempty"`
	DataRows    int             `json:"dataRows"`
	SkippedRows int             `json:"skippedRows"`
	RecordCount int             `json:"recordCount"`
	DurationMs  int64           `json:"durationMs"`
	Snapshot    *state.Snapshot `json:"snapshot"`
}

// Import 执行文件导入，返回进度通道
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	// 客户端断开不影响导入完成与日志落库
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(progressChan)
		emit := func(evt ProgressEvent) { sendProgress(progressChan, evt) }

		id := uuid.NewString()
		sum := sha256.Sum256(opts.Data)
		c.createLog(ctx, model.ImportLog{
			ID:       id,
			Filename: opts.Filename,
			FileSize: int64(len(opts.Data)),
			FileHash: hex.EncodeToString(sum[:]),
		})

		_, _ = c.run(ctx, id, opts.Filename, func() (parser.Grid, error) {
			return DecodeFile(opts.Filename, opts.Data)
		}, emit)
	}()

	return progressChan
}

// ImportGrid 导入已解码的网格（浏览器端解码后直接提交）
func (c *Coordinator) ImportGrid(ctx context.Context, name string, grid parser.Grid) (*Report, error) {
	if name == "" {
		name = "grid"
	}

	id := uuid.NewString()
	c.createLog(ctx, model.ImportLog{ID: id, Filename: name})

	return c.run(ctx, id, name, func() (parser.Grid, error) {
		if len(grid) == 0 {
			return nil, ErrEmptySheet
		}
		return grid, nil
	}, func(ProgressEvent) {})
}

// run 导入主流程；失败时保留原有记录并设置错误提示
func (c *Coordinator) run(ctx context.Context, id, filename string, decode func() (parser.Grid, error), emit func(ProgressEvent)) (*Report, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "importer.Import", trace.WithAttributes(
		attribute.String("import.id", id),
		attribute.String("import.filename", filename),
	))
	defer span.End()

	report := &Report{ImportID: id, Filename: filename, HeaderRow: parser.NotFound}
	logger := c.logger.With(slog.String("import_id", id), slog.String("filename", filename))

	emit(ProgressEvent{
		Type:    EventStart,
		Message: "import started",
		Data: map[string]string{
			"importId": id,
			"filename": filename,
		},
		Timestamp: time.Now(),
	})

	records, err := c.ingest(ctx, report, decode, emit, logger)
	report.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.fail(ctx, report, err, time.Since(start), logger)
		emit(ProgressEvent{
			Type:    EventError,
			Message: report.Snapshot.Error,
			Data: map[string]string{
				"importId": id,
				"reason":   err.Error(),
			},
			Timestamp: time.Now(),
		})
		return report, err
	}

	report.Snapshot = c.state.Load(records)
	report.RecordCount = len(records)
	span.SetAttributes(attribute.Int("import.records", len(records)))

	c.completeLog(ctx, id, model.ImportSucceeded, report.HeaderRow, len(records), "")
	c.metrics.ObserveImport(metrics.ResultSuccess, len(records), time.Since(start))
	logger.Info("import succeeded",
		slog.Int("records", len(records)),
		slog.Int("skipped_rows", report.SkippedRows),
		slog.Int64("duration_ms", report.DurationMs))

	emit(ProgressEvent{
		Type:      EventDone,
		Message:   "import finished",
		Data:      report,
		Timestamp: time.Now(),
	})
	return report, nil
}

func (c *Coordinator) ingest(ctx context.Context, report *Report, decode func() (parser.Grid, error), emit func(ProgressEvent), logger *slog.Logger) ([]model.SalesRecord, error) {
	_, span := c.tracer.Start(ctx, "importer.decode")
	grid, err := decode()
	span.End()
	if err != nil {
		return nil, err
	}

	emit(ProgressEvent{
		Type:      EventInfo,
		Message:   fmt.Sprintf("decoded %d rows", len(grid)),
		Data:      map[string]int{"rows": len(grid)},
		Timestamp: time.Now(),
	})

	_, span = c.tracer.Start(ctx, "importer.normalize")
	res, ok := parser.ParseUpload(grid)
	span.End()
	if !ok {
		return nil, fmt.Errorf("%w: header not found in first %d rows", ErrNoRecords, parser.HeaderScanLimit)
	}

	report.HeaderRow = res.HeaderRow
	report.Columns = res.Columns
	report.DataRows = res.DataRows
	report.SkippedRows = res.SkippedRows

	logger.Debug("header detected",
		slog.Int("header_row", res.HeaderRow),
		slog.Any("columns", res.Columns))

	emit(ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("header found at row %d", res.HeaderRow),
		Data: map[string]interface{}{
			"headerRow": res.HeaderRow,
			"columns":   res.Columns,
		},
		Timestamp: time.Now(),
	})

	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%w: %d data rows, all skipped", ErrNoRecords, res.DataRows)
	}
	return res.Records, nil
}

func (c *Coordinator) fail(ctx context.Context, report *Report, err error, elapsed time.Duration, logger *slog.Logger) {
	lang := c.state.Snapshot().Language
	report.Snapshot = c.state.Fail(i18n.Labels(lang).UploadError)

	result := metrics.ResultError
	if errors.Is(err, ErrNoRecords) {
		result = metrics.ResultEmpty
	}
	c.metrics.ObserveImport(result, 0, elapsed)
	c.completeLog(ctx, report.ImportID, model.ImportFailed, report.HeaderRow, 0, err.Error())

	logger.Warn("import failed", slog.String("error", err.Error()))
}

func (c *Coordinator) createLog(ctx context.Context, log model.ImportLog) {
	if c.logs == nil {
		return
	}
	if err := c.logs.CreateImportLog(ctx, log); err != nil {
		c.logger.Error("failed to create import log", slog.String("import_id", log.ID), slog.String("error", err.Error()))
	}
}

func (c *Coordinator) completeLog(ctx context.Context, id string, status model.ImportStatus, headerRow, records int, message string) {
	if c.logs == nil {
		return
	}
	if err := c.logs.CompleteImportLog(ctx, id, status, headerRow, records, message); err != nil {
		c.logger.Error("failed to update import log", slog.String("import_id", id), slog.String("error", err.Error()))
	}
}

// sendProgress 发送进度事件
func sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
