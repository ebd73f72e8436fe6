package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/i18n"
	"salesdash/internal/importer"
	"salesdash/internal/insights"
	"salesdash/internal/metrics"
	"salesdash/internal/model"
	"salesdash/internal/parser"
	"salesdash/internal/state"
	"salesdash/internal/store"
)

type stubNarrator struct{ text string }

func (s stubNarrator) Narrate(context.Context, []model.SalesRecord, model.Language) (string, error) {
	return s.text, nil
}

type testEnv struct {
	router *gin.Engine
	state  *state.Store
	store  *store.Store
}

func newTestEnv(t *testing.T, narrator insights.Narrator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := state.NewStore(model.LanguageRU, time.Hour, parser.DefaultRecords)
	t.Cleanup(st.Close)

	db, err := store.New(filepath.Join(t.TempDir(), "salesdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := metrics.New()
	h := NewHandler(Deps{
		State:          st,
		Importer:       importer.NewCoordinator(db, st, m, logger),
		Insights:       insights.NewService(narrator, 0, m, logger),
		Store:          db,
		MaxUploadBytes: 1 << 20,
		Version:        "test",
		Logger:         logger,
	})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return &testEnv{router: r, state: st, store: db}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// sseEvents 解析 SSE 响应体
func sseEvents(t *testing.T, body string) []importer.ProgressEvent {
	t.Helper()
	var events []importer.ProgressEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var evt importer.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &evt))
		events = append(events, evt)
	}
	return events
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Records      []model.SalesRecord `json:"records"`
		KPIs         model.KPIMetrics    `json:"kpis"`
		IsCustomData bool                `json:"isCustomData"`
		Language     string              `json:"language"`
		Indicators   []map[string]any    `json:"indicators"`
		Labels       i18n.Translation    `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Records, 12)
	assert.Equal(t, 139550000.0, body.KPIs.TotalRevenue)
	assert.False(t, body.IsCustomData)
	assert.Equal(t, "ru", body.Language)
	assert.Len(t, body.Indicators, 5)
	assert.Equal(t, i18n.Labels(model.LanguageRU).AppTitle, body.Labels.AppTitle)
}

func TestImportSSE(t *testing.T) {
	env := newTestEnv(t, nil)

	csvData := []byte("Источник;Лиды;Продажи;Выручка\nInstagram;100;10;5000\nСайт;50;5;9000\n")
	body, ct := multipartBody(t, "march.csv", csvData)

	rec := env.do(t, http.MethodPost, "/api/import", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := sseEvents(t, rec.Body.String())
	require.NotEmpty(t, events)
	assert.Equal(t, importer.EventStart, events[0].Type)
	assert.Equal(t, importer.EventDone, events[len(events)-1].Type)

	snap := env.state.Snapshot()
	assert.True(t, snap.IsCustomData)
	assert.Len(t, snap.Records, 2)

	logs, err := env.store.ListImportLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ImportSucceeded, logs[0].Status)
	assert.Equal(t, "march.csv", logs[0].Filename)
}

func TestImportSSEFailure(t *testing.T) {
	env := newTestEnv(t, nil)

	body, ct := multipartBody(t, "notes.txt", []byte("hello"))
	rec := env.do(t, http.MethodPost, "/api/import", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)

	events := sseEvents(t, rec.Body.String())
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, importer.EventError, last.Type)
	assert.Equal(t, i18n.Labels(model.LanguageRU).UploadError, last.Message)

	snap := env.state.Snapshot()
	assert.False(t, snap.IsCustomData)
	assert.Len(t, snap.Records, 12, "previous records untouched")
	assert.NotEmpty(t, snap.Error)
}

func TestImportMissingFile(t *testing.T) {
	env := newTestEnv(t, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "x"))
	require.NoError(t, w.Close())

	rec := env.do(t, http.MethodPost, "/api/import", &buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportTooLarge(t *testing.T) {
	env := newTestEnv(t, nil)

	body, ct := multipartBody(t, "big.csv", bytes.Repeat([]byte("a"), 1<<20+10))
	rec := env.do(t, http.MethodPost, "/api/import", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.NotEmpty(t, env.state.Snapshot().Error)
}

func TestImportGrid(t *testing.T) {
	env := newTestEnv(t, nil)

	payload := `{"rows": [
		["Отчёт", null],
		["Source", "Leads", "Successful", "Revenue", "Efficiency"],
		["Web", 100, 10, "1 500 000", "12%"],
		["Total", 100, 10, 1500000, null]
	]}`
	rec := env.do(t, http.MethodPost, "/api/import/grid", strings.NewReader(payload), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[importer.Report](t, rec)
	assert.Equal(t, 1, report.RecordCount)
	assert.Equal(t, 1, report.HeaderRow)
	require.NotNil(t, report.Snapshot)
	require.Len(t, report.Snapshot.Records, 1)
	assert.Equal(t, 1500000.0, report.Snapshot.Records[0].Revenue)
	assert.Equal(t, 12.0, report.Snapshot.Records[0].Efficiency)
}

func TestImportGridNoHeader(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/import/grid", strings.NewReader(`{"rows": [["a","b"],[1,2]]}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, i18n.Labels(model.LanguageRU).UploadError, body["error"])
	assert.Len(t, env.state.Snapshot().Records, 12)
}

func TestResetAndLanguage(t *testing.T) {
	env := newTestEnv(t, nil)
	env.state.Load([]model.SalesRecord{{Source: "Web", Leads: 1}})

	rec := env.do(t, http.MethodPost, "/api/reset", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.state.Snapshot().IsCustomData)

	rec = env.do(t, http.MethodPatch, "/api/language", strings.NewReader(`{"language":"en"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.LanguageEN, env.state.Snapshot().Language)
	assert.Equal(t, model.LanguageEN, env.store.GetLanguage(model.LanguageRU), "language persisted")

	rec = env.do(t, http.MethodPatch, "/api/language", strings.NewReader(`{"language":"de"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/language/toggle", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.LanguageRU, env.state.Snapshot().Language)
}

func TestGenerateInsights(t *testing.T) {
	env := newTestEnv(t, stubNarrator{text: "## Top channel: Instagram"})

	rec := env.do(t, http.MethodPost, "/api/insights", strings.NewReader(`{"language":"en"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[insights.Result](t, rec)
	assert.Equal(t, "## Top channel: Instagram", res.Text)
	assert.Equal(t, model.LanguageEN, res.Language)
}

func TestGenerateInsightsErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/insights", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, i18n.Labels(model.LanguageRU).GenerationFailed, body["error"])

	env = newTestEnv(t, stubNarrator{text: "x"})
	env.state.Load(nil)
	rec = env.do(t, http.MethodPost, "/api/insights", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, rec.Body.String(), "Instagram")

	rec = env.do(t, http.MethodGet, "/api/export?format=xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	rec = env.do(t, http.MethodGet, "/api/export?format=pdf", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusAndImports(t *testing.T) {
	env := newTestEnv(t, stubNarrator{text: "x"})

	rec := env.do(t, http.MethodGet, "/api/status", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[StatusResponse](t, rec)
	assert.Equal(t, "ok", status.Database)
	assert.True(t, status.InsightsEnabled)
	assert.Equal(t, 12, status.RecordCount)
	assert.Nil(t, status.LastImportTime)

	env.do(t, http.MethodPost, "/api/import/grid", strings.NewReader(`{"rows": [["Source","Leads"],["Web",5]]}`), "application/json")

	rec = env.do(t, http.MethodGet, "/api/imports?limit=5", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Imports []model.ImportLog `json:"imports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Imports, 1)
	assert.Equal(t, "grid", list.Imports[0].Filename)

	rec = env.do(t, http.MethodGet, "/api/imports?limit=0", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/imports?limit=9999", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/status", nil, "")
	status = decode[StatusResponse](t, rec)
	assert.NotNil(t, status.LastImportTime)
}
