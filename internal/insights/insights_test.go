package insights

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/metrics"
	"salesdash/internal/model"
)

type fakeNarrator struct {
	text  string
	err   error
	calls int
	lang  model.Language
}

func (f *fakeNarrator) Narrate(_ context.Context, _ []model.SalesRecord, lang model.Language) (string, error) {
	f.calls++
	f.lang = lang
	return f.text, f.err
}

var sample = []model.SalesRecord{
	{Source: "Instagram", Leads: 1240, Successful: 186, Efficiency: 15, Revenue: 27900000, AvgCheck: 150000},
	{Source: "Сайт", Leads: 300, Successful: 44, Efficiency: 14.5, Revenue: 500.25},
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDataLines(t *testing.T) {
	t.Parallel()

	got := DataLines(sample)
	want := "- Instagram: 27900000 KZT revenue, 1240 leads, 15% conv.\n" +
		"- Сайт: 500.25 KZT revenue, 300 leads, 14.5% conv."
	assert.Equal(t, want, got)
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	ru := BuildPrompt(sample, model.LanguageRU)
	assert.Contains(t, ru, "senior data analyst")
	assert.Contains(t, ru, "in Russian")
	assert.Contains(t, ru, "- Instagram: 27900000 KZT revenue")
	for _, point := range []string{"1. ", "2. ", "3. ", "4. "} {
		assert.Contains(t, ru, point)
	}

	en := BuildPrompt(sample, model.LanguageEN)
	assert.Contains(t, en, "in English")
	assert.False(t, strings.Contains(en, "in Russian"))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	n := &fakeNarrator{text: "## Analysis"}
	s := NewService(n, 0, metrics.New(), quietLogger())

	res, err := s.Generate(context.Background(), sample, model.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, "## Analysis", res.Text)
	assert.Equal(t, model.LanguageEN, n.lang)
	assert.NotEmpty(t, res.RequestID)
	assert.True(t, s.Enabled())
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	t.Run("no data", func(t *testing.T) {
		n := &fakeNarrator{text: "x"}
		_, err := NewService(n, 0, nil, quietLogger()).Generate(context.Background(), nil, model.LanguageRU)
		assert.ErrorIs(t, err, ErrNoData)
		assert.Zero(t, n.calls)
	})

	t.Run("disabled", func(t *testing.T) {
		s := NewService(nil, 0, nil, quietLogger())
		_, err := s.Generate(context.Background(), sample, model.LanguageRU)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.ErrorIs(t, err, ErrNarratorDisabled)
		assert.False(t, s.Enabled())
	})

	t.Run("narrator failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewService(&fakeNarrator{err: boom}, 0, nil, quietLogger()).Generate(context.Background(), sample, model.LanguageRU)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rate limited", func(t *testing.T) {
		n := &fakeNarrator{text: "ok"}
		s := NewService(n, 1, nil, quietLogger())

		_, err := s.Generate(context.Background(), sample, model.LanguageRU)
		require.NoError(t, err)

		_, err = s.Generate(context.Background(), sample, model.LanguageRU)
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.Equal(t, 1, n.calls)
	})
}

func TestNewGeminiNarratorDisabled(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiNarrator(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrNarratorDisabled)
}
