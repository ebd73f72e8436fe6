package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/i18n"
	"salesdash/internal/importer"
	"salesdash/internal/model"
)

func TestRunDefaultDataset(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(&out, "", model.LanguageEN, ""))

	text := out.String()
	assert.Contains(t, text, i18n.Labels(model.LanguageEN).AppTitle)
	assert.Contains(t, text, "Instagram")
	assert.Contains(t, text, "₸")
}

func TestRunFileAndExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "march.csv")
	require.NoError(t, os.WriteFile(in, []byte("Source,Leads,Revenue\nWeb,10,1000\n"), 0644))
	exportPath := filepath.Join(dir, "out.csv")

	var out bytes.Buffer
	require.NoError(t, run(&out, in, model.LanguageRU, exportPath))
	assert.Contains(t, out.String(), "Web")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Web,10,0,0,1000,0")
}

func TestRunNoRecords(t *testing.T) {
	t.Parallel()

	in := filepath.Join(t.TempDir(), "junk.csv")
	require.NoError(t, os.WriteFile(in, []byte("a,b\n1,2\n"), 0644))

	err := run(&bytes.Buffer{}, in, model.LanguageRU, "")
	assert.ErrorIs(t, err, importer.ErrNoRecords)
}
