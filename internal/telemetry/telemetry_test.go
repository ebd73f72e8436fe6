package telemetry

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupStdout(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	shutdown, err := Setup(ctx, Options{TraceStdout: true, Writer: &buf, Version: "test"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := Tracer("telemetry-test").Start(ctx, "unit")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), `"Name": "unit"`)
}
