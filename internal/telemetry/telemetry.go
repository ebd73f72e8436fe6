package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName 追踪中的服务名
const ServiceName = "salesdash"

// Options 追踪配置
type Options struct {
	TraceStdout bool
	Writer      io.Writer // 默认 os.Stdout
	Version     string
}

// ShutdownFunc 刷新并关闭追踪
type ShutdownFunc func(context.Context) error

// Setup 初始化全局 TracerProvider；未开启时保留 otel 默认的 noop 实现
func Setup(ctx context.Context, opts Options, logger *slog.Logger) (ShutdownFunc, error) {
	if !opts.TraceStdout {
		return func(context.Context) error { return nil }, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", opts.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.InfoContext(ctx, "tracing initialized", slog.String("exporter", "stdout"))
	return tp.Shutdown, nil
}

// Tracer 获取命名 tracer
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
