package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"salesdash/internal/api"
	"salesdash/internal/config"
	"salesdash/internal/importer"
	"salesdash/internal/insights"
	"salesdash/internal/metrics"
	"salesdash/internal/parser"
	"salesdash/internal/server"
	"salesdash/internal/state"
	"salesdash/internal/store"
	"salesdash/internal/telemetry"
	"salesdash/internal/util"
)

var version = "dev"

var (
	configPath  = flag.String("config", "", "配置文件路径 (默认: 可执行文件同目录的 config.toml)")
	port        = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode     = flag.Bool("dev", false, "开发模式")
	dataDir     = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	openBrowser = flag.Bool("open", false, "启动后打开浏览器")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		slog.Error("salesdash exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, info, err := loadConfig()
	if err != nil {
		slog.Warn("failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger := newLogger(cfg.Server.DevMode)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		TraceStdout: cfg.Telemetry.TraceStdout,
		Version:     version,
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	logger.Info("data directory ready", slog.String("path", dir))

	db, err := store.New(filepath.Join(dir, "salesdash.db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	m := metrics.New()
	dashboard := state.NewStore(db.GetLanguage(cfg.Language()), cfg.ErrorTTL(), parser.DefaultRecords)
	defer dashboard.Close()

	narrator, err := insights.NewGeminiNarrator(ctx, cfg.Insights.APIKey, cfg.Insights.Model)
	if err != nil {
		logger.Warn("insights disabled", slog.String("reason", err.Error()))
	}
	var n insights.Narrator
	if narrator != nil {
		n = narrator
	}

	handler := api.NewHandler(api.Deps{
		State:          dashboard,
		Importer:       importer.NewCoordinator(db, dashboard, m, logger),
		Insights:       insights.NewService(n, cfg.Insights.PerMinute, m, logger),
		Store:          db,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Version:        version,
		Logger:         logger,
	})
	srv := server.NewServer(cfg, handler, m.Handler(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	url := fmt.Sprintf("http://localhost:%d/api/dashboard", cfg.Server.Port)
	logger.Info("salesdash started", slog.String("version", version), slog.String("url", url))
	if *openBrowser {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warn("failed to open browser", slog.String("url", url), slog.String("error", err.Error()))
		}
	}

	err = g.Wait()
	logger.Info("salesdash stopped")
	return err
}

func loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	if *configPath != "" {
		return config.LoadFrom(*configPath)
	}
	return config.LoadConfigWithInfo()
}

// newLogger release 模式输出 JSON，dev 模式输出文本
func newLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
