package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"rentwatch-engine/internal/config"
	"rentwatch-engine/internal/events"
	"rentwatch-engine/internal/httpapi"
	"rentwatch-engine/internal/logging"
	"rentwatch-engine/internal/notify"
	"rentwatch-engine/internal/pipeline"
	"rentwatch-engine/internal/poll"
	"rentwatch-engine/internal/runlock"
	"rentwatch-engine/internal/scheduler"
	"rentwatch-engine/internal/scrape"
	"rentwatch-engine/internal/secrets"
	"rentwatch-engine/internal/store"
)

func main() {
	var (
		dataDirFlag = flag.String("data-dir", "", "engine data dir (default $RENTWATCH_DATA_DIR or .)")
		defaultCfg  = flag.String("default-config", filepath.Join("config", "config.yml"), "config copied into the data dir on first start")
		once        = flag.Bool("once", false, "run the pipeline once and exit")
		setToken    = flag.String("set-token", "", "store the telegram bot token in the OS keychain and exit")
	)
	flag.Parse()

	dataDir := *dataDirFlag
	if dataDir == "" {
		dataDir = os.Getenv(config.EnvDataDir)
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	if err := config.LoadEnvFile(filepath.Join(dataDir, ".env")); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, *defaultCfg)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.ApplyEnv(&cfg)
	cfg, vr := config.NormalizeAndValidate(cfg)

	logger := logging.New(logging.Options{Level: cfg.App.LogLevel, JSON: cfg.App.LogJSON})
	slog.SetDefault(logger)

	for _, w := range vr.Warnings {
		logger.Warn("config", "warning", w)
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			logger.Error("config", "error", e)
		}
		os.Exit(1)
	}

	if *setToken != "" {
		if err := secrets.SetTelegramToken(cfg.Telegram.KeyringAccount, *setToken); err != nil {
			logger.Error("store token", "error", err)
			os.Exit(1)
		}
		logger.Info("telegram token stored in keychain", "account", cfg.Telegram.KeyringAccount)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, dataDir, userCfgPath, *once, logger); err != nil {
		logger.Error("engine stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, dataDir, userCfgPath string, once bool, logger *slog.Logger) error {
	backend, err := store.OpenBackend(ctx, cfg.Store.Driver, dataPath(dataDir, cfg.Store.SQLitePath), cfg.Store.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()

	hub := events.NewHub()
	orch := &pipeline.Orchestrator{
		Source: scrape.NewAggregator(
			scrape.NewHTTPFetcher(cfg.Sources.UserAgent, time.Duration(cfg.Sources.TimeoutSeconds)*time.Second),
			cfg.Sources.Queries,
			logger,
		),
		Store:   store.NewNotifiedStore(backend),
		Sender:  newSender(cfg, logger),
		Compose: notify.Compose,
		Lock:    runlock.New(filepath.Join(dataDir, "run.lock")),
		Logger:  logger,
	}
	runner := poll.NewRunner(orch, hub, logger)

	if once {
		res, err := runner.RunOnce(ctx, "cli")
		if err != nil {
			return err
		}
		fmt.Println(res.Message())
		return nil
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	srv := &http.Server{
		Handler: httpapi.NewRouter(httpapi.Deps{
			Runner:           runner,
			Hub:              hub,
			Logger:           logger,
			CfgVal:           &cfgVal,
			UserCfgPath:      userCfgPath,
			RunRatePerMinute: cfg.HTTP.RunRatePerMinute,
			RunBurst:         cfg.HTTP.RunBurst,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("engine listening", "addr", "http://"+addr, "store", cfg.Store.Driver, "queries", len(cfg.Sources.Queries))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		interval := time.Duration(cfg.Polling.IntervalSeconds) * time.Second
		scheduler.Every(gctx, interval, "poll", runner.Task("timer"), logger)
		return nil
	})

	return g.Wait()
}

// newSender falls back to logging the message when telegram is not set up.
func newSender(cfg config.Config, logger *slog.Logger) pipeline.Sender {
	token, err := secrets.TelegramToken(cfg)
	if err != nil || cfg.Telegram.ChatID == "" {
		logger.Warn("telegram not configured, notifications will be logged only", "error", err)
		return notify.LogSender{Logger: logger}
	}
	return notify.NewTelegramSender(cfg.Telegram.APIBase, token, cfg.Telegram.ChatID)
}

func dataPath(dataDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}
