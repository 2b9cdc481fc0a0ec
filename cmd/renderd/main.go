// Command renderd is the media composition render service. It accepts
// declarative timeline jobs over HTTP, drives ffmpeg to render them, and
// delivers the result through the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmahabir1973/artivio-render/internal/check"
	"github.com/rmahabir1973/artivio-render/internal/config"
	"github.com/rmahabir1973/artivio-render/internal/delivery"
	"github.com/rmahabir1973/artivio-render/internal/ffmpeg"
	"github.com/rmahabir1973/artivio-render/internal/filtergraph"
	"github.com/rmahabir1973/artivio-render/internal/job"
	"github.com/rmahabir1973/artivio-render/internal/logging"
	"github.com/rmahabir1973/artivio-render/internal/media"
	"github.com/rmahabir1973/artivio-render/internal/pipeline"
	"github.com/rmahabir1973/artivio-render/internal/probe"
	"github.com/rmahabir1973/artivio-render/internal/server"
)

// version and commit are injected at build time via -ldflags. When built
// with plain "go build" they retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	configPath := flag.String("config", "renderd.yaml", "path to YAML config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if err := config.LoadFile(&cfg, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "renderd: %v\n", err)
		return 1
	}
	config.ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "renderd: %v\n", err)
		return 1
	}

	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	// Phase 2: Fail fast if the media binaries are unavailable.
	if err := check.CheckDeps(cfg.FFmpegBin, cfg.FFprobeBin); err != nil {
		log.Error().Err(err).Msg("dependency check failed")
		return 1
	}
	log.Info().
		Str("version", version).Str("commit", commit).
		Str("ffmpeg", check.Version(cfg.FFmpegBin)).
		Msg("starting renderd")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", cfg.OutputDir).Msg("cannot create output directory")
		return 1
	}
	if err := os.MkdirAll(cfg.ResolveWorkDir(), 0o755); err != nil {
		log.Error().Err(err).Str("dir", cfg.ResolveWorkDir()).Msg("cannot create work directory")
		return 1
	}

	// Phase 3: Wire the pipeline.
	registry := job.NewRegistry(cfg.JobRetention)
	defer registry.Close()

	fetcher := media.NewFetcher(cfg.DownloadTimeout, version, log)
	prober := probe.New(cfg.FFprobeBin, log)
	synth := filtergraph.New(log, nil)
	executor := ffmpeg.NewExecutor(cfg.FFmpegBin, log)
	store := delivery.NewLocalStore(cfg.OutputDir, cfg.PublicBaseURL)
	notifier := delivery.NewNotifier(cfg.WebhookSecret, log)

	processor := pipeline.New(&cfg, registry, fetcher, prober, synth, executor, store, notifier, log)
	srv := server.New(&cfg, registry, processor, log, version)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Router(store.Dir()),
	}

	// Phase 4: Serve until SIGINT/SIGTERM, then drain.
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			return 1
		}
	case sig := <-sigCh:
		log.Warn().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
			return 1
		}
	}
	return 0
}
