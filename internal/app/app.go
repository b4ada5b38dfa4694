// Package app builds the dependency graph shared by the CLI and the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"foxie/internal/artifact"
	"foxie/internal/config"
	"foxie/internal/knowledge"
	"foxie/internal/llm"
	"foxie/internal/logging"
	"foxie/internal/metrics"
	"foxie/internal/output"
	"foxie/internal/runlog"
	"foxie/internal/scaffold"
	"foxie/internal/styleguide"
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Registry
	Service *scaffold.Service
	Runs    runlog.Store
	// Artifacts is nil unless S3 is configured.
	Artifacts artifact.Store

	closers []func() error
}

// openPostgres is swapped in tests.
var openPostgres = func(dsn string) (runlog.Store, io.Closer, error) {
	pg, err := runlog.NewPostgresStore(dsn)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg, nil
}

// New opens the configured stores. Anything opened is closed again when a
// later step fails.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *App, err error) {
	log = logging.OrNop(log)
	a := &App{Config: cfg, Log: log, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			if cerr := a.Close(); cerr != nil {
				log.Warn("failed to close partially built app", zap.Error(cerr))
			}
		}
	}()

	if cfg.S3.Enabled() {
		s3, err := artifact.NewS3Store(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to init artifact store: %w", err)
		}
		a.Artifacts = s3
	}

	if cfg.DatabaseURL != "" {
		runs, closer, err := openPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		a.Runs = runs
		a.closers = append(a.closers, closer.Close)
	} else {
		a.Runs = runlog.NewMemoryStore()
	}

	store, err := a.knowledgeStore(ctx)
	if err != nil {
		return nil, err
	}
	guides, err := styleguide.NewLoader(store, log.Named("styleguide"), styleguide.Options{Compact: cfg.CompactGuide})
	if err != nil {
		return nil, err
	}

	factory := scaffold.GeminiFactory(scaffold.GeminiOptions{
		Model: cfg.Model,
		Retry: llm.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
		},
		RPS:     cfg.RateLimit.RPS,
		Burst:   cfg.RateLimit.Burst,
		Log:     log.Named("llm"),
		Metrics: a.Metrics,
	})
	a.Service = scaffold.NewService(guides, factory, a.Metrics, log.Named("scaffold"))
	return a, nil
}

// knowledgeStore picks the catalog: an explicit directory, then the S3
// prefix when it holds any examples, then the built-in copy.
func (a *App) knowledgeStore(ctx context.Context) (knowledge.Store, error) {
	if dir := a.Config.KnowledgeDir; dir != "" {
		s, err := knowledge.NewDirStore(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open knowledge dir: %w", err)
		}
		if !s.Available(ctx) {
			a.Log.Warn("knowledge dir not found; style guide will be empty", zap.String("dir", dir))
		}
		return s, nil
	}
	if a.Artifacts != nil {
		check, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		s := knowledge.NewArtifactStore(a.Artifacts, a.Config.KnowledgePrefix)
		if s.Available(check) {
			return s, nil
		}
		a.Log.Info("no knowledge in artifact store; using built-in catalog", zap.String("prefix", a.Config.KnowledgePrefix))
	}
	return knowledge.Builtin(), nil
}

// Outputs returns a writer factory for server runs, or nil when no artifact
// store is configured.
func (a *App) Outputs() func(runID string) output.Writer {
	if a.Artifacts == nil {
		return nil
	}
	return func(runID string) output.Writer {
		return output.NewArtifactWriter(a.Artifacts, "runs/"+runID)
	}
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
