// Package cmd provides the commands of the vevtor CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/graysonrie/vevtor/v1/embedding"
	"github.com/graysonrie/vevtor/v1/logger"
	"github.com/graysonrie/vevtor/v1/qdrant"
	"github.com/graysonrie/vevtor/v1/service"
	"github.com/graysonrie/vevtor/v1/tracer"
	"github.com/spf13/cobra"
)

// app is what a command runs against.
type app struct {
	cfg     service.Config
	svc     *service.Service
	log     *logger.Logger
	cleanup func() error
}

// openApp builds the service from cfg. Tests replace it.
var openApp = func(ctx context.Context, cfg service.Config) (*app, error) {
	log := logger.NewLoggerClient(cfg.Logger)

	tr, err := tracer.NewClient(cfg.Tracer, log)
	if err != nil {
		return nil, err
	}

	store, err := qdrant.NewClient(qdrant.Params{Config: &cfg.Qdrant})
	if err != nil {
		_ = tr.Shutdown(ctx)
		return nil, err
	}

	gen, closeGen := openGenerator(&cfg.Embedding, log)
	svc := service.New(store, gen, cfg.Index).WithLogger(log)

	cleanup := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := errors.Join(closeGen(), store.Close(), tr.Shutdown(shutdownCtx))
		_ = log.Zap.Sync()
		return err
	}
	return &app{cfg: cfg, svc: svc, log: log, cleanup: cleanup}, nil
}

// openGenerator returns the configured generator. Commands that never
// embed still work without embedding settings: the returned generator
// then fails every call with the configuration error.
func openGenerator(cfg *embedding.Config, log *logger.Logger) (embedding.Generator, func() error) {
	client, err := embedding.NewClient(cfg)
	if err != nil {
		log.Debug("Embedding generator unavailable", err)
		return unavailableGenerator{err: err}, func() error { return nil }
	}
	gen, err := embedding.NewGenerator(cfg, client)
	if err != nil {
		_ = client.Close()
		return unavailableGenerator{err: err}, func() error { return nil }
	}
	return gen, client.Close
}

type unavailableGenerator struct{ err error }

func (u unavailableGenerator) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("embedding generator unavailable: %w", u.err)
}

func (u unavailableGenerator) EmbedMany(context.Context, []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding generator unavailable: %w", u.err)
}

func (unavailableGenerator) Dimensions() uint64 { return 0 }

// NewRootCmd creates the root command of the vevtor CLI.
func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "vevtor",
		Short: "Index records into Qdrant and search them by text",
		Long: `vevtor embeds records, routes them to Qdrant collections and searches
them by query text.

Settings come from a YAML file (--config) and EMBEDDING_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")

	load := func(ctx context.Context) (*app, error) {
		cfg := service.DefaultConfig()
		if configPath != "" {
			var err error
			if cfg, err = service.LoadConfig(configPath); err != nil {
				return nil, err
			}
		}
		return openApp(ctx, cfg)
	}

	cmd.AddCommand(
		newHealthCmd(load),
		newCollectionsCmd(load),
		newResetCmd(load),
		newDeleteCmd(load),
		newSearchCmd(load),
		newIndexCmd(load),
		newConsumeCmd(load),
	)

	return cmd
}

type loader func(ctx context.Context) (*app, error)

// withApp opens the app, runs fn and releases the app.
func withApp(ctx context.Context, load loader, fn func(a *app) error) (err error) {
	a, err := load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
