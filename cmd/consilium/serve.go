package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/consilium/internal/config"
	"github.com/dusk-indust/consilium/internal/journal"
	"github.com/dusk-indust/consilium/internal/orchestrator"
	"github.com/dusk-indust/consilium/internal/server"
	"github.com/dusk-indust/consilium/internal/specialist"
)

// shutdownGrace is how long in-flight consultations get to finish after
// SIGINT or SIGTERM.
const shutdownGrace = 10 * time.Second

type serveFlags struct {
	root       *rootFlags
	configPath string
	listen     string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	flags := serveFlags{root: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the consultation HTTP server",
		Example: `  # Serve using ./consilium.yml
  consilium serve

  # Explicit config and listen address
  consilium serve --config /etc/consilium.yml --listen :9000`,
		Args: cobra.NoArgs,
		RunE: flags.run,
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to consilium.yml (default: probe the current directory)")
	cmd.Flags().StringVarP(&flags.listen, "listen", "l", "", "listen address (overrides the config file)")

	return cmd
}

func (f *serveFlags) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.listen != "" {
		cfg.Listen = f.listen
	}

	logger := f.root.setupLogger()
	client := specialist.NewHTTPClient()
	jnl := journal.New(0)

	svc := orchestrator.NewService(cfg.Roster(), client, buildSynthesizer(cfg, logger),
		jnl.Record,
		orchestrator.WithMaxQuestionLen(cfg.MaxQuestionLen),
		orchestrator.WithLogger(logger),
	)

	srv := server.New(svc, client, jnl, server.Options{
		HealthTimeout: cfg.HealthTimeout,
		Version:       version,
		Logger:        logger,
	})

	logger.Info("starting consilium",
		"listen", cfg.Listen,
		"specialists", len(cfg.Specialists),
		"synthesis", cfg.Synthesis.Mode,
		"version", version)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildSynthesizer picks the configured synthesis strategy.
func buildSynthesizer(cfg *config.Config, logger *slog.Logger) orchestrator.Synthesizer {
	if cfg.Synthesis.Mode == config.ModeModel {
		client := openai.NewClient(
			option.WithBaseURL(cfg.Synthesis.BaseURL),
			option.WithAPIKey(cfg.Synthesis.APIKey),
		)
		return orchestrator.NewModelSynthesizer(&client, cfg.Synthesis.Model, logger)
	}
	return orchestrator.LabelSynthesizer{}
}
