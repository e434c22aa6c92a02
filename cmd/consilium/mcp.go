package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/consilium/internal/config"
	"github.com/dusk-indust/consilium/internal/mcptools"
	"github.com/dusk-indust/consilium/internal/orchestrator"
	"github.com/dusk-indust/consilium/internal/specialist"
)

type mcpFlags struct {
	root       *rootFlags
	configPath string
	httpAddr   string
}

func newMCPCmd(root *rootFlags) *cobra.Command {
	flags := mcpFlags{root: root}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server exposing consultation tools",
		Long: `Run consilium as a Model Context Protocol server so agentic clients
can call the consult, list_specialists and check_health tools. The
server speaks stdio by default; --http serves the streamable HTTP
transport instead.`,
		Args: cobra.NoArgs,
		RunE: flags.run,
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to consilium.yml (default: probe the current directory)")
	cmd.Flags().StringVar(&flags.httpAddr, "http", "", "serve MCP over HTTP on this address instead of stdio")

	return cmd
}

func (f *mcpFlags) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	logger := f.root.setupLogger()
	client := specialist.NewHTTPClient()

	svc := orchestrator.NewService(cfg.Roster(), client, buildSynthesizer(cfg, logger), nil,
		orchestrator.WithMaxQuestionLen(cfg.MaxQuestionLen),
		orchestrator.WithLogger(logger),
	)

	mcpServer := mcptools.NewConsultMCPServer(
		mcptools.NewConsultService(svc, client, cfg.HealthTimeout))

	if f.httpAddr != "" {
		logger.Info("starting MCP server", "transport", "http", "listen", f.httpAddr)
		return mcptools.RunHTTP(ctx, mcpServer, f.httpAddr)
	}

	logger.Info("starting MCP server", "transport", "stdio")
	return mcptools.RunStdio(ctx, mcpServer)
}
