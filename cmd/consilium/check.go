package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/consilium/internal/config"
	"github.com/dusk-indust/consilium/internal/orchestrator"
	"github.com/dusk-indust/consilium/internal/specialist"
)

type checkFlags struct {
	root       *rootFlags
	configPath string
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	flags := checkFlags{root: root}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe every configured specialist and report availability",
		Args:  cobra.NoArgs,
		RunE:  flags.run,
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to consilium.yml (default: probe the current directory)")

	return cmd
}

func (f *checkFlags) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	logger := f.root.setupLogger()
	logger.Debug("probing specialists", "count", len(cfg.Specialists), "timeout", cfg.HealthTimeout)

	client := specialist.NewHTTPClient()
	probes := orchestrator.ProbeAll(cmd.Context(), client, cfg.Roster(), cfg.HealthTimeout)

	out := cmd.OutOrStdout()
	for _, p := range probes {
		marker := "ok"
		if p.Status == specialist.HealthUnhealthy {
			marker = "!!"
		}
		fmt.Fprintf(out, "  %s %-16s %-10s %8s  %s\n",
			marker, p.Agent, p.Status, p.Latency.Round(time.Millisecond), p.Detail)
	}

	overall := orchestrator.DeriveHealth(probes)
	fmt.Fprintf(out, "\noverall: %s\n", overall)

	if overall == specialist.HealthUnhealthy {
		return fmt.Errorf("no specialist is reachable")
	}
	return nil
}
