package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/consilium/internal/config"
)

type initFlags struct {
	output string
	force  bool
}

func newInitCmd() *cobra.Command {
	var flags initFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter consilium.yml",
		Args:  cobra.NoArgs,
		RunE:  flags.run,
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "consilium.yml", "where to write the config file")
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing file")

	return cmd
}

func (f *initFlags) run(cmd *cobra.Command, _ []string) error {
	if !f.force {
		if _, err := os.Stat(f.output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", f.output)
		}
	}

	if err := os.WriteFile(f.output, config.Example(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", f.output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", f.output)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit the specialist endpoints, then start the server:")
	fmt.Fprintln(cmd.OutOrStdout(), "  consilium serve")
	return nil
}
