package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiread/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Long:  "Open the tuiread config file in $EDITOR. The file is created with defaults if it does not exist.",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := config.EnsureConfigFile(path); err != nil {
		return err
	}
	c, err := editor.Cmd("tuiread", path)
	if err != nil {
		return fmt.Errorf("failed to prepare editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
