package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/critiq/internal/cli"
	"github.com/Veraticus/critiq/internal/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(configInitCmd())

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("path")
			force, _ := cmd.Flags().GetBool("force")

			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to get home directory: %w", err)
				}
				path = filepath.Join(home, ".config", "critiq", "config.yaml")
			}

			if err := config.Save(config.ExpandPath(path), force); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote default configuration to "+path))
			return err
		},
	}

	cmd.Flags().String("path", "", "where to write the file (default: $HOME/.config/critiq/config.yaml)")
	cmd.Flags().Bool("force", false, "overwrite an existing file")

	return cmd
}
