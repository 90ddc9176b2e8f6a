package main

import (
	"os"

	"github.com/Veraticus/critiq/internal/pipeline"
	"github.com/spf13/cobra"
)

func prepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Split the labeled dataset into fastText train and test files",
		Long: `Load the labeled critiques file, shuffle it with a fixed seed and write
the training and test files in fastText's __label__ syntax.

The same seed and ratio always produce byte-identical files.`,
		Args: cobra.NoArgs,
		RunE: runPrepare,
	}

	addPathFlags(cmd, "input", "train", "test")
	addSplitFlags(cmd)

	return cmd
}

func runPrepare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}

	// Preparing never calls the library, so no client is needed.
	p := pipeline.New(nil, nil, cmd.OutOrStdout(), os.Stderr)
	_, err = p.Prepare(cmd.Context(), cfg.Paths, cfg.Split)
	return err
}
