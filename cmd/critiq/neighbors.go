package main

import (
	"github.com/spf13/cobra"
)

func neighborsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "neighbors <word>...",
		Aliases: []string{"nn"},
		Short:   "List the nearest vocabulary words of each word",
		Long: `Print the k words whose learned vectors are closest to each query word.
A word the model never saw is reported, not treated as an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runNeighbors,
	}

	addPathFlags(cmd, "model")
	cmd.Flags().Int("k", 0, "number of neighbors (overrides neighbors.k)")

	return cmd
}

func runNeighbors(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "neighbors.k")
	if err != nil {
		return err
	}

	client, m, err := loadModel(cmd, cfg)
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(cmd, cfg, client, false)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, word := range args {
		p.Neighbors(cmd.Context(), m, word, cfg.NeighborsK)
	}
	return nil
}
