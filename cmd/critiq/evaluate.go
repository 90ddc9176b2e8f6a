package main

import (
	"github.com/spf13/cobra"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report precision and recall of a trained model",
		Args:  cobra.NoArgs,
		RunE:  runEvaluate,
	}

	addPathFlags(cmd, "test", "model")
	cmd.Flags().Int("k", 0, "precision and recall at k (overrides evaluation.k)")

	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "evaluation.k")
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

	_, err = p.Evaluate(cmd.Context(), m, cfg.Paths.Test, cfg.EvaluationK)
	return err
}
