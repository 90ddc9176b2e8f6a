package main

import (
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on the prepared files and evaluate it",
		Long: `Train a supervised fastText model on the prepared training file, save it
to the model path and report precision and recall on the test file.

Run "critiq prepare" first, or use "critiq run" for the whole flow.`,
		Args: cobra.NoArgs,
		RunE: runTrain,
	}

	addPathFlags(cmd, "train", "test", "model")
	addTrainingFlags(cmd)
	cmd.Flags().Int("k", 0, "precision and recall at k (overrides evaluation.k)")
	cmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "evaluation.k")
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(cmd, cfg, client, true)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = p.TrainAndEvaluate(cmd.Context(), cfg)
	return err
}
