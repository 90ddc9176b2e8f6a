package main

import (
	"github.com/Veraticus/critiq/internal/pipeline"
	"github.com/spf13/cobra"
)

// Default queries sent to a freshly trained model.
var (
	defaultTexts = []string{"Ce produit est vraiment génial, je le recommande"}
	defaultWords = []string{"produit"}
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare, train, evaluate and query a model in one go",
		Long: `Run the whole flow: split the labeled dataset, train a model, report its
precision and recall, then predict the label of each --text and list the
nearest neighbors of each --word.`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	addPathFlags(cmd, "input", "train", "test", "model")
	addSplitFlags(cmd)
	addTrainingFlags(cmd)
	cmd.Flags().StringArray("text", defaultTexts, "text to classify after training (repeatable)")
	cmd.Flags().StringArray("word", defaultWords, "word to look up neighbors for (repeatable)")
	cmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}

	texts, _ := cmd.Flags().GetStringArray("text")
	words, _ := cmd.Flags().GetStringArray("word")

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(cmd, cfg, client, true)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = p.Run(cmd.Context(), cfg, pipeline.Queries{Texts: texts, Words: words})
	return err
}
