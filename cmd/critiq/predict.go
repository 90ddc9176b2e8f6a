package main

import (
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <text>...",
		Short: "Predict the sentiment label of each text",
		Long: `Predict the most likely label for each argument with a trained model and
print it with its confidence. Quote a text to keep it as one argument.`,
		Example: `  critiq predict "J'adore ce produit" "C'est une arnaque"`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runPredict,
	}

	addPathFlags(cmd, "model")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "")
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

	for _, text := range args {
		if _, err := p.Predict(cmd.Context(), m, text); err != nil {
			return err
		}
	}
	return nil
}
