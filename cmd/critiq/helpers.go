package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/critiq/internal/config"
	"github.com/Veraticus/critiq/internal/fasttext"
	"github.com/Veraticus/critiq/internal/pipeline"
	"github.com/Veraticus/critiq/internal/service"
	"github.com/Veraticus/critiq/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command flags to the configuration keys they override.
var flagKeys = map[string]string{
	"input":       "paths.input",
	"train":       "paths.train",
	"test":        "paths.test",
	"model":       "paths.model",
	"ratio":       "split.ratio",
	"seed":        "split.seed",
	"lr":          "training.lr",
	"epoch":       "training.epoch",
	"word-ngrams": "training.word_ngrams",
	"dim":         "training.dim",
	"min-count":   "training.min_count",
	"no-history":  "history.disabled",
}

func addPathFlags(cmd *cobra.Command, names ...string) {
	usage := map[string]string{
		"input": "labeled input file (label<TAB>text per line)",
		"train": "training file in fastText format",
		"test":  "test file in fastText format",
		"model": "model artifact path (.bin)",
	}
	for _, name := range names {
		cmd.Flags().String(name, "", usage[name]+" (overrides paths."+name+")")
	}
}

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("ratio", 0, "fraction of records used for training (overrides split.ratio)")
	cmd.Flags().Int64("seed", 0, "shuffle seed (overrides split.seed)")
}

func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lr", 0, "learning rate (overrides training.lr)")
	cmd.Flags().Int("epoch", 0, "number of epochs (overrides training.epoch)")
	cmd.Flags().Int("word-ngrams", 0, "max length of word n-grams (overrides training.word_ngrams)")
	cmd.Flags().Int("dim", 0, "size of word vectors (overrides training.dim)")
	cmd.Flags().Int("min-count", 0, "minimal number of word occurrences (overrides training.min_count)")
}

// loadConfig resolves the configuration, applying any flags the user set.
// kKey names the configuration key the command's --k flag overrides.
func loadConfig(cmd *cobra.Command, kKey string) (*config.Config, error) {
	v := viper.GetViper()
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			v.Set(key, flag.Value.String())
		}
	}
	if flag := cmd.Flags().Lookup("k"); flag != nil && flag.Changed && kKey != "" {
		v.Set(kKey, flag.Value.String())
	}
	if v.GetBool("history.disabled") {
		v.Set("history.enabled", false)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initStorage opens and migrates the history database. It returns nil when
// history is disabled.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	if !cfg.Database.Enabled {
		slog.Debug("Run history disabled")
		return nil, nil
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Opened history database", "path", store.Path())
	return store, nil
}

// newClient creates the fastText client from configuration.
func newClient(cfg *config.Config) (fasttext.Client, error) {
	client, err := fasttext.NewClient(fasttext.Config{
		BinaryPath: cfg.FastText.Path,
		Timeout:    cfg.FastText.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fasttext client: %w", err)
	}
	return client, nil
}

// loadModel creates a client and a handle on the model artifact. When the
// configured artifact is missing and no --model was given, the model of the
// latest successful run is used instead.
func loadModel(cmd *cobra.Command, cfg *config.Config) (fasttext.Client, *fasttext.Model, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.Paths.Model
	if flag := cmd.Flags().Lookup("model"); (flag == nil || !flag.Changed) && !fileExists(path) {
		if latest := latestModelPath(cmd.Context(), cfg); latest != "" {
			slog.Info("Using model from latest successful run", "path", latest)
			path = latest
		}
	}

	m, err := client.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load model (run \"critiq train\" first?): %w", err)
	}
	return client, m, nil
}

// latestModelPath returns the artifact of the newest successful run, or ""
// when history is off, empty, or the artifact is gone.
func latestModelPath(ctx context.Context, cfg *config.Config) string {
	store, err := initStorage(ctx, cfg)
	if err != nil || store == nil {
		if err != nil {
			slog.Debug("History unavailable for model lookup", "error", err)
		}
		return ""
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetLatestSuccessfulRun(ctx)
	if err != nil {
		slog.Debug("No successful run to take a model from", "error", err)
		return ""
	}
	if !fileExists(run.ModelPath) {
		slog.Debug("Latest run's model is missing", "run_id", run.ID, "path", run.ModelPath)
		return ""
	}
	return run.ModelPath
}

// newPipeline wires client and, when withHistory is set, the history store.
// The returned cleanup closes whatever was opened.
func newPipeline(cmd *cobra.Command, cfg *config.Config, client fasttext.Client, withHistory bool) (*pipeline.Pipeline, func(), error) {
	var store service.Storage
	if withHistory {
		var err error
		store, err = initStorage(cmd.Context(), cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	cleanup := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history database", "error", err)
		}
	}

	return pipeline.New(client, store, cmd.OutOrStdout(), os.Stderr), cleanup, nil
}
