package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Paths locates the pipeline's files.
type Paths struct {
	Input string
	Train string
	Test  string
	Model string
}

// Database configures the run history store.
type Database struct {
	Path    string
	Enabled bool
}

// FastText configures the external binary.
type FastText struct {
	Path    string
	Timeout time.Duration
}

// Config is the fully resolved configuration.
type Config struct {
	FastText    FastText
	Paths       Paths
	Database    Database
	Split       model.SplitConfig
	Training    model.TrainingParams
	EvaluationK int
	NeighborsK  int
}

// defaults maps every configuration key to its default value.
var defaults = map[string]any{
	"paths.input":          "data/critiques.txt",
	"paths.train":          "data/train.txt",
	"paths.test":           "data/test.txt",
	"paths.model":          "model/sentiment_model.bin",
	"database.path":        "$HOME/.local/share/critiq/critiq.db",
	"history.enabled":      true,
	"split.ratio":          0.8,
	"split.seed":           42,
	"training.lr":          1.0,
	"training.epoch":       25,
	"training.word_ngrams": 1,
	"training.dim":         100,
	"training.min_count":   1,
	"fasttext.path":        "fasttext",
	"fasttext.timeout":     "10m",
	"evaluation.k":         1,
	"neighbors.k":          10,
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Paths: Paths{
			Input: ExpandPath(v.GetString("paths.input")),
			Train: ExpandPath(v.GetString("paths.train")),
			Test:  ExpandPath(v.GetString("paths.test")),
			Model: ExpandPath(v.GetString("paths.model")),
		},
		Database: Database{
			Path:    ExpandPath(v.GetString("database.path")),
			Enabled: v.GetBool("history.enabled"),
		},
		Split: model.SplitConfig{
			Ratio: v.GetFloat64("split.ratio"),
			Seed:  v.GetInt64("split.seed"),
		},
		Training: model.TrainingParams{
			LearningRate: v.GetFloat64("training.lr"),
			Epochs:       v.GetInt("training.epoch"),
			WordNgrams:   v.GetInt("training.word_ngrams"),
			Dim:          v.GetInt("training.dim"),
			MinCount:     v.GetInt("training.min_count"),
		},
		FastText: FastText{
			Path:    ExpandPath(v.GetString("fasttext.path")),
			Timeout: v.GetDuration("fasttext.timeout"),
		},
		EvaluationK: v.GetInt("evaluation.k"),
		NeighborsK:  v.GetInt("neighbors.k"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	for key, value := range map[string]string{
		"paths.input": c.Paths.Input,
		"paths.train": c.Paths.Train,
		"paths.test":  c.Paths.Test,
		"paths.model": c.Paths.Model,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", common.ErrMissingConfig, key)
		}
	}
	if !strings.HasSuffix(c.Paths.Model, ".bin") {
		return fmt.Errorf("%w: paths.model must end in .bin, got %q", common.ErrInvalidConfig, c.Paths.Model)
	}
	if c.Paths.Train == c.Paths.Test {
		return fmt.Errorf("%w: paths.train and paths.test must differ", common.ErrInvalidConfig)
	}
	if c.Database.Enabled && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if err := c.Split.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if err := c.Training.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if c.FastText.Timeout < 0 {
		return fmt.Errorf("%w: fasttext.timeout cannot be negative", common.ErrInvalidConfig)
	}
	if c.EvaluationK <= 0 {
		return fmt.Errorf("%w: evaluation.k must be positive", common.ErrInvalidConfig)
	}
	if c.NeighborsK <= 0 {
		return fmt.Errorf("%w: neighbors.k must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// DefaultDocument returns the defaults nested by section, ready to marshal.
func DefaultDocument() map[string]map[string]any {
	doc := make(map[string]map[string]any)
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		section, name, _ := strings.Cut(key, ".")
		if doc[section] == nil {
			doc[section] = make(map[string]any)
		}
		doc[section][name] = defaults[key]
	}
	return doc
}

// Save writes the default configuration to path, creating directories as
// needed. An existing file is left alone unless overwrite is set.
func Save(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(DefaultDocument())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
