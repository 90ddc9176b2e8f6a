package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/critic")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, Paths{
		Input: "data/critiques.txt",
		Train: "data/train.txt",
		Test:  "data/test.txt",
		Model: "model/sentiment_model.bin",
	}, cfg.Paths)
	assert.Equal(t, "/home/critic/.local/share/critiq/critiq.db", cfg.Database.Path)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, model.DefaultSplitConfig(), cfg.Split)
	assert.Equal(t, model.DefaultTrainingParams(), cfg.Training)
	assert.Equal(t, FastText{Path: "fasttext", Timeout: 10 * time.Minute}, cfg.FastText)
	assert.Equal(t, 1, cfg.EvaluationK)
	assert.Equal(t, 10, cfg.NeighborsK)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	v := newViper()
	v.SetEnvPrefix("CRITIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	t.Setenv("CRITIQ_SPLIT_RATIO", "0.5")
	t.Setenv("CRITIQ_TRAINING_EPOCH", "5")
	t.Setenv("CRITIQ_FASTTEXT_TIMEOUT", "90s")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Split.Ratio)
	assert.Equal(t, 5, cfg.Training.Epochs)
	assert.Equal(t, 90*time.Second, cfg.FastText.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{name: "ratio out of range", key: "split.ratio", value: 1.2, wantErr: common.ErrInvalidConfig},
		{name: "zero epochs", key: "training.epoch", value: 0, wantErr: common.ErrInvalidConfig},
		{name: "negative lr", key: "training.lr", value: -1.0, wantErr: common.ErrInvalidConfig},
		{name: "model without .bin", key: "paths.model", value: "model/sentiment", wantErr: common.ErrInvalidConfig},
		{name: "empty input", key: "paths.input", value: "", wantErr: common.ErrMissingConfig},
		{name: "same train and test", key: "paths.test", value: "data/train.txt", wantErr: common.ErrInvalidConfig},
		{name: "zero neighbors", key: "neighbors.k", value: 0, wantErr: common.ErrInvalidConfig},
		{name: "zero eval k", key: "evaluation.k", value: 0, wantErr: common.ErrInvalidConfig},
		{name: "negative timeout", key: "fasttext.timeout", value: "-1s", wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_HistoryDisabledNeedsNoDatabase(t *testing.T) {
	v := newViper()
	v.Set("history.enabled", false)
	v.Set("database.path", "")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, cfg.Database.Enabled)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "word_ngrams: 1")
	assert.Contains(t, string(data), "model: model/sentiment_model.bin")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTrainingParams(), cfg.Training)
	assert.Equal(t, model.DefaultSplitConfig(), cfg.Split)
	assert.Equal(t, 10*time.Minute, cfg.FastText.Timeout)

	assert.Error(t, Save(path, false), "existing file must not be overwritten")
	assert.NoError(t, Save(path, true))
}

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()
	assert.Equal(t, 25, doc["training"]["epoch"])
	assert.Equal(t, "data/critiques.txt", doc["paths"]["input"])
	assert.Len(t, doc, 8)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/critic")
	t.Setenv("CRITIQ_DATA", "/srv/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/critic", ExpandPath("~"))
	assert.Equal(t, "/home/critic/models/m.bin", ExpandPath("~/models/m.bin"))
	assert.Equal(t, "/srv/data/critiques.txt", ExpandPath("$CRITIQ_DATA/critiques.txt"))
	assert.Equal(t, "data/train.txt", ExpandPath("data/train.txt"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}
