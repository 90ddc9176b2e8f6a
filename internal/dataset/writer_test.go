package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "train.txt")
	records := []model.Record{
		{Label: "negative", Text: "C'est une arnaque"},
		{Label: "positive", Text: "J'adore ce produit"},
	}

	require.NoError(t, WriteFile(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "__label__negative C'est une arnaque\n__label__positive J'adore ce produit\n", string(data))
}

func TestWriteFile_RemovesPartialFileOnFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.txt")
	records := []model.Record{
		{Label: "positive", Text: "ok"},
		{Label: "negative", Text: "deux\nlignes"},
	}

	err := WriteFile(path, records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFormat))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, path, fe.Path)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, WriteFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestPrepare_TwoRecordScenario(t *testing.T) {
	input := writeTemp(t, "critiques.txt", "negative\tC'est une arnaque\npositive\tJ'adore ce produit\n")
	cfg := model.SplitConfig{Ratio: 0.5, Seed: 42}

	run := func(dir string) (string, string) {
		trainPath := filepath.Join(dir, "train.txt")
		testPath := filepath.Join(dir, "test.txt")

		res, err := Prepare(context.Background(), input, trainPath, testPath, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Dataset.Len())
		assert.Len(t, res.Split.Train, 1)
		assert.Len(t, res.Split.Test, 1)

		train, err := os.ReadFile(trainPath)
		require.NoError(t, err)
		test, err := os.ReadFile(testPath)
		require.NoError(t, err)
		return string(train), string(test)
	}

	train1, test1 := run(t.TempDir())
	train2, test2 := run(t.TempDir())

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	for _, content := range []string{train1, test1} {
		assert.Equal(t, 1, strings.Count(content, "\n"))
		rec, err := ParseLine(strings.TrimSuffix(content, "\n"))
		require.NoError(t, err)
		switch rec.Label {
		case "negative":
			assert.Equal(t, "C'est une arnaque", rec.Text)
		case "positive":
			assert.Equal(t, "J'adore ce produit", rec.Text)
		default:
			t.Fatalf("unexpected label %q", rec.Label)
		}
	}
	assert.NotEqual(t, train1, test1)
}

func TestPrepare_EmptyInput(t *testing.T) {
	input := writeTemp(t, "critiques.txt", "\n\n")
	dir := t.TempDir()

	_, err := Prepare(context.Background(), input, filepath.Join(dir, "train.txt"), filepath.Join(dir, "test.txt"), model.DefaultSplitConfig())
	assert.ErrorIs(t, err, common.ErrEmptyDataset)
}

func TestPrepare_TestWriteFailureRemovesTrainFile(t *testing.T) {
	input := writeTemp(t, "critiques.txt", "negative\tC'est une arnaque\npositive\tJ'adore ce produit\n")
	dir := t.TempDir()
	trainPath := filepath.Join(dir, "train.txt")
	testPath := filepath.Join(dir, "test.txt")
	// A directory in place of the test file makes its creation fail.
	require.NoError(t, os.Mkdir(testPath, 0750))

	_, err := Prepare(context.Background(), input, trainPath, testPath, model.SplitConfig{Ratio: 0.5, Seed: 42})
	require.Error(t, err)

	_, statErr := os.Stat(trainPath)
	assert.True(t, os.IsNotExist(statErr), "train file must not outlive a failed test write")
}
