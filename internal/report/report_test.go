package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/critiq/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset(t *testing.T) {
	var buf bytes.Buffer
	ds := &model.Dataset{Records: []model.Record{
		{Label: "positive", Text: "a"},
		{Label: "negative", Text: "b"},
		{Label: "positive", Text: "c"},
	}}

	require.NoError(t, Dataset(&buf, ds))
	out := buf.String()
	assert.Contains(t, out, "Total records: 3")
	assert.Contains(t, out, "negative")
	assert.Less(t, strings.Index(out, "negative"), strings.Index(out, "positive"))
}

func TestSplit(t *testing.T) {
	var buf bytes.Buffer
	split := model.Split{Train: make([]model.Record, 8), Test: make([]model.Record, 2)}

	require.NoError(t, Split(&buf, split, "data/train.txt", "data/test.txt"))
	assert.Contains(t, buf.String(), "Wrote 8 training lines to data/train.txt and 2 test lines to data/test.txt")
}

func TestEvaluation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Evaluation(&buf, model.Evaluation{SampleCount: 2, Precision: 0.5, Recall: 0.5}))

	out := buf.String()
	assert.Contains(t, out, "Samples:   2")
	assert.Contains(t, out, "Precision: 0.5")
	assert.Contains(t, out, "Recall:    0.5")
	assert.NotContains(t, out, "0.500")
}

func TestEvaluation_KeepsLibraryPrecision(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Evaluation(&buf, model.Evaluation{SampleCount: 12, Precision: 0.0833, Recall: 0.0833}))

	out := buf.String()
	assert.Contains(t, out, "Precision: 0.0833")
	assert.Contains(t, out, "Recall:    0.0833")
	assert.NotContains(t, out, "0.083 ")
}

func TestPrediction(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Prediction(&buf, "J'adore ce produit", model.Prediction{Label: "positive", Confidence: 0.98765}))
	assert.Contains(t, buf.String(), `"J'adore ce produit" → positive (confidence 0.99)`)
}

func TestSimilarity(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		var buf bytes.Buffer
		res := model.SimilarityResult{
			Query:  "produit",
			Status: model.StatusFound,
			Neighbors: model.Neighbors{
				{Token: "article", Score: 0.912345},
				{Token: "objet", Score: 0.5},
			},
		}
		require.NoError(t, Similarity(&buf, res))

		out := buf.String()
		assert.Contains(t, out, `Nearest neighbors of "produit":`)
		assert.Contains(t, out, "0.9123")
		assert.Contains(t, out, "0.5000")
		assert.Less(t, strings.Index(out, "article"), strings.Index(out, "objet"))
	})

	t.Run("not in vocabulary", func(t *testing.T) {
		var buf bytes.Buffer
		res := model.SimilarityResult{Query: "zzz", Status: model.StatusNotInVocabulary, Err: errors.New("word not in vocabulary")}
		require.NoError(t, Similarity(&buf, res))
		assert.Contains(t, buf.String(), `"zzz" is not in the vocabulary`)
	})

	t.Run("failed keeps the cause", func(t *testing.T) {
		var buf bytes.Buffer
		res := model.SimilarityResult{Query: "produit", Status: model.StatusFailed, Err: errors.New("fasttext dump: wrong file format")}
		require.NoError(t, Similarity(&buf, res))
		assert.Contains(t, buf.String(), "wrong file format")
		assert.NotContains(t, buf.String(), NotInVocabularyMessage)
	})
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, nil))
	assert.Contains(t, buf.String(), "No runs recorded yet")

	buf.Reset()
	runs := []model.Run{
		{
			ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
			StartedAt:   time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local),
			Status:      model.RunStatusSucceeded,
			RecordCount: 1000,
			Evaluation:  &model.Evaluation{SampleCount: 200, Precision: 0.9, Recall: 0.9},
		},
		{
			ID:     "7c9e6679",
			Status: model.RunStatusFailed,
		},
	}
	require.NoError(t, History(&buf, runs))

	out := buf.String()
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "d9cb")
	assert.Contains(t, out, "2026-10-18 09:30")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "0.900")
	assert.Contains(t, out, "failed")
}

func TestRunDetail(t *testing.T) {
	run := &model.Run{
		ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
		Status:      model.RunStatusSucceeded,
		InputPath:   "data/critiques.txt",
		ModelPath:   "model/sentiment_model.bin",
		RecordCount: 10,
		TrainCount:  8,
		TestCount:   2,
		Split:       model.SplitConfig{Ratio: 0.8, Seed: 42},
		Params:      model.TrainingParams{LearningRate: 1, Epochs: 25},
		Evaluation:  &model.Evaluation{SampleCount: 2, Precision: 0.5, Recall: 0.5},
	}

	t.Run("with predictions", func(t *testing.T) {
		var buf bytes.Buffer
		preds := []model.PredictionRecord{
			{RunID: run.ID, Text: "J'adore ce produit", Prediction: model.Prediction{Label: "positive", Confidence: 0.91}},
		}
		require.NoError(t, RunDetail(&buf, run, preds))

		out := buf.String()
		assert.Contains(t, out, run.ID)
		assert.Contains(t, out, "8 train / 2 test (ratio 0.8, seed 42)")
		assert.Contains(t, out, "P@k 0.5, R@k 0.5 on 2 samples")
		assert.Contains(t, out, `"J'adore ce produit" → positive (confidence 0.91)`)
	})

	t.Run("without predictions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RunDetail(&buf, run, nil))
		assert.Contains(t, buf.String(), "No predictions recorded for this run")
	})
}
