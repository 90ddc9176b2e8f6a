package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataset_LabelCounts(t *testing.T) {
	ds := &Dataset{
		Source: "critiques.txt",
		Records: []Record{
			{Label: "positive", Text: "J'adore ce produit"},
			{Label: "negative", Text: "C'est une arnaque"},
			{Label: "positive", Text: "Livraison rapide"},
		},
	}

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"negative", "positive"}, ds.Labels())
	assert.Equal(t, []LabelCount{
		{Label: "negative", Count: 1},
		{Label: "positive", Count: 2},
	}, ds.LabelCounts())
}

func TestDataset_Empty(t *testing.T) {
	ds := &Dataset{}

	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Labels())
	assert.Empty(t, ds.LabelCounts())
}

func TestSplit_MissingTrainLabels(t *testing.T) {
	split := Split{
		Train: []Record{{Label: "positive", Text: "top"}},
		Test: []Record{
			{Label: "negative", Text: "nul"},
			{Label: "positive", Text: "super"},
		},
	}

	assert.Equal(t, 3, split.Len())
	assert.Equal(t, []string{"negative"}, split.MissingTrainLabels())

	split.Train = append(split.Train, Record{Label: "negative", Text: "bof"})
	assert.Empty(t, split.MissingTrainLabels())
}

func TestSplitConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSplitConfig().Validate())
	assert.NoError(t, SplitConfig{Ratio: 0.5}.Validate())
	assert.Error(t, SplitConfig{Ratio: 0}.Validate())
	assert.Error(t, SplitConfig{Ratio: 1}.Validate())
	assert.Error(t, SplitConfig{Ratio: -0.2}.Validate())
}

func TestTrainingParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  TrainingParams
		wantErr bool
	}{
		{name: "defaults", params: DefaultTrainingParams()},
		{name: "required only", params: TrainingParams{LearningRate: 0.5, Epochs: 5}},
		{name: "zero learning rate", params: TrainingParams{Epochs: 5}, wantErr: true},
		{name: "zero epochs", params: TrainingParams{LearningRate: 1}, wantErr: true},
		{name: "negative dim", params: TrainingParams{LearningRate: 1, Epochs: 5, Dim: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
