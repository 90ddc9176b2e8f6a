package model

import "fmt"

// SplitConfig controls the seeded train/test partition.
type SplitConfig struct {
	Ratio float64
	Seed  int64
}

// DefaultSplitConfig returns an 80/20 split with a fixed seed.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{Ratio: 0.8, Seed: 42}
}

// Validate ensures the ratio leaves room for both subsets.
func (c SplitConfig) Validate() error {
	if c.Ratio <= 0 || c.Ratio >= 1 {
		return fmt.Errorf("split ratio must be between 0 and 1 (exclusive), got %g", c.Ratio)
	}
	return nil
}

// TrainingParams are the hyperparameters handed to the supervised trainer.
// Zero values for the optional fields leave the library default in place.
type TrainingParams struct {
	LearningRate float64
	Epochs       int
	WordNgrams   int
	Dim          int
	MinCount     int
}

// DefaultTrainingParams returns the hyperparameters used for the sentiment model.
func DefaultTrainingParams() TrainingParams {
	return TrainingParams{
		LearningRate: 1.0,
		Epochs:       25,
		WordNgrams:   1,
		Dim:          100,
		MinCount:     1,
	}
}

// Validate checks the required hyperparameters.
func (p TrainingParams) Validate() error {
	if p.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", p.LearningRate)
	}
	if p.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", p.Epochs)
	}
	if p.WordNgrams < 0 || p.Dim < 0 || p.MinCount < 0 {
		return fmt.Errorf("optional hyperparameters cannot be negative")
	}
	return nil
}
