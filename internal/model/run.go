package model

import "time"

// RunStatus tracks a pipeline run through its lifetime.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Run records one training run and what it produced.
type Run struct {
	StartedAt   time.Time
	FinishedAt  *time.Time
	Evaluation  *Evaluation
	ID          string
	InputPath   string
	TrainPath   string
	TestPath    string
	ModelPath   string
	Status      RunStatus
	Error       string
	Params      TrainingParams
	Split       SplitConfig
	RecordCount int
	TrainCount  int
	TestCount   int
}

// PredictionRecord is a prediction made against a run's model.
type PredictionRecord struct {
	CreatedAt  time.Time
	RunID      string
	Text       string
	Prediction Prediction
	ID         int64
}
