// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/critiq/internal/model"
)

// Storage defines the contract for the run history persistence layer.
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *model.Run) error
	FinishRun(ctx context.Context, id string, status model.RunStatus, runErr error) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetLatestSuccessfulRun(ctx context.Context) (*model.Run, error)

	// Result operations
	SaveEvaluation(ctx context.Context, runID string, ev model.Evaluation) error
	SavePrediction(ctx context.Context, runID, text string, p model.Prediction) error
	GetPredictions(ctx context.Context, runID string) ([]model.PredictionRecord, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Close() error
}
