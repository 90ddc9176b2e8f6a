// Package pipeline runs the dataset-to-report flow: prepare the training
// files, train a model, evaluate it, then query it for predictions and
// nearest neighbours.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/critiq/internal/cli"
	"github.com/Veraticus/critiq/internal/config"
	"github.com/Veraticus/critiq/internal/dataset"
	"github.com/Veraticus/critiq/internal/fasttext"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/Veraticus/critiq/internal/report"
	"github.com/Veraticus/critiq/internal/service"
)

// Pipeline orchestrates the steps. Storage is optional; without it no run
// history is kept.
type Pipeline struct {
	client   fasttext.Client
	storage  service.Storage
	out      io.Writer
	progress io.Writer
}

// Queries are the ad-hoc inputs sent to a freshly trained model.
type Queries struct {
	Texts []string
	Words []string
}

// Result collects everything a run produced.
type Result struct {
	Prepared     *dataset.PrepareResult
	Model        *fasttext.Model
	RunID        string
	Predictions  []model.Prediction
	Similarities []model.SimilarityResult
	Evaluation   model.Evaluation
}

// New creates a pipeline writing reports to out and progress indicators to
// progress.
func New(client fasttext.Client, storage service.Storage, out, progress io.Writer) *Pipeline {
	if progress == nil {
		progress = io.Discard
	}
	return &Pipeline{
		client:   client,
		storage:  storage,
		out:      out,
		progress: progress,
	}
}

// Prepare loads the input dataset, splits it and writes the train and test
// files.
func (p *Pipeline) Prepare(ctx context.Context, paths config.Paths, split model.SplitConfig) (*dataset.PrepareResult, error) {
	slog.Info("Preparing dataset", "input", paths.Input, "ratio", split.Ratio, "seed", split.Seed)

	prepared, err := dataset.Prepare(ctx, paths.Input, paths.Train, paths.Test, split)
	if err != nil {
		return nil, err
	}

	if err := report.Dataset(p.out, prepared.Dataset); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	if missing := prepared.Split.MissingTrainLabels(); len(missing) > 0 {
		if _, err := fmt.Fprintln(p.out, cli.FormatWarning(fmt.Sprintf("Labels missing from the training split: %v", missing))); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}
	if err := report.Split(p.out, prepared.Split, paths.Train, paths.Test); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return prepared, nil
}

// Train fits a model on trainPath and returns its handle.
func (p *Pipeline) Train(ctx context.Context, trainPath, modelPath string, params model.TrainingParams) (*fasttext.Model, error) {
	slog.Info("Training model",
		"train", trainPath,
		"model", modelPath,
		"lr", params.LearningRate,
		"epochs", params.Epochs)

	var m *fasttext.Model
	err := cli.NewSpinner(p.progress, "Training model").Run(func() error {
		var trainErr error
		m, trainErr = p.client.Train(ctx, trainPath, modelPath, params)
		return trainErr
	})
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	if _, err := fmt.Fprintln(p.out, cli.FormatSuccess("Model saved to "+m.Path)); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return m, nil
}

// Evaluate tests m on testPath and reports the library's triple. A sample
// count that disagrees with the test file is logged, not fatal.
func (p *Pipeline) Evaluate(ctx context.Context, m *fasttext.Model, testPath string, k int) (model.Evaluation, error) {
	slog.Info("Evaluating model", "model", m.Path, "test", testPath, "k", k)

	var ev model.Evaluation
	err := cli.NewSpinner(p.progress, "Evaluating model").Run(func() error {
		var testErr error
		ev, testErr = p.client.Test(ctx, m, testPath, k)
		return testErr
	})
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("evaluation failed: %w", err)
	}

	if lines, err := dataset.CountLines(testPath); err != nil {
		slog.Warn("Could not count test lines", "path", testPath, "error", err)
	} else if lines != ev.SampleCount {
		slog.Warn("Evaluation sample count differs from test file",
			"reported", ev.SampleCount,
			"lines", lines,
			"path", testPath)
	}

	if err := report.Evaluation(p.out, ev); err != nil {
		return model.Evaluation{}, fmt.Errorf("failed to write report: %w", err)
	}
	return ev, nil
}

// Predict classifies text with m and reports the label and confidence.
func (p *Pipeline) Predict(ctx context.Context, m *fasttext.Model, text string) (model.Prediction, error) {
	pred, err := p.client.Predict(ctx, m, text)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("prediction failed: %w", err)
	}

	if err := report.Prediction(p.out, text, pred); err != nil {
		return model.Prediction{}, fmt.Errorf("failed to write report: %w", err)
	}
	return pred, nil
}

// Neighbors reports the k nearest tokens to word. Lookup failures are part
// of the result and never abort the caller.
func (p *Pipeline) Neighbors(ctx context.Context, m *fasttext.Model, word string, k int) model.SimilarityResult {
	res := p.client.Neighbors(ctx, m, word, k)
	if res.Status == model.StatusFailed {
		slog.Warn("Neighbor lookup failed", "word", word, "error", res.Err)
	}

	if err := report.Similarity(p.out, res); err != nil {
		slog.Warn("Failed to write neighbor report", "error", err)
	}
	return res
}

// Run executes the whole flow from the raw dataset.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config, queries Queries) (*Result, error) {
	prepared, err := p.Prepare(ctx, cfg.Paths, cfg.Split)
	if err != nil {
		return nil, err
	}

	run := newRun(cfg)
	run.RecordCount = prepared.Dataset.Len()
	run.TrainCount = len(prepared.Split.Train)
	run.TestCount = len(prepared.Split.Test)

	result := &Result{Prepared: prepared}
	err = p.record(ctx, run, func() error {
		return p.trainAndQuery(ctx, cfg, run.ID, queries, result)
	})
	result.RunID = run.ID
	return result, err
}

// TrainAndEvaluate trains on the already prepared files and evaluates the
// model, recording a run like Run does.
func (p *Pipeline) TrainAndEvaluate(ctx context.Context, cfg *config.Config) (*Result, error) {
	run := newRun(cfg)
	if n, err := dataset.CountLines(cfg.Paths.Train); err == nil {
		run.TrainCount = n
	}
	if n, err := dataset.CountLines(cfg.Paths.Test); err == nil {
		run.TestCount = n
	}
	run.RecordCount = run.TrainCount + run.TestCount

	result := &Result{}
	err := p.record(ctx, run, func() error {
		return p.trainAndQuery(ctx, cfg, run.ID, Queries{}, result)
	})
	result.RunID = run.ID
	return result, err
}

func (p *Pipeline) trainAndQuery(ctx context.Context, cfg *config.Config, runID string, queries Queries, result *Result) error {
	m, err := p.Train(ctx, cfg.Paths.Train, cfg.Paths.Model, cfg.Training)
	if err != nil {
		return err
	}
	result.Model = m

	ev, err := p.Evaluate(ctx, m, cfg.Paths.Test, cfg.EvaluationK)
	if err != nil {
		return err
	}
	result.Evaluation = ev
	if runID != "" {
		if err := p.storage.SaveEvaluation(ctx, runID, ev); err != nil {
			slog.Warn("Failed to save evaluation", "run_id", runID, "error", err)
		}
	}

	for _, text := range queries.Texts {
		pred, err := p.Predict(ctx, m, text)
		if err != nil {
			return err
		}
		result.Predictions = append(result.Predictions, pred)

		if runID != "" {
			if err := p.storage.SavePrediction(ctx, runID, text, pred); err != nil {
				slog.Warn("Failed to save prediction", "run_id", runID, "error", err)
			}
		}
	}

	for _, word := range queries.Words {
		result.Similarities = append(result.Similarities, p.Neighbors(ctx, m, word, cfg.NeighborsK))
	}
	return nil
}

// record wraps fn in a history entry. History is best effort: storage
// failures are logged and the pipeline carries on.
func (p *Pipeline) record(ctx context.Context, run *model.Run, fn func() error) error {
	if p.storage == nil {
		return fn()
	}

	if err := p.storage.CreateRun(ctx, run); err != nil {
		slog.Warn("Failed to record run", "error", err)
		run.ID = ""
		return fn()
	}
	slog.Info("Recording run", "run_id", run.ID)

	err := fn()

	status := model.RunStatusSucceeded
	if err != nil {
		status = model.RunStatusFailed
	}
	// The run context may already be cancelled; the final status still lands.
	if finishErr := p.storage.FinishRun(context.WithoutCancel(ctx), run.ID, status, err); finishErr != nil {
		slog.Warn("Failed to finish run", "run_id", run.ID, "error", finishErr)
	}
	return err
}

func newRun(cfg *config.Config) *model.Run {
	return &model.Run{
		InputPath: cfg.Paths.Input,
		TrainPath: cfg.Paths.Train,
		TestPath:  cfg.Paths.Test,
		ModelPath: cfg.Paths.Model,
		Split:     cfg.Split,
		Params:    cfg.Training,
	}
}
