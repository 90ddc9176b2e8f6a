package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/google/uuid"
)

const runColumns = `
	r.id, r.status, r.error, r.input_path, r.train_path, r.test_path, r.model_path,
	r.record_count, r.train_count, r.test_count, r.split_ratio, r.split_seed,
	r.learning_rate, r.epochs, r.word_ngrams, r.dim, r.min_count,
	r.started_at, r.finished_at,
	e.sample_count, e.precision_score, e.recall_score`

// CreateRun records a new run in RUNNING state. An ID and start time are
// assigned when missing.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = model.RunStatusRunning

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, status, input_path, train_path, test_path, model_path,
			record_count, train_count, test_count, split_ratio, split_seed,
			learning_rate, epochs, word_ngrams, dim, min_count, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Status),
		run.InputPath,
		run.TrainPath,
		run.TestPath,
		run.ModelPath,
		run.RecordCount,
		run.TrainCount,
		run.TestCount,
		run.Split.Ratio,
		run.Split.Seed,
		run.Params.LearningRate,
		run.Params.Epochs,
		run.Params.WordNgrams,
		run.Params.Dim,
		run.Params.MinCount,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun moves a run to a terminal status. runErr is stored for failed runs.
func (s *SQLiteStorage) FinishRun(ctx context.Context, id string, status model.RunStatus, runErr error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	var errMsg sql.NullString
	if runErr != nil {
		errMsg = sql.NullString{String: runErr.Error(), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?
	`, string(status), errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return expectOneRow(result, "run "+id)
}

// GetRun retrieves a run with its evaluation, if any.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs r
		LEFT JOIN evaluations e ON e.run_id = r.id
		WHERE r.id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs r
		LEFT JOIN evaluations e ON e.run_id = r.id
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan run: %w", scanErr)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetLatestSuccessfulRun returns the newest run that finished successfully.
func (s *SQLiteStorage) GetLatestSuccessfulRun(ctx context.Context) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs r
		LEFT JOIN evaluations e ON e.run_id = r.id
		WHERE r.status = ?
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT 1
	`, string(model.RunStatusSucceeded))

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no successful run", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// SaveEvaluation stores (or replaces) the evaluation of a run.
func (s *SQLiteStorage) SaveEvaluation(ctx context.Context, runID string, ev model.Evaluation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if ev.SampleCount < 0 {
		return fmt.Errorf("%w: negative sample count", ErrInvalidValue)
	}
	if err := validateUnitInterval(ev.Precision, "precision"); err != nil {
		return err
	}
	if err := validateUnitInterval(ev.Recall, "recall"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (run_id, sample_count, precision_score, recall_score)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			sample_count = excluded.sample_count,
			precision_score = excluded.precision_score,
			recall_score = excluded.recall_score,
			evaluated_at = CURRENT_TIMESTAMP
	`, runID, ev.SampleCount, ev.Precision, ev.Recall)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// SavePrediction appends a prediction to a run's log.
func (s *SQLiteStorage) SavePrediction(ctx context.Context, runID, text string, p model.Prediction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if err := validateUnitInterval(p.Confidence, "confidence"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (run_id, text, label, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, runID, text, p.Label, p.Confidence, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// GetPredictions returns a run's predictions in insertion order.
func (s *SQLiteStorage) GetPredictions(ctx context.Context, runID string) ([]model.PredictionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, text, label, confidence, created_at
		FROM predictions
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.PredictionRecord
	for rows.Next() {
		var rec model.PredictionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Text,
			&rec.Prediction.Label,
			&rec.Prediction.Confidence,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run         model.Run
		status      string
		errMsg      sql.NullString
		finishedAt  sql.NullTime
		sampleCount sql.NullInt64
		precision   sql.NullFloat64
		recall      sql.NullFloat64
	)

	err := row.Scan(
		&run.ID,
		&status,
		&errMsg,
		&run.InputPath,
		&run.TrainPath,
		&run.TestPath,
		&run.ModelPath,
		&run.RecordCount,
		&run.TrainCount,
		&run.TestCount,
		&run.Split.Ratio,
		&run.Split.Seed,
		&run.Params.LearningRate,
		&run.Params.Epochs,
		&run.Params.WordNgrams,
		&run.Params.Dim,
		&run.Params.MinCount,
		&run.StartedAt,
		&finishedAt,
		&sampleCount,
		&precision,
		&recall,
	)
	if err != nil {
		return nil, err
	}

	run.Status = model.RunStatus(status)
	run.Error = errMsg.String
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	if sampleCount.Valid {
		run.Evaluation = &model.Evaluation{
			SampleCount: int(sampleCount.Int64),
			Precision:   precision.Float64,
			Recall:      recall.Float64,
		}
	}
	return &run, nil
}

func expectOneRow(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", common.ErrNotFound, what)
	}
	return nil
}
