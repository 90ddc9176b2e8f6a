package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
)

// WriteFile writes one formatted line per record. A partially written file
// is removed on failure.
func WriteFile(path string, records []model.Record) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if mkErr := os.MkdirAll(dir, 0750); mkErr != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, mkErr)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	for i, r := range records {
		line, fmtErr := FormatLine(r)
		if fmtErr != nil {
			var fe *FormatError
			if errors.As(fmtErr, &fe) {
				fe.Path = path
				fe.Line = i + 1
			}
			return fmtErr
		}
		if _, err = w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// PrepareResult is the outcome of Prepare.
type PrepareResult struct {
	Dataset *model.Dataset
	Split   model.Split
}

// Prepare loads the input file, splits it and writes the train and test files.
func Prepare(ctx context.Context, input, trainPath, testPath string, cfg model.SplitConfig) (*PrepareResult, error) {
	ds, err := Load(ctx, input)
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyDataset, input)
	}

	split, err := Split(ds, cfg)
	if err != nil {
		return nil, err
	}

	if err := WriteFile(trainPath, split.Train); err != nil {
		return nil, err
	}
	if err := WriteFile(testPath, split.Test); err != nil {
		// A train file without its matching test file is worse than none.
		if rmErr := os.Remove(trainPath); rmErr != nil {
			slog.Warn("Failed to remove training file", "path", trainPath, "error", rmErr)
		}
		return nil, err
	}

	slog.Info("Prepared training files",
		"records", ds.Len(),
		"train", len(split.Train),
		"test", len(split.Test),
		"train_path", trainPath,
		"test_path", testPath)

	return &PrepareResult{Dataset: ds, Split: split}, nil
}
