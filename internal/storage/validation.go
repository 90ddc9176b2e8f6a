package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/critiq/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run")
	ErrInvalidValue = errors.New("invalid value")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun validates a run before it is recorded.
func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.InputPath == "" {
		return fmt.Errorf("%w: missing input path", ErrInvalidRun)
	}
	if run.ModelPath == "" {
		return fmt.Errorf("%w: missing model path", ErrInvalidRun)
	}
	if run.RecordCount < 0 || run.TrainCount < 0 || run.TestCount < 0 {
		return fmt.Errorf("%w: negative record counts", ErrInvalidRun)
	}
	return nil
}

// validateStatus ensures a run is finished with a terminal status.
func validateStatus(status model.RunStatus) error {
	switch status {
	case model.RunStatusSucceeded, model.RunStatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: run status %q", ErrInvalidValue, status)
	}
}

// validateUnitInterval ensures a score lies in [0,1].
func validateUnitInterval(v float64, paramName string) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be between 0 and 1, got %g", ErrInvalidValue, paramName, v)
	}
	return nil
}
