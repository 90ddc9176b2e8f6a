package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/critiq/internal/common"
	"github.com/Veraticus/critiq/internal/model"
	"github.com/Veraticus/critiq/internal/report"
	"github.com/Veraticus/critiq/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent training runs and their evaluation",
		Long: `List recent training runs, newest first, with their evaluation.
With --run, show a single run's settings and the predictions made with it.`,
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 10, "number of runs to show (0 for all)")
	cmd.Flags().String("run", "", "show one run with its predictions")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")

	cfg, err := loadConfig(cmd, "")
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return common.NewUserError("run history is disabled (history.enabled is false)", nil)
	}

	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if runID != "" {
		run, err := findRun(cmd.Context(), store, runID)
		if err != nil {
			return err
		}
		preds, err := store.GetPredictions(cmd.Context(), run.ID)
		if err != nil {
			return fmt.Errorf("failed to get predictions: %w", err)
		}
		return report.RunDetail(cmd.OutOrStdout(), run, preds)
	}

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	return report.History(cmd.OutOrStdout(), runs)
}

// findRun resolves a full run ID or the short prefix shown by the list.
func findRun(ctx context.Context, store service.Storage, id string) (*model.Run, error) {
	run, err := store.GetRun(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var match *model.Run
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, common.NewUserError(fmt.Sprintf("run prefix %q is ambiguous", id), nil)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, common.NewUserError(fmt.Sprintf("no run matches %q", id), common.ErrNotFound)
	}
	return match, nil
}
