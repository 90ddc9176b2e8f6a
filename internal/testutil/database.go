// Package testutil provides shared fixtures for critiq tests: a migrated
// history database and labeled dataset files.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/critiq/internal/model"
	"github.com/Veraticus/critiq/internal/storage"
)

// TwoCritiques is the smallest dataset with both labels.
const TwoCritiques = "negative\tC'est une arnaque\npositive\tJ'adore ce produit\n"

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory history database. It automatically
// handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedRun records a finished run with an optional evaluation and returns it.
func (db *TestDB) SeedRun(status model.RunStatus, ev *model.Evaluation) *model.Run {
	db.t.Helper()
	ctx := context.Background()

	run := &model.Run{
		InputPath:   "data/critiques.txt",
		TrainPath:   "data/train.txt",
		TestPath:    "data/test.txt",
		ModelPath:   "model/sentiment_model.bin",
		Split:       model.DefaultSplitConfig(),
		Params:      model.DefaultTrainingParams(),
		RecordCount: 10,
		TrainCount:  8,
		TestCount:   2,
	}
	if err := db.Storage.CreateRun(ctx, run); err != nil {
		db.t.Fatalf("failed to seed run: %v", err)
	}
	if ev != nil {
		if err := db.Storage.SaveEvaluation(ctx, run.ID, *ev); err != nil {
			db.t.Fatalf("failed to seed evaluation: %v", err)
		}
	}
	if status != model.RunStatusRunning {
		if err := db.Storage.FinishRun(ctx, run.ID, status, nil); err != nil {
			db.t.Fatalf("failed to finish run: %v", err)
		}
	}

	stored, err := db.Storage.GetRun(ctx, run.ID)
	if err != nil {
		db.t.Fatalf("failed to reload run: %v", err)
	}
	return stored
}

// WriteDataset writes lines as a labeled dataset file in a temp directory
// and returns its path.
func WriteDataset(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "critiques.txt")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}
