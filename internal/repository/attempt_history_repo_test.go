package repository

import (
	"path/filepath"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"spellingbee/internal/config"
	"spellingbee/internal/database"
	"spellingbee/internal/models"
)

func newTestRepo(t *testing.T) *AttemptHistoryRepository {
	t.Helper()

	cfg := &config.Config{
		DatabaseType: "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Initialize(cfg)
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE practice_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			difficulty TEXT NOT NULL,
			attempted_at_ms BIGINT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return NewAttemptHistoryRepository(db, zap.NewNop())
}

func TestAppendAndLoadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	if got := repo.Load(); len(got) != 0 {
		t.Fatalf("Load() on empty table returned %d attempts", len(got))
	}

	first := models.PracticeAttempt{Word: "cat", Correct: true, Difficulty: models.DifficultyEasy, Timestamp: 100}
	second := models.PracticeAttempt{Word: "dog", Correct: false, Difficulty: models.DifficultyMedium, Timestamp: 200}

	repo.Append(first)
	got := repo.Append(second)

	if len(got) != 2 {
		t.Fatalf("Append returned %d attempts, want 2", len(got))
	}
	if got[0] != first || got[1] != second {
		t.Errorf("attempts = %+v, want [%+v %+v] in chronological order", got, first, second)
	}

	loaded := repo.Load()
	if len(loaded) != 2 || loaded[0] != first {
		t.Errorf("Load() = %+v, want the same history", loaded)
	}
}

func TestAppendEvictsOldestBeyondCap(t *testing.T) {
	repo := newTestRepo(t)

	var last []models.PracticeAttempt
	for i := 0; i < models.MaxHistoryEntries+1; i++ {
		last = repo.Append(models.PracticeAttempt{
			Word:       "word" + strconv.Itoa(i),
			Correct:    i%2 == 0,
			Difficulty: models.DifficultyEasy,
			Timestamp:  int64(i),
		})
	}

	if len(last) != models.MaxHistoryEntries {
		t.Fatalf("history length = %d, want %d", len(last), models.MaxHistoryEntries)
	}
	if last[0].Word != "word1" {
		t.Errorf("oldest surviving attempt = %s, want word1", last[0].Word)
	}
}

func TestAppendFailureReturnsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.db.Exec("DROP TABLE practice_attempts"); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	got := repo.Append(models.PracticeAttempt{Word: "cat", Difficulty: models.DifficultyEasy})
	if len(got) != 0 {
		t.Errorf("Append after losing the table returned %d attempts, want 0", len(got))
	}
	if got := repo.Load(); len(got) != 0 {
		t.Errorf("Load after losing the table returned %d attempts, want 0", len(got))
	}
}
