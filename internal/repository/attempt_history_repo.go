package repository

import (
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"spellingbee/internal/database"
	"spellingbee/internal/models"
)

// AttemptHistoryRepository persists practice attempts. It satisfies the
// practice.HistoryStore contract: failures are logged and signalled by an
// empty return, never raised to the session state machine.
type AttemptHistoryRepository struct {
	db  *database.DB
	log *zap.Logger
}

// NewAttemptHistoryRepository creates a new attempt history repository
func NewAttemptHistoryRepository(db *database.DB, log *zap.Logger) *AttemptHistoryRepository {
	return &AttemptHistoryRepository{db: db, log: log}
}

// Load returns the persisted attempt history, oldest first, capped at
// models.MaxHistoryEntries. An empty slice is returned on failure.
func (r *AttemptHistoryRepository) Load() []models.PracticeAttempt {
	attempts, err := r.loadNewest(models.MaxHistoryEntries)
	if err != nil {
		r.log.Warn("unable to load practice history", zap.Error(err))
		return nil
	}
	return attempts
}

// Append inserts an attempt, evicts rows beyond the cap and returns the new
// canonical history. On failure it returns an empty slice so the caller
// falls back to in-memory tracking.
func (r *AttemptHistoryRepository) Append(attempt models.PracticeAttempt) []models.PracticeAttempt {
	query := `
		INSERT INTO practice_attempts (word, is_correct, difficulty, attempted_at_ms)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, attempt.Word, attempt.Correct, string(attempt.Difficulty), attempt.Timestamp)
	if err != nil {
		r.log.Warn("unable to persist practice attempt",
			zap.String("word", attempt.Word), zap.Error(err))
		return nil
	}

	if err := r.trim(models.MaxHistoryEntries); err != nil {
		r.log.Warn("unable to trim practice history", zap.Error(err))
		return nil
	}

	attempts, err := r.loadNewest(models.MaxHistoryEntries)
	if err != nil {
		r.log.Warn("unable to reload practice history", zap.Error(err))
		return nil
	}
	return attempts
}

// loadNewest fetches the newest limit attempts and returns them oldest first.
func (r *AttemptHistoryRepository) loadNewest(limit int) ([]models.PracticeAttempt, error) {
	query := `
		SELECT word, is_correct, difficulty, attempted_at_ms
		FROM practice_attempts
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.PracticeAttempt
	for rows.Next() {
		var attempt models.PracticeAttempt
		var difficulty string
		if err := rows.Scan(&attempt.Word, &attempt.Correct, &difficulty, &attempt.Timestamp); err != nil {
			return nil, err
		}
		attempt.Difficulty = models.Difficulty(difficulty)
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(attempts)-1; i < j; i, j = i+1, j-1 {
		attempts[i], attempts[j] = attempts[j], attempts[i]
	}
	return attempts, nil
}

// trim deletes rows older than the newest keep entries. The cutoff is read
// separately so the DELETE stays portable across all three dialects.
func (r *AttemptHistoryRepository) trim(keep int) error {
	var cutoff int64
	query := `
		SELECT id FROM practice_attempts
		ORDER BY id DESC
		LIMIT 1 OFFSET ?
	`

	err := r.db.QueryRow(query, keep-1).Scan(&cutoff)
	if errors.Is(err, sql.ErrNoRows) {
		// Fewer rows than the cap; nothing to evict.
		return nil
	}
	if err != nil {
		return err
	}

	_, err = r.db.Exec("DELETE FROM practice_attempts WHERE id < ?", cutoff)
	return err
}
