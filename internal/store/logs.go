package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fitweek/fitweek/internal/plan"
)

// AddWorkoutLog appends one workout history entry for a user.
//
// Uses ON CONFLICT(id) DO NOTHING so a retried append of the same entry is
// idempotent; other constraint violations still fail visibly, which the
// engine relies on to keep the completion ledger and the store in step.
func (s *Store) AddWorkoutLog(ctx context.Context, username string, entry plan.WorkoutLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_logs (id, username, date, day_name, focus, calories_burned)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		entry.ID,
		username,
		entry.Date.UTC().Format(time.RFC3339Nano),
		entry.DayName,
		entry.Focus,
		entry.CaloriesBurned,
	)
	if err != nil {
		return fmt.Errorf("add workout log for %q: %w", username, err)
	}
	return nil
}

// GetWorkoutLogs returns a user's full workout history, most recent first.
// Ties on the timestamp break on rowid descending so the order is
// deterministic even for entries logged within the same instant.
//
// Returns an empty slice (not nil) when the user has no history.
func (s *Store) GetWorkoutLogs(ctx context.Context, username string) ([]plan.WorkoutLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, day_name, focus, calories_burned
		FROM workout_logs
		WHERE username = ?
		ORDER BY date DESC, rowid DESC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("query workout logs for %q: %w", username, err)
	}
	defer rows.Close()

	var entries []plan.WorkoutLogEntry
	for rows.Next() {
		entry, err := scanWorkoutLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout logs: %w", err)
	}

	// Return empty slice instead of nil
	if entries == nil {
		entries = []plan.WorkoutLogEntry{}
	}

	return entries, nil
}

// scanWorkoutLog scans one workout_logs row into an entry.
func scanWorkoutLog(rows *sql.Rows) (plan.WorkoutLogEntry, error) {
	var entry plan.WorkoutLogEntry
	var date string
	if err := rows.Scan(&entry.ID, &date, &entry.DayName, &entry.Focus, &entry.CaloriesBurned); err != nil {
		return plan.WorkoutLogEntry{}, fmt.Errorf("scan workout log: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return plan.WorkoutLogEntry{}, fmt.Errorf("scan workout log %s: parse date %q: %w", entry.ID, date, err)
	}
	entry.Date = parsed

	return entry, nil
}
