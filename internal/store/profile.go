package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fitweek/fitweek/internal/plan"
)

// GetProfile returns the persisted state for a user, or nil when the user
// has never been saved. Both JSON columns are decoded into fresh values;
// callers own the result outright.
func (s *Store) GetProfile(ctx context.Context, username string) (*plan.UserState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_data, workout_plan
		FROM profiles
		WHERE username = ?
	`, username)

	var userDataJSON string
	var planJSON sql.NullString
	if err := row.Scan(&userDataJSON, &planJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile %q: %w", username, err)
	}

	state := &plan.UserState{Username: username}
	if err := json.Unmarshal([]byte(userDataJSON), &state.UserData); err != nil {
		return nil, fmt.Errorf("get profile %q: decode user data: %w", username, err)
	}
	if planJSON.Valid {
		var wp plan.WeekPlan
		if err := json.Unmarshal([]byte(planJSON.String), &wp); err != nil {
			return nil, fmt.Errorf("get profile %q: decode workout plan: %w", username, err)
		}
		state.WorkoutPlan = &wp
	}

	return state, nil
}

// SaveProfile upserts the full state for a user.
// Overwrite semantics: the stored record always reflects exactly the given
// state, there is no partial update. A nil WorkoutPlan clears the plan
// column.
func (s *Store) SaveProfile(ctx context.Context, state plan.UserState) error {
	userDataJSON, err := json.Marshal(state.UserData)
	if err != nil {
		return fmt.Errorf("save profile %q: encode user data: %w", state.Username, err)
	}

	var planJSON any // NULL when the user has no plan
	if state.WorkoutPlan != nil {
		data, err := json.Marshal(state.WorkoutPlan)
		if err != nil {
			return fmt.Errorf("save profile %q: encode workout plan: %w", state.Username, err)
		}
		planJSON = string(data)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (username, user_data, workout_plan, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			user_data    = excluded.user_data,
			workout_plan = excluded.workout_plan,
			updated_at   = excluded.updated_at
	`,
		state.Username,
		string(userDataJSON),
		planJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save profile %q: %w", state.Username, err)
	}

	return nil
}
