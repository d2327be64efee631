package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"FouserBot/internal/models"
)

// GetActivePlan returns the plan for userID whose end_time is NULL. Should
// the invariant ever be violated and more than one such row exist, the one
// with the latest start_time wins.
func (s *Store) GetActivePlan(ctx context.Context, userID int64) (*models.Plan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, plan_text, profile_json, start_time, end_time
		FROM plan_history
		WHERE user_id = ? AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`, userID)

	plan, err := scanPlan(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to read active plan for user %d: %w", userID, err)
	}
	return plan, nil
}

// GetPlansByUser returns the full plan history for userID, newest first.
func (s *Store) GetPlansByUser(ctx context.Context, userID int64) ([]models.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, plan_text, profile_json, start_time, end_time
		FROM plan_history
		WHERE user_id = ?
		ORDER BY start_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to list plans for user %d: %w", userID, err)
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("storage: failed to scan plan for user %d: %w", userID, err)
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// SaveNewPlan runs the plan-versioning pipeline in a single transaction:
// fully replace the profile, close the currently active plan by stamping
// its end_time, then open the new plan with the same timestamp. A failed
// profile write aborts before the history is touched.
func (s *Store) SaveNewPlan(ctx context.Context, userID int64, profile models.Profile, planText string) error {
	now := time.Now().UTC().Format(timeLayout)

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("storage: failed to encode profile snapshot for user %d: %w", userID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: failed to begin transaction for user %d: %w", userID, err)
	}
	defer tx.Rollback()

	if err := upsertProfile(ctx, tx, userID, profile); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE plan_history SET end_time = ?
		WHERE user_id = ? AND end_time IS NULL`, now, userID); err != nil {
		return fmt.Errorf("storage: failed to close active plan for user %d: %w", userID, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO plan_history(user_id, plan_text, profile_json, start_time, end_time)
		VALUES(?, ?, ?, ?, NULL)`, userID, planText, string(profileJSON), now); err != nil {
		return fmt.Errorf("storage: failed to insert new plan for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: failed to commit new plan for user %d: %w", userID, err)
	}
	return nil
}

// scanPlan decodes one plan_history row from either a *sql.Row or *sql.Rows.
func scanPlan(scan func(dest ...any) error) (*models.Plan, error) {
	var plan models.Plan
	var profileJSON, startStr string
	var endStr sql.NullString

	if err := scan(&plan.ID, &plan.UserID, &plan.PlanText, &profileJSON, &startStr, &endStr); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(profileJSON), &plan.Profile); err != nil {
		return nil, fmt.Errorf("corrupt profile snapshot: %w", err)
	}
	start, err := time.Parse(timeLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt start_time: %w", err)
	}
	plan.StartTime = start
	if endStr.Valid {
		end, err := time.Parse(timeLayout, endStr.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt end_time: %w", err)
		}
		plan.EndTime = &end
	}
	return &plan, nil
}
