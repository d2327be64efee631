package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"FouserBot/internal/models"
)

// GetProfile fetches the full profile row for userID, merging the
// well-known columns with the opaque pass-through fields.
func (s *Store) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, age, gender, height, weight, goal, extra_json
		FROM users
		WHERE user_id = ?`, userID)

	var name, gender, goal, extra sql.NullString
	var age sql.NullInt64
	var height, weight sql.NullFloat64

	if err := row.Scan(&name, &age, &gender, &height, &weight, &goal, &extra); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to read profile for user %d: %w", userID, err)
	}

	profile := models.Profile{}
	if extra.Valid && extra.String != "" {
		if err := json.Unmarshal([]byte(extra.String), &profile); err != nil {
			return nil, fmt.Errorf("storage: corrupt extra fields for user %d: %w", userID, err)
		}
	}
	// Numbers come back as float64 so a stored profile compares equal to a
	// freshly parsed one.
	if name.Valid {
		profile[models.FieldName] = name.String
	}
	if age.Valid {
		profile[models.FieldAge] = float64(age.Int64)
	}
	if gender.Valid {
		profile[models.FieldGender] = gender.String
	}
	if height.Valid {
		profile[models.FieldHeight] = height.Float64
	}
	if weight.Valid {
		profile[models.FieldWeight] = weight.Float64
	}
	if goal.Valid {
		profile[models.FieldGoal] = goal.String
	}
	return profile, nil
}

// UpsertProfile fully replaces the profile row for userID. The incoming
// profile is the complete row; absent fields become NULL.
func (s *Store) UpsertProfile(ctx context.Context, userID int64, profile models.Profile) error {
	return upsertProfile(ctx, s.db, userID, profile)
}

func upsertProfile(ctx context.Context, db dbtx, userID int64, profile models.Profile) error {
	extra := models.Profile{}
	known := map[string]bool{
		models.FieldName: true, models.FieldAge: true, models.FieldGender: true,
		models.FieldHeight: true, models.FieldWeight: true, models.FieldGoal: true,
	}
	for key, value := range profile {
		if !known[key] {
			extra[key] = value
		}
	}
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("storage: failed to encode extra fields for user %d: %w", userID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users(user_id, name, age, gender, height, weight, goal, extra_json)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			gender = excluded.gender,
			height = excluded.height,
			weight = excluded.weight,
			goal = excluded.goal,
			extra_json = excluded.extra_json`,
		userID,
		profile[models.FieldName],
		profile[models.FieldAge],
		profile[models.FieldGender],
		profile[models.FieldHeight],
		profile[models.FieldWeight],
		profile[models.FieldGoal],
		string(extraJSON),
	)
	if err != nil {
		return fmt.Errorf("storage: failed to upsert profile for user %d: %w", userID, err)
	}
	return nil
}
