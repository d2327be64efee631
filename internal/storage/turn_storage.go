package storage

import (
	"context"
	"fmt"
	"time"

	"FouserBot/internal/models"
)

// LogTurn appends one message to the conversation history.
func (s *Store) LogTurn(ctx context.Context, userID int64, sender, text string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_history(user_id, sender, message_text, timestamp)
		VALUES(?, ?, ?, ?)`, userID, sender, text, now)
	if err != nil {
		return fmt.Errorf("storage: failed to log %s turn for user %d: %w", sender, userID, err)
	}
	return nil
}

// GetTurnsByUser returns up to limit logged turns for userID in timestamp
// order, oldest first. limit <= 0 means no limit.
func (s *Store) GetTurnsByUser(ctx context.Context, userID int64, limit int) ([]models.Turn, error) {
	query := `
		SELECT user_id, sender, message_text, timestamp
		FROM conversation_history
		WHERE user_id = ?
		ORDER BY timestamp`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to list turns for user %d: %w", userID, err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		var tsStr string
		if err := rows.Scan(&turn.UserID, &turn.Sender, &turn.Text, &tsStr); err != nil {
			return nil, fmt.Errorf("storage: failed to scan turn for user %d: %w", userID, err)
		}
		ts, err := time.Parse(timeLayout, tsStr)
		if err != nil {
			return nil, fmt.Errorf("storage: corrupt timestamp for user %d: %w", userID, err)
		}
		turn.Timestamp = ts
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
