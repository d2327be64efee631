package models

import "time"

// Turn senders.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Turn is one logged conversation message, user or model, ordered by
// timestamp only.
type Turn struct {
	UserID    int64     `json:"user_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"message_text"`
	Timestamp time.Time `json:"timestamp"`
}
