package models

import "time"

// Plan is one versioned fitness plan. The active plan for a user is the
// single record whose EndTime is nil; superseded plans are closed by
// setting EndTime, never deleted.
type Plan struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	PlanText  string     `json:"plan_text"`
	Profile   Profile    `json:"profile_snapshot"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}
