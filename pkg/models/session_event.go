package models

import "time"

// Stage names the practice category an event belongs to
type Stage string

const (
	StageWarmup     Stage = "warmup"
	StageWeeklyTest Stage = "weekly_test"
	StageReview     Stage = "review"
	StageLinkRepair Stage = "link_repair"
	StageNew        Stage = "new"
)

// IsRecall reports whether the stage counts toward the retention estimate
func (s Stage) IsRecall() bool {
	switch s {
	case StageWarmup, StageWeeklyTest, StageReview, StageLinkRepair, StageNew:
		return true
	}
	return false
}

// SessionEvent is a single graded attempt reported by the session layer
type SessionEvent struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Stage       Stage     `json:"stage" db:"stage"`
	Phase       string    `json:"phase" db:"phase"` // e.g. "recite", "blind"
	AyahID      int       `json:"ayah_id" db:"ayah_id"`
	ToAyahID    int       `json:"to_ayah_id" db:"to_ayah_id"` // Set for link_repair events
	Grade       Grade     `json:"grade" db:"grade"`
	DurationSec int       `json:"duration_sec" db:"duration_sec"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
