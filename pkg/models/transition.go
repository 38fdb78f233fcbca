package models

import "time"

// WeakTransition tracks the seam between two adjacent memorized ayahs
type WeakTransition struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	FromAyahID   int        `json:"from_ayah_id" db:"from_ayah_id"`
	ToAyahID     int        `json:"to_ayah_id" db:"to_ayah_id"`
	AttemptCount int        `json:"attempt_count" db:"attempt_count"`
	SuccessCount int        `json:"success_count" db:"success_count"`
	FailCount    int        `json:"fail_count" db:"fail_count"`
	LastGrade    Grade      `json:"last_grade" db:"last_grade"`
	NextRepairAt *time.Time `json:"next_repair_at" db:"next_repair_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsWeak reports whether the seam has enough evidence of a poor success rate
func (t *WeakTransition) IsWeak() bool {
	if t.AttemptCount < 3 {
		return false
	}
	return float64(t.SuccessCount)/float64(t.AttemptCount) < 0.7
}
