package models

import "time"

// Band partitions memorized material into review pools
type Band string

const (
	// BandEncoding marks material still being encoded (first days)
	BandEncoding Band = "ENCODING"
	// BandSabqi marks recently memorized material in frequent review
	BandSabqi Band = "SABQI"
	// BandManzil marks long-term material in infrequent review
	BandManzil Band = "MANZIL"
)

// AyahReview tracks a user's spaced-repetition state for a single ayah
type AyahReview struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"user_id" db:"user_id"`
	AyahID          int        `json:"ayah_id" db:"ayah_id"`
	Station         int        `json:"station" db:"station"`                   // Coarse tier 1-7
	CheckpointIndex int        `json:"checkpoint_index" db:"checkpoint_index"` // Fine-grained early-stage progress
	EaseFactor      float64    `json:"ease_factor" db:"ease_factor"`           // Clamped to [1.3, 3.0]
	Repetitions     int        `json:"repetitions" db:"repetitions"`           // Count of non-AGAIN grades
	Lapses          int        `json:"lapses" db:"lapses"`                     // Count of AGAIN grades
	Band            Band       `json:"band" db:"band"`
	LastGrade       Grade      `json:"last_grade" db:"last_grade"`
	LastDurationSec int        `json:"last_duration_sec" db:"last_duration_sec"`
	LastReviewAt    *time.Time `json:"last_review_at" db:"last_review_at"`
	NextReviewAt    time.Time  `json:"next_review_at" db:"next_review_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsSabqi reports whether the review belongs to the recent-review pool.
// The persisted band is authoritative when set; ephemeral states fall
// back to the station heuristic.
func (r *AyahReview) IsSabqi() bool {
	if r.Band != "" {
		return r.Band != BandManzil
	}
	return r.Station <= 3
}
