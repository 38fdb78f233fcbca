package database

import (
	"fmt"
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// EventRepository handles database operations for the session event log
type EventRepository struct{}

// NewEventRepository creates a new repository instance
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Create appends a single graded attempt to the event log
func (r *EventRepository) Create(event *models.SessionEvent) error {
	if Type() == "sqlite" {
		result, err := DB.Exec(`
			INSERT INTO session_events (user_id, stage, phase, ayah_id, to_ayah_id, grade, duration_sec, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, event.UserID, event.Stage, event.Phase, event.AyahID, event.ToAyahID, event.Grade, event.DurationSec, event.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert session event: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		event.ID = id
		return nil
	}

	return DB.QueryRow(`
		INSERT INTO session_events (user_id, stage, phase, ayah_id, to_ayah_id, grade, duration_sec, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, event.UserID, event.Stage, event.Phase, event.AyahID, event.ToAyahID, event.Grade, event.DurationSec, event.CreatedAt).Scan(&event.ID)
}

// CreateAll appends a batch of events
func (r *EventRepository) CreateAll(events []models.SessionEvent) error {
	for i := range events {
		if err := r.Create(&events[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetRecentForUser returns events created at or after the cutoff,
// oldest first
func (r *EventRepository) GetRecentForUser(userID int64, since time.Time) ([]models.SessionEvent, error) {
	var events []models.SessionEvent
	err := DB.Select(&events, `
		SELECT * FROM session_events
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent session events: %v", err)
	}
	return events, nil
}

// GetStageAyahIDs returns the distinct ayah ids graded in a stage
// within [from, to), in first-seen order
func (r *EventRepository) GetStageAyahIDs(userID int64, stage models.Stage, from, to time.Time) ([]int, error) {
	var ids []int
	err := DB.Select(&ids, `
		SELECT ayah_id FROM session_events
		WHERE user_id = $1 AND stage = $2 AND created_at >= $3 AND created_at < $4
		GROUP BY ayah_id
		ORDER BY MIN(created_at) ASC
	`, userID, stage, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage ayah ids: %v", err)
	}
	return ids, nil
}
