package database

import (
	"database/sql"
	"fmt"

	"github.com/example/hifzbot/pkg/models"
)

// TransitionRepository handles database operations for ayah-seam
// transition tracking
type TransitionRepository struct{}

// NewTransitionRepository creates a new repository instance
func NewTransitionRepository() *TransitionRepository {
	return &TransitionRepository{}
}

// GetByUserAndPair returns the transition row for one seam, or nil
func (r *TransitionRepository) GetByUserAndPair(userID int64, fromAyahID, toAyahID int) (*models.WeakTransition, error) {
	var tr models.WeakTransition
	err := DB.Get(&tr, `
		SELECT * FROM weak_transitions
		WHERE user_id = $1 AND from_ayah_id = $2 AND to_ayah_id = $3
	`, userID, fromAyahID, toAyahID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weak transition: %v", err)
	}
	return &tr, nil
}

// GetAllForUser returns every tracked seam for a user
func (r *TransitionRepository) GetAllForUser(userID int64) ([]models.WeakTransition, error) {
	var transitions []models.WeakTransition
	err := DB.Select(&transitions, `
		SELECT * FROM weak_transitions
		WHERE user_id = $1
		ORDER BY from_ayah_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weak transitions: %v", err)
	}
	return transitions, nil
}

// CreateOrUpdate persists a transition row, creating it when a link
// drill first observes the pair
func (r *TransitionRepository) CreateOrUpdate(tr *models.WeakTransition) error {
	if Type() == "sqlite" {
		var existingID int64
		err := DB.QueryRow(`
			SELECT id FROM weak_transitions
			WHERE user_id = $1 AND from_ayah_id = $2 AND to_ayah_id = $3
		`, tr.UserID, tr.FromAyahID, tr.ToAyahID).Scan(&existingID)
		if err == nil {
			tr.ID = existingID
			_, err = DB.Exec(`
				UPDATE weak_transitions SET
					attempt_count = $1,
					success_count = $2,
					fail_count = $3,
					last_grade = $4,
					next_repair_at = $5,
					updated_at = CURRENT_TIMESTAMP
				WHERE id = $6
			`, tr.AttemptCount, tr.SuccessCount, tr.FailCount, tr.LastGrade, tr.NextRepairAt, tr.ID)
			if err != nil {
				return fmt.Errorf("failed to update weak transition: %v", err)
			}
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to look up weak transition: %v", err)
		}

		result, err := DB.Exec(`
			INSERT INTO weak_transitions (
				user_id, from_ayah_id, to_ayah_id,
				attempt_count, success_count, fail_count, last_grade, next_repair_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, tr.UserID, tr.FromAyahID, tr.ToAyahID, tr.AttemptCount, tr.SuccessCount, tr.FailCount, tr.LastGrade, tr.NextRepairAt)
		if err != nil {
			return fmt.Errorf("failed to insert weak transition: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		tr.ID = id
		return nil
	}

	return DB.QueryRow(`
		INSERT INTO weak_transitions (
			user_id, from_ayah_id, to_ayah_id,
			attempt_count, success_count, fail_count, last_grade, next_repair_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, from_ayah_id, to_ayah_id) DO UPDATE SET
			attempt_count = EXCLUDED.attempt_count,
			success_count = EXCLUDED.success_count,
			fail_count = EXCLUDED.fail_count,
			last_grade = EXCLUDED.last_grade,
			next_repair_at = EXCLUDED.next_repair_at,
			updated_at = NOW()
		RETURNING id
	`, tr.UserID, tr.FromAyahID, tr.ToAyahID, tr.AttemptCount, tr.SuccessCount, tr.FailCount, tr.LastGrade, tr.NextRepairAt).Scan(&tr.ID)
}
