package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// AyahReviewRepository handles database operations for review states
type AyahReviewRepository struct{}

// NewAyahReviewRepository creates a new repository instance
func NewAyahReviewRepository() *AyahReviewRepository {
	return &AyahReviewRepository{}
}

// GetByUserAndAyah returns the review state for a specific user and ayah
func (r *AyahReviewRepository) GetByUserAndAyah(userID int64, ayahID int) (*models.AyahReview, error) {
	var review models.AyahReview
	err := DB.Get(&review, "SELECT * FROM ayah_reviews WHERE user_id = $1 AND ayah_id = $2", userID, ayahID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ayah review: %v", err)
	}
	return &review, nil
}

// GetAllForUser returns every review state a user has accumulated
func (r *AyahReviewRepository) GetAllForUser(userID int64) ([]models.AyahReview, error) {
	var reviews []models.AyahReview
	err := DB.Select(&reviews, "SELECT * FROM ayah_reviews WHERE user_id = $1 ORDER BY ayah_id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ayah reviews: %v", err)
	}
	return reviews, nil
}

// GetDueForUser returns review states due at the given instant,
// earliest first
func (r *AyahReviewRepository) GetDueForUser(userID int64, now time.Time) ([]models.AyahReview, error) {
	var reviews []models.AyahReview
	err := DB.Select(&reviews, `
		SELECT * FROM ayah_reviews
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, ayah_id ASC
	`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due ayah reviews: %v", err)
	}
	return reviews, nil
}

// CreateOrUpdate persists a review state, inserting on first grade and
// updating afterwards
func (r *AyahReviewRepository) CreateOrUpdate(review *models.AyahReview) error {
	if Type() == "sqlite" {
		// SQLite doesn't support ON CONFLICT together with RETURNING here,
		// so check for an existing row first.
		var existingID int64
		err := DB.QueryRow("SELECT id FROM ayah_reviews WHERE user_id = $1 AND ayah_id = $2",
			review.UserID, review.AyahID).Scan(&existingID)
		if err == nil {
			review.ID = existingID
			return r.update(review)
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to look up ayah review: %v", err)
		}

		result, err := DB.Exec(`
			INSERT INTO ayah_reviews (
				user_id, ayah_id, station, checkpoint_index, ease_factor,
				repetitions, lapses, band, last_grade, last_duration_sec,
				last_review_at, next_review_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			review.UserID, review.AyahID, review.Station, review.CheckpointIndex, review.EaseFactor,
			review.Repetitions, review.Lapses, review.Band, review.LastGrade, review.LastDurationSec,
			review.LastReviewAt, review.NextReviewAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ayah review: %v", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		review.ID = id
		return nil
	}

	// PostgreSQL supports ON CONFLICT with RETURNING
	return DB.QueryRow(`
		INSERT INTO ayah_reviews (
			user_id, ayah_id, station, checkpoint_index, ease_factor,
			repetitions, lapses, band, last_grade, last_duration_sec,
			last_review_at, next_review_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, ayah_id) DO UPDATE SET
			station = EXCLUDED.station,
			checkpoint_index = EXCLUDED.checkpoint_index,
			ease_factor = EXCLUDED.ease_factor,
			repetitions = EXCLUDED.repetitions,
			lapses = EXCLUDED.lapses,
			band = EXCLUDED.band,
			last_grade = EXCLUDED.last_grade,
			last_duration_sec = EXCLUDED.last_duration_sec,
			last_review_at = EXCLUDED.last_review_at,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = NOW()
		RETURNING id
	`,
		review.UserID, review.AyahID, review.Station, review.CheckpointIndex, review.EaseFactor,
		review.Repetitions, review.Lapses, review.Band, review.LastGrade, review.LastDurationSec,
		review.LastReviewAt, review.NextReviewAt,
	).Scan(&review.ID)
}

func (r *AyahReviewRepository) update(review *models.AyahReview) error {
	_, err := DB.Exec(`
		UPDATE ayah_reviews SET
			station = $1,
			checkpoint_index = $2,
			ease_factor = $3,
			repetitions = $4,
			lapses = $5,
			band = $6,
			last_grade = $7,
			last_duration_sec = $8,
			last_review_at = $9,
			next_review_at = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $11
	`,
		review.Station, review.CheckpointIndex, review.EaseFactor,
		review.Repetitions, review.Lapses, review.Band, review.LastGrade,
		review.LastDurationSec, review.LastReviewAt, review.NextReviewAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ayah review: %v", err)
	}
	return nil
}

// CountDueForUser returns the number of reviews due at the given instant
func (r *AyahReviewRepository) CountDueForUser(userID int64, now time.Time) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM ayah_reviews WHERE user_id = $1 AND next_review_at <= $2", userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due ayah reviews: %v", err)
	}
	return count, nil
}
