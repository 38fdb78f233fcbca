package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct{}

// NewProfileRepository creates a new repository instance
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// GetByUserID returns the profile for a user, or nil if none exists yet
func (r *ProfileRepository) GetByUserID(userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := DB.Get(&profile, "SELECT * FROM user_profiles WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %v", err)
	}
	return &profile, nil
}

// Create inserts a new profile with engine defaults
func (r *ProfileRepository) Create(profile *models.UserProfile) error {
	if profile.DailyMinutes <= 0 {
		profile.DailyMinutes = 30
	}
	if profile.ActiveSurahNumber <= 0 {
		profile.ActiveSurahNumber = 1
	}
	if profile.Mode == "" {
		profile.Mode = models.ModeNormal
	}
	if profile.Timezone == "" {
		profile.Timezone = "UTC"
	}
	if profile.ReviewFloorPct <= 0 {
		profile.ReviewFloorPct = 60
	}
	if profile.ConsolidationThresholdPct <= 0 {
		profile.ConsolidationThresholdPct = models.DefaultConsolidationThresholdPct
	}
	if profile.CatchUpThresholdPct <= 0 {
		profile.CatchUpThresholdPct = models.DefaultCatchUpThresholdPct
	}

	_, err := DB.Exec(`
		INSERT INTO user_profiles (
			user_id, daily_minutes, active_surah_number, cursor_ayah_id, mode,
			avg_review_seconds, avg_new_seconds, avg_link_seconds,
			review_floor_pct, consolidation_threshold_pct, catch_up_threshold_pct,
			timezone, rebalance_until, onboarding_completed_at,
			last_completed_local_date, notification_enabled, notification_hour
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		profile.UserID, profile.DailyMinutes, profile.ActiveSurahNumber, profile.CursorAyahID, profile.Mode,
		profile.AvgReviewSeconds, profile.AvgNewSeconds, profile.AvgLinkSeconds,
		profile.ReviewFloorPct, profile.ConsolidationThresholdPct, profile.CatchUpThresholdPct,
		profile.Timezone, profile.RebalanceUntil, profile.OnboardingCompletedAt,
		profile.LastCompletedLocalDate, profile.NotificationEnabled, profile.NotificationHour,
	)
	if err != nil {
		return fmt.Errorf("failed to create user profile: %v", err)
	}
	return nil
}

// Update persists the full profile snapshot
func (r *ProfileRepository) Update(profile *models.UserProfile) error {
	_, err := DB.Exec(`
		UPDATE user_profiles SET
			daily_minutes = $1,
			active_surah_number = $2,
			cursor_ayah_id = $3,
			mode = $4,
			avg_review_seconds = $5,
			avg_new_seconds = $6,
			avg_link_seconds = $7,
			review_floor_pct = $8,
			consolidation_threshold_pct = $9,
			catch_up_threshold_pct = $10,
			timezone = $11,
			rebalance_until = $12,
			onboarding_completed_at = $13,
			last_completed_local_date = $14,
			notification_enabled = $15,
			notification_hour = $16,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $17
	`,
		profile.DailyMinutes, profile.ActiveSurahNumber, profile.CursorAyahID, profile.Mode,
		profile.AvgReviewSeconds, profile.AvgNewSeconds, profile.AvgLinkSeconds,
		profile.ReviewFloorPct, profile.ConsolidationThresholdPct, profile.CatchUpThresholdPct,
		profile.Timezone, profile.RebalanceUntil, profile.OnboardingCompletedAt,
		profile.LastCompletedLocalDate, profile.NotificationEnabled, profile.NotificationHour,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %v", err)
	}
	return nil
}

// GetAllActive returns profiles with notifications enabled
func (r *ProfileRepository) GetAllActive() ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := DB.Select(&profiles, "SELECT * FROM user_profiles WHERE notification_enabled = true")
	if err != nil {
		return nil, fmt.Errorf("failed to get active profiles: %v", err)
	}
	return profiles, nil
}

// GetUsersForNotification returns profiles whose notification hour
// matches the given hour
func (r *ProfileRepository) GetUsersForNotification(hour int) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := DB.Select(&profiles, `
		SELECT * FROM user_profiles
		WHERE notification_enabled = true AND notification_hour = $1
	`, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles for notification: %v", err)
	}
	return profiles, nil
}

// ApplyRebalance opens a rebalance window and raises the review floor
// for one user
func (r *ProfileRepository) ApplyRebalance(userID int64, until time.Time, floorPct float64) error {
	_, err := DB.Exec(`
		UPDATE user_profiles SET
			rebalance_until = $1,
			review_floor_pct = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $3
	`, until, floorPct, userID)
	if err != nil {
		return fmt.Errorf("failed to apply rebalance: %v", err)
	}
	return nil
}
