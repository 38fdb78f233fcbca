package models

import "time"

// Mode is the system-wide throttle on new-material admission
type Mode string

const (
	ModeNormal        Mode = "NORMAL"
	ModeConsolidation Mode = "CONSOLIDATION"
	ModeCatchUp       Mode = "CATCH_UP"
)

// Default debt-ratio thresholds (percent of the daily budget)
const (
	DefaultConsolidationThresholdPct = 25.0
	DefaultCatchUpThresholdPct       = 50.0
)

// Default per-item duration estimates used before any session data exists
const (
	DefaultAvgReviewSeconds = 45
	DefaultAvgNewSeconds    = 120
	DefaultAvgLinkSeconds   = 35
)

// UserProfile holds the scheduling settings and learned estimates for a user
type UserProfile struct {
	UserID                    int64      `json:"user_id" db:"user_id"`
	DailyMinutes              int        `json:"daily_minutes" db:"daily_minutes"`
	ActiveSurahNumber         int        `json:"active_surah_number" db:"active_surah_number"`
	CursorAyahID              int        `json:"cursor_ayah_id" db:"cursor_ayah_id"`
	Mode                      Mode       `json:"mode" db:"mode"` // Last computed mode, persisted for display
	AvgReviewSeconds          int        `json:"avg_review_seconds" db:"avg_review_seconds"`
	AvgNewSeconds             int        `json:"avg_new_seconds" db:"avg_new_seconds"`
	AvgLinkSeconds            int        `json:"avg_link_seconds" db:"avg_link_seconds"`
	ReviewFloorPct            float64    `json:"review_floor_pct" db:"review_floor_pct"`
	ConsolidationThresholdPct float64    `json:"consolidation_threshold_pct" db:"consolidation_threshold_pct"`
	CatchUpThresholdPct       float64    `json:"catch_up_threshold_pct" db:"catch_up_threshold_pct"`
	Timezone                  string     `json:"timezone" db:"timezone"` // IANA name, e.g. "Asia/Karachi"
	RebalanceUntil            *time.Time `json:"rebalance_until" db:"rebalance_until"`
	OnboardingCompletedAt     *time.Time `json:"onboarding_completed_at" db:"onboarding_completed_at"`
	LastCompletedLocalDate    string     `json:"last_completed_local_date" db:"last_completed_local_date"` // "2006-01-02" in the user's timezone
	NotificationEnabled       bool       `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour          int        `json:"notification_hour" db:"notification_hour"`
	CreatedAt                 time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at" db:"updated_at"`
}

// Location resolves the profile timezone, falling back to UTC
func (p *UserProfile) Location() *time.Location {
	if p.Timezone != "" {
		if loc, err := time.LoadLocation(p.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}
