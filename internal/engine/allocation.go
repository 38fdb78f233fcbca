package engine

import (
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// weekOneSpan is the early-tenure window after onboarding during which
// new learners get extra new-material runway.
const weekOneSpan = 7 * 24 * time.Hour

// FloorInputs parameterize the review allocation policy
type FloorInputs struct {
	Mode               models.Mode
	WeekOne            bool
	HasReviewPool      bool
	UserReviewFloorPct float64
	DebtRatioPct       float64
}

// ResolveReviewFloorPct decides what share of the daily time budget is
// reserved for review before any new material is funded.
func ResolveReviewFloorPct(in FloorInputs) float64 {
	if !in.HasReviewPool {
		return 0
	}
	switch in.Mode {
	case models.ModeCatchUp:
		return 100
	case models.ModeConsolidation:
		switch {
		case in.DebtRatioPct < 30:
			return 80
		case in.DebtRatioPct < 40:
			return 90
		default:
			return 100
		}
	}
	if in.WeekOne {
		return 30
	}
	if in.UserReviewFloorPct > 60 {
		return in.UserReviewFloorPct
	}
	return 60
}

// IsWeekOne reports whether onboarding finished less than seven days
// ago. Incomplete onboarding is never week one.
func IsWeekOne(onboardingCompletedAt *time.Time, now time.Time) bool {
	if onboardingCompletedAt == nil {
		return false
	}
	return now.Sub(*onboardingCompletedAt) < weekOneSpan
}
