package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// Weekly sample bounds: at least a handful of items, never more than a
// session can realistically absorb.
const (
	weeklySampleMin     = 3
	weeklySampleCeiling = 20
	weeklySampleShare   = 0.2 // share of the daily budget the test may claim
)

// Monthly audit trigger thresholds
const (
	monthlyDebtRatioPct = 60.0
	monthlyRetentionMin = 1.6
)

// Rebalance patch values applied when the monthly audit fails
const (
	rebalanceWindow   = 14 * 24 * time.Hour
	rebalanceFloorPct = 80.0
)

// MonthlyOutcome is the terminal result of one monthly audit evaluation
type MonthlyOutcome string

const (
	MonthlyFail       MonthlyOutcome = "FAIL"
	MonthlyRebalanced MonthlyOutcome = "REBALANCED"
)

// IsWarmupGatePassed checks yesterday's new material recited today:
// the mean grade score must reach GOOD and at most one AGAIN is
// tolerated. An empty warm-up set passes vacuously.
func IsWarmupGatePassed(grades []models.Grade) bool {
	if len(grades) == 0 {
		return true
	}
	sum, agains := 0, 0
	for _, g := range grades {
		sum += g.Score()
		if g == models.GradeAgain {
			agains++
		}
	}
	avg := float64(sum) / float64(len(grades))
	return avg >= 2.0 && agains <= 1
}

// WeeklySampleInputs parameterize the weekly consolidation sample
type WeeklySampleInputs struct {
	DailyMinutes     int
	AvgReviewSeconds int
	SabqiPoolSize    int
}

// WeeklyGateSampleSize targets a time-budget-proportional sample from
// the recent-review pool: roughly 20% of the budget at the learned
// per-review pace, clamped to [3, 20] and never larger than the pool.
func WeeklyGateSampleSize(in WeeklySampleInputs) int {
	if in.SabqiPoolSize <= 0 {
		return 0
	}
	avg := effectiveSeconds(in.AvgReviewSeconds, models.DefaultAvgReviewSeconds)
	budgetSec := float64(in.DailyMinutes * 60)
	size := int(math.Ceil(budgetSec * weeklySampleShare / float64(avg)))
	if size > weeklySampleCeiling {
		size = weeklySampleCeiling
	}
	if size < weeklySampleMin {
		size = weeklySampleMin
	}
	if size > in.SabqiPoolSize {
		size = in.SabqiPoolSize
	}
	return size
}

// SampleAyahIDs draws n ids from the pool without replacement. The
// generator is seeded from the caller's clock so one logical "today"
// computation is reproducible.
func SampleAyahIDs(pool []int, n int, seed int64) []int {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := make([]int, len(pool))
	copy(shuffled, pool)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// ShouldForceMonthlyTest reports whether the monthly audit must force a
// larger test and a temporary rebalance.
func ShouldForceMonthlyTest(debtRatioPct, retention3dAvg float64) bool {
	return debtRatioPct >= monthlyDebtRatioPct || retention3dAvg < monthlyRetentionMin
}

// RebalancePatch is the profile change applied by a failed monthly audit
type RebalancePatch struct {
	RebalanceUntil time.Time
	ReviewFloorPct float64
}

// ModerateRebalancePatch opens a 14-day window during which the review
// floor is held at 80% regardless of the normally-resolved floor.
func ModerateRebalancePatch(now time.Time) RebalancePatch {
	return RebalancePatch{
		RebalanceUntil: now.Add(rebalanceWindow),
		ReviewFloorPct: rebalanceFloorPct,
	}
}

// MonthlyGateOutcome maps a forced audit to FAIL, otherwise REBALANCED
func MonthlyGateOutcome(forced bool) MonthlyOutcome {
	if forced {
		return MonthlyFail
	}
	return MonthlyRebalanced
}
