package engine

import (
	"math"
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// retentionWindow is the trailing span used for the rolling retention
// estimate.
const retentionWindow = 72 * time.Hour

// defaultRetention is assumed when no recall events exist, so a brand
// new account starts in NORMAL.
const defaultRetention = 2.0

// ModeInputs are the signals the mode controller evaluates
type ModeInputs struct {
	DebtRatioPct              float64
	MissedDays                int
	Retention3dAvg            float64
	ConsolidationThresholdPct float64
	CatchUpThresholdPct       float64
}

// ResolveMode runs the 3-state controller. Evaluation order matters:
// catch-up conditions are checked before consolidation ones.
func ResolveMode(in ModeInputs) models.Mode {
	consolidation := in.ConsolidationThresholdPct
	if consolidation <= 0 {
		consolidation = models.DefaultConsolidationThresholdPct
	}
	catchUp := in.CatchUpThresholdPct
	if catchUp <= 0 {
		catchUp = models.DefaultCatchUpThresholdPct
	}

	if in.DebtRatioPct >= catchUp || in.MissedDays >= 3 {
		return models.ModeCatchUp
	}
	if in.DebtRatioPct >= consolidation || in.MissedDays == 2 || in.Retention3dAvg < 1.8 {
		return models.ModeConsolidation
	}
	return models.ModeNormal
}

// MissedDays counts whole skipped practice days between the last
// completed local date and "today" in the user's timezone. A single
// calendar gap is forgiven: finishing yesterday and practicing today
// counts as zero missed days.
func MissedDays(lastCompletedLocalDate string, now time.Time, loc *time.Location) int {
	if lastCompletedLocalDate == "" {
		return 0
	}
	last, err := time.ParseInLocation("2006-01-02", lastCompletedLocalDate, loc)
	if err != nil {
		return 0
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	// Rounding keeps DST-shortened or -lengthened days from skewing the count.
	gapDays := int(math.Round(today.Sub(last).Hours() / 24))
	if gapDays <= 1 {
		return 0
	}
	return gapDays - 1
}

// Retention3dAvg averages the numeric grade score of recall-relevant
// events in the trailing 3 days. Defaults to 2.0 (GOOD) with no events.
func Retention3dAvg(events []models.SessionEvent, now time.Time) float64 {
	cutoff := now.Add(-retentionWindow)
	sum, n := 0, 0
	for _, ev := range events {
		if !ev.Stage.IsRecall() {
			continue
		}
		if ev.CreatedAt.Before(cutoff) || ev.CreatedAt.After(now) {
			continue
		}
		sum += ev.Grade.Score()
		n++
	}
	if n == 0 {
		return defaultRetention
	}
	return float64(sum) / float64(n)
}
