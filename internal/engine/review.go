package engine

import (
	"math"
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// Ease factor bounds and default (SM-2 lineage)
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0
	DefaultEaseFactor = 2.5
)

// DefaultReviewState returns the state created when an ayah is graded
// for the first time: checkpoint 0, default ease, scheduled at the
// checkpoint-0 threshold from now.
func DefaultReviewState(ayahID int, now time.Time) models.AyahReview {
	return models.AyahReview{
		AyahID:          ayahID,
		CheckpointIndex: 0,
		Station:         stationForCheckpoint(0),
		EaseFactor:      DefaultEaseFactor,
		NextReviewAt:    now.Add(time.Duration(CheckpointMinutes(0)) * time.Minute),
	}
}

// ApplyGrade advances the spaced-repetition state machine by one graded
// attempt and returns the updated state. It is pure: the input state is
// not modified, no clock is read, no I/O happens.
func ApplyGrade(state models.AyahReview, grade models.Grade, now time.Time, durationSec int) models.AyahReview {
	next := state

	// Checkpoint movement: AGAIN retreats, GOOD/EASY advance, HARD holds.
	cp := state.CheckpointIndex
	switch grade {
	case models.GradeAgain:
		cp--
	case models.GradeGood:
		cp++
	case models.GradeEasy:
		cp += 2
	}
	if cp < 0 {
		cp = 0
	}
	if cp > maxCheckpoint {
		cp = maxCheckpoint
	}
	next.CheckpointIndex = cp
	next.Station = stationForCheckpoint(cp)

	next.EaseFactor = clampEase(state.EaseFactor + easeDelta(grade))

	intervalDays := 1
	if grade != models.GradeAgain {
		nudge := clampFloat(next.EaseFactor/DefaultEaseFactor, 0.8, 1.25)
		if next.Station == MaxStation {
			// No runaway growth at the top tier.
			nudge = 1.0
		}
		intervalDays = int(math.Round(float64(StationBaselineDays(next.Station)) * nudge))
		if intervalDays < 1 {
			intervalDays = 1
		}
	}

	// The schedule never regresses below the earned checkpoint time.
	intervalMinutes := intervalDays * 24 * 60
	if floor := CheckpointMinutes(cp); floor > intervalMinutes {
		intervalMinutes = floor
	}
	next.NextReviewAt = now.Add(time.Duration(intervalMinutes) * time.Minute)

	if grade == models.GradeAgain {
		next.Lapses++
	} else {
		next.Repetitions++
	}
	next.LastGrade = grade
	next.LastDurationSec = durationSec
	lastAt := now
	next.LastReviewAt = &lastAt

	// Keep the persisted band in step with the station; ephemeral states
	// (empty band) stay on the station heuristic.
	if state.Band != "" {
		next.Band = bandForState(next)
	}

	return next
}

func bandForState(r models.AyahReview) models.Band {
	switch {
	case r.CheckpointIndex <= 1:
		return models.BandEncoding
	case r.Station <= 3:
		return models.BandSabqi
	default:
		return models.BandManzil
	}
}

func easeDelta(grade models.Grade) float64 {
	switch grade {
	case models.GradeAgain:
		return -0.2
	case models.GradeHard:
		return -0.15
	case models.GradeGood:
		return 0.05
	case models.GradeEasy:
		return 0.15
	}
	return 0
}

func clampEase(ef float64) float64 {
	return clampFloat(ef, MinEaseFactor, MaxEaseFactor)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
