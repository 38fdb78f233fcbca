package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hifzbot/internal/engine"
	"github.com/example/hifzbot/pkg/models"
)

var now = time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)

func TestNewProfileStampsOnboarding(t *testing.T) {
	profile := newProfile(42, now)
	require.NotNil(t, profile.OnboardingCompletedAt)
	assert.Equal(t, now, *profile.OnboardingCompletedAt)

	// A freshly created account is inside the week-one window.
	assert.True(t, engine.IsWeekOne(profile.OnboardingCompletedAt, now.Add(24*time.Hour)))
	assert.False(t, engine.IsWeekOne(profile.OnboardingCompletedAt, now.Add(8*24*time.Hour)))
}

func TestApplyLinkAttemptSuccess(t *testing.T) {
	tr := models.WeakTransition{FromAyahID: 10, ToAyahID: 11, AttemptCount: 4, SuccessCount: 1, FailCount: 3}

	next := applyLinkAttempt(tr, models.GradeGood, now)
	assert.Equal(t, 5, next.AttemptCount)
	assert.Equal(t, 2, next.SuccessCount)
	assert.Equal(t, 3, next.FailCount)
	assert.Equal(t, models.GradeGood, next.LastGrade)
	require.NotNil(t, next.NextRepairAt)
	assert.Equal(t, now.Add(3*24*time.Hour), *next.NextRepairAt)
}

func TestApplyLinkAttemptFailure(t *testing.T) {
	next := applyLinkAttempt(models.WeakTransition{}, models.GradeAgain, now)
	assert.Equal(t, 1, next.AttemptCount)
	assert.Equal(t, 0, next.SuccessCount)
	assert.Equal(t, 1, next.FailCount)
	require.NotNil(t, next.NextRepairAt)
	assert.Equal(t, now.Add(24*time.Hour), *next.NextRepairAt)

	// HARD counts as a failed connection too.
	next = applyLinkAttempt(models.WeakTransition{}, models.GradeHard, now)
	assert.Equal(t, 1, next.FailCount)
}

func TestSplitDurations(t *testing.T) {
	events := []models.SessionEvent{
		{Stage: models.StageWarmup, DurationSec: 30},
		{Stage: models.StageReview, DurationSec: 45},
		{Stage: models.StageWeeklyTest, DurationSec: 50},
		{Stage: models.StageNew, DurationSec: 110},
		{Stage: models.StageLinkRepair, DurationSec: 25},
		{Stage: models.StageReview, DurationSec: 0}, // untimed, skipped
	}
	reviewSecs, newSecs, linkSecs := splitDurations(events)
	assert.Equal(t, []int{30, 45, 50}, reviewSecs)
	assert.Equal(t, []int{110}, newSecs)
	assert.Equal(t, []int{25}, linkSecs)
}

func TestAdvanceCursor(t *testing.T) {
	events := []models.SessionEvent{
		{Stage: models.StageNew, AyahID: 101},
		{Stage: models.StageNew, AyahID: 103},
		{Stage: models.StageReview, AyahID: 500}, // reviews never move the cursor
	}
	assert.Equal(t, 104, advanceCursor(100, events))

	// Grading behind the cursor leaves it alone.
	assert.Equal(t, 200, advanceCursor(200, events))

	assert.Equal(t, 50, advanceCursor(50, nil))
}

func TestWeeklyGateDue(t *testing.T) {
	assert.True(t, weeklyGateDue(nil))
	assert.True(t, weeklyGateDue([]models.SessionEvent{{Stage: models.StageReview}}))
	assert.False(t, weeklyGateDue([]models.SessionEvent{
		{Stage: models.StageReview},
		{Stage: models.StageWeeklyTest},
	}))
}

func TestLocalDayStart(t *testing.T) {
	karachi, err := time.LoadLocation("Asia/Karachi")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 20:30 UTC is past midnight in Karachi.
	start := localDayStart(time.Date(2026, 2, 15, 20, 30, 0, 0, time.UTC), karachi)
	assert.Equal(t, 16, start.Day())
	assert.Equal(t, 0, start.Hour())
}
