package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/hifzbot/pkg/models"
)

func TestIsWarmupGatePassed(t *testing.T) {
	cases := []struct {
		name   string
		grades []models.Grade
		want   bool
	}{
		{"empty passes vacuously", nil, true},
		{"two agains fail", []models.Grade{models.GradeGood, models.GradeAgain, models.GradeAgain}, false},
		{"one again with strong recall passes", []models.Grade{models.GradeEasy, models.GradeEasy, models.GradeAgain}, true},
		{"all good passes", []models.Grade{models.GradeGood, models.GradeGood}, true},
		{"hard average fails", []models.Grade{models.GradeHard, models.GradeHard, models.GradeGood}, false},
		{"average exactly good passes", []models.Grade{models.GradeEasy, models.GradeHard}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsWarmupGatePassed(tc.grades))
		})
	}
}

func TestWeeklyGateSampleSize(t *testing.T) {
	cases := []struct {
		name string
		in   WeeklySampleInputs
		want int
	}{
		{"20 minutes at 45s", WeeklySampleInputs{DailyMinutes: 20, AvgReviewSeconds: 45, SabqiPoolSize: 100}, 6},
		{"large budget hits ceiling", WeeklySampleInputs{DailyMinutes: 120, AvgReviewSeconds: 30, SabqiPoolSize: 100}, 20},
		{"tiny pool clamps", WeeklySampleInputs{DailyMinutes: 30, AvgReviewSeconds: 45, SabqiPoolSize: 3}, 3},
		{"empty pool yields nothing", WeeklySampleInputs{DailyMinutes: 30, AvgReviewSeconds: 45, SabqiPoolSize: 0}, 0},
		{"cold-start average defaults", WeeklySampleInputs{DailyMinutes: 20, AvgReviewSeconds: 0, SabqiPoolSize: 100}, 6},
		{"minimum of three", WeeklySampleInputs{DailyMinutes: 5, AvgReviewSeconds: 120, SabqiPoolSize: 100}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeeklyGateSampleSize(tc.in))
		})
	}
}

func TestSampleAyahIDs(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8}

	got := SampleAyahIDs(pool, 4, 99)
	assert.Len(t, got, 4)
	seen := make(map[int]bool)
	for _, id := range got {
		assert.Contains(t, pool, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	// Same seed, same draw.
	assert.Equal(t, got, SampleAyahIDs(pool, 4, 99))

	// Requests beyond the pool return the whole pool.
	assert.Len(t, SampleAyahIDs(pool, 50, 1), len(pool))
	assert.Nil(t, SampleAyahIDs(nil, 3, 1))
	assert.Nil(t, SampleAyahIDs(pool, 0, 1))
}

func TestShouldForceMonthlyTest(t *testing.T) {
	assert.True(t, ShouldForceMonthlyTest(60, 2.5))
	assert.True(t, ShouldForceMonthlyTest(10, 1.59))
	assert.False(t, ShouldForceMonthlyTest(59.9, 1.6))
	assert.False(t, ShouldForceMonthlyTest(0, 3.0))
}

func TestModerateRebalancePatch(t *testing.T) {
	now := time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)
	patch := ModerateRebalancePatch(now)
	assert.Equal(t, now.Add(14*24*time.Hour), patch.RebalanceUntil)
	assert.Equal(t, 80.0, patch.ReviewFloorPct)
}

func TestMonthlyGateOutcome(t *testing.T) {
	assert.Equal(t, MonthlyFail, MonthlyGateOutcome(true))
	assert.Equal(t, MonthlyRebalanced, MonthlyGateOutcome(false))
}
