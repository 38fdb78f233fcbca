package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hifzbot/internal/quran"
	"github.com/example/hifzbot/pkg/models"
)

func baseProfile() models.UserProfile {
	return models.UserProfile{
		UserID:                 1,
		DailyMinutes:           30,
		ActiveSurahNumber:      67, // Al-Mulk, 30 ayahs
		Mode:                   models.ModeNormal,
		Timezone:               "UTC",
		LastCompletedLocalDate: "2026-02-14",
	}
}

func sabqiReview(ayahID int, due time.Time) models.AyahReview {
	return models.AyahReview{AyahID: ayahID, Station: 2, CheckpointIndex: 1, EaseFactor: 2.5, NextReviewAt: due}
}

func manzilReview(ayahID int, due time.Time) models.AyahReview {
	return models.AyahReview{AyahID: ayahID, Station: 5, CheckpointIndex: 4, EaseFactor: 2.5, NextReviewAt: due}
}

// Fresh account, no backlog: normal mode, warm-up required, new
// material unlocked.
func TestBuildTodayQueueFreshAccount(t *testing.T) {
	profile := baseProfile()
	res := BuildTodayQueue(TodayInputs{
		Profile:             profile,
		Now:                 testNow, // 2026-02-15T09:00:00Z
		YesterdayNewAyahIDs: []int{5241, 5242},
		Retention3dAvg:      2.0,
	})

	assert.Equal(t, models.ModeNormal, res.Mode)
	assert.True(t, res.NewUnlocked)
	assert.True(t, res.WarmupRequired)
	assert.Equal(t, 0, res.Meta.MissedDays)
	assert.Zero(t, res.ReviewDebtMinutes)
	assert.Equal(t, []int{5241, 5242}, res.Queue.WarmupAyahIDs)
	assert.Empty(t, res.Queue.SabqiReviewAyahIDs)
	assert.Empty(t, res.Queue.ManzilReviewAyahIDs)

	// 1800s budget, 90s of warm-up, the rest funds new material at the
	// 120s cold-start estimate.
	require.NotEmpty(t, res.Queue.NewAyahIDs)
	assert.Len(t, res.Queue.NewAyahIDs, 14)
	mulk := quran.GetSurahInfo(67)
	assert.Equal(t, mulk.StartAyahID, res.Queue.NewAyahIDs[0])
}

// A 20-minute budget buried under 35 due reviews lands in catch-up:
// reviews take the whole session and new material is locked.
func TestBuildTodayQueueCatchUp(t *testing.T) {
	profile := baseProfile()
	profile.DailyMinutes = 20

	due := time.Date(2026, 2, 15, 5, 0, 0, 0, time.UTC)
	var reviews []models.AyahReview
	for i := 0; i < 35; i++ {
		reviews = append(reviews, sabqiReview(100+i, due))
	}

	res := BuildTodayQueue(TodayInputs{
		Profile:        profile,
		Now:            testNow,
		AllReviews:     reviews,
		DueReviews:     reviews,
		Retention3dAvg: 2.0,
	})

	assert.Equal(t, models.ModeCatchUp, res.Mode)
	assert.False(t, res.NewUnlocked)
	assert.Empty(t, res.Queue.NewAyahIDs)
	assert.Equal(t, 100.0, res.ReviewFloorPct)
	// debt = 35 * 45s / 60 = 26.25 min against a 20-minute budget.
	assert.InDelta(t, 26.25, res.ReviewDebtMinutes, 1e-9)
	assert.InDelta(t, 131.25, res.DebtRatioPct, 1e-9)
	// 1200s / 45s = 26 review slots.
	assert.Len(t, res.Queue.SabqiReviewAyahIDs, 26)
}

func TestBuildTodayQueueBandPartitionAndOrdering(t *testing.T) {
	profile := baseProfile()
	early := testNow.Add(-3 * time.Hour)
	late := testNow.Add(-time.Hour)

	reviews := []models.AyahReview{
		manzilReview(20, late),
		sabqiReview(10, late),
		sabqiReview(11, early),
		manzilReview(21, early),
	}
	res := BuildTodayQueue(TodayInputs{
		Profile:        profile,
		Now:            testNow,
		AllReviews:     reviews,
		DueReviews:     reviews,
		Retention3dAvg: 2.0,
	})

	// Earliest due first within each band; Sabqi before Manzil.
	assert.Equal(t, []int{11, 10}, res.Queue.SabqiReviewAyahIDs)
	assert.Equal(t, []int{21, 20}, res.Queue.ManzilReviewAyahIDs)
}

func TestBuildTodayQueueWarmupExcludedFromReviews(t *testing.T) {
	profile := baseProfile()
	due := testNow.Add(-time.Hour)
	reviews := []models.AyahReview{sabqiReview(7, due), sabqiReview(8, due)}

	res := BuildTodayQueue(TodayInputs{
		Profile:             profile,
		Now:                 testNow,
		AllReviews:          reviews,
		DueReviews:          reviews,
		YesterdayNewAyahIDs: []int{7, 7}, // duplicate ids collapse too
		Retention3dAvg:      2.0,
	})

	assert.Equal(t, []int{7}, res.Queue.WarmupAyahIDs)
	assert.Equal(t, []int{8}, res.Queue.SabqiReviewAyahIDs)
}

func TestBuildTodayQueueWeeklySampleExcludesWarmup(t *testing.T) {
	profile := baseProfile()
	var all []models.AyahReview
	for i := 0; i < 40; i++ {
		all = append(all, sabqiReview(200+i, testNow.Add(48*time.Hour)))
	}

	res := BuildTodayQueue(TodayInputs{
		Profile:             profile,
		Now:                 testNow,
		AllReviews:          all,
		YesterdayNewAyahIDs: []int{200, 201},
		WeeklyGateDue:       true,
		Retention3dAvg:      2.0,
	})

	require.NotEmpty(t, res.Queue.WeeklyGateAyahIDs)
	// 30min * 60 * 0.2 / 45s => ceil(8) = 8 items.
	assert.Len(t, res.Queue.WeeklyGateAyahIDs, 8)
	for _, id := range res.Queue.WeeklyGateAyahIDs {
		assert.NotContains(t, res.Queue.WarmupAyahIDs, id)
	}
}

func TestBuildTodayQueueConsolidationCapsNewMaterial(t *testing.T) {
	profile := baseProfile()
	profile.DailyMinutes = 60
	profile.ConsolidationThresholdPct = 25
	profile.CatchUpThresholdPct = 200 // keep out of catch-up for this case

	due := testNow.Add(-time.Hour)
	var reviews []models.AyahReview
	for i := 0; i < 25; i++ {
		reviews = append(reviews, sabqiReview(300+i, due))
	}

	res := BuildTodayQueue(TodayInputs{
		Profile:        profile,
		Now:            testNow,
		AllReviews:     reviews,
		DueReviews:     reviews,
		Retention3dAvg: 2.0,
	})

	require.Equal(t, models.ModeConsolidation, res.Mode)
	assert.True(t, res.NewUnlocked)
	assert.LessOrEqual(t, len(res.Queue.NewAyahIDs), consolidationNewCap)
}

func TestBuildTodayQueueRebalanceWindowScalesNewMaterial(t *testing.T) {
	open := baseProfile()
	until := testNow.Add(7 * 24 * time.Hour)
	open.RebalanceUntil = &until

	closed := baseProfile()
	expired := testNow.Add(-time.Hour)
	closed.RebalanceUntil = &expired

	buildNew := func(p models.UserProfile) int {
		res := BuildTodayQueue(TodayInputs{Profile: p, Now: testNow, Retention3dAvg: 2.0})
		return len(res.Queue.NewAyahIDs)
	}

	withWindow := buildNew(open)
	without := buildNew(closed)
	assert.Equal(t, without*3/4, withWindow)
	assert.Less(t, withWindow, without)
}

// An open rebalance window pins the review floor at 80 even when the
// normal policy would resolve something lower, like week one's 30.
func TestBuildTodayQueueRebalanceWindowPinsFloor(t *testing.T) {
	profile := baseProfile()
	onboarded := testNow.Add(-2 * 24 * time.Hour)
	profile.OnboardingCompletedAt = &onboarded
	until := testNow.Add(10 * 24 * time.Hour)
	profile.RebalanceUntil = &until

	due := testNow.Add(-time.Hour)
	reviews := []models.AyahReview{sabqiReview(50, due), sabqiReview(51, due)}

	res := BuildTodayQueue(TodayInputs{
		Profile:        profile,
		Now:            testNow,
		AllReviews:     reviews,
		DueReviews:     reviews,
		Retention3dAvg: 2.0,
	})

	require.Equal(t, models.ModeNormal, res.Mode)
	require.True(t, res.Meta.WeekOne)
	assert.Equal(t, 80.0, res.ReviewFloorPct)

	// Without the window, week one resolves its usual 30.
	profile.RebalanceUntil = nil
	res = BuildTodayQueue(TodayInputs{
		Profile:        profile,
		Now:            testNow,
		AllReviews:     reviews,
		DueReviews:     reviews,
		Retention3dAvg: 2.0,
	})
	assert.Equal(t, 30.0, res.ReviewFloorPct)
}

func TestBuildTodayQueueNewMaterialStopsAtSurahEnd(t *testing.T) {
	profile := baseProfile()
	profile.ActiveSurahNumber = 112 // Al-Ikhlas, 4 ayahs
	profile.DailyMinutes = 120

	res := BuildTodayQueue(TodayInputs{Profile: profile, Now: testNow, Retention3dAvg: 2.0})

	info := quran.GetSurahInfo(112)
	assert.Len(t, res.Queue.NewAyahIDs, info.AyahCount)
	assert.Equal(t, info.StartAyahID, res.Queue.NewAyahIDs[0])
	assert.Equal(t, info.EndAyahID, res.Queue.NewAyahIDs[len(res.Queue.NewAyahIDs)-1])

	// A cursor past the end simply yields nothing.
	profile.CursorAyahID = info.EndAyahID + 1
	res = BuildTodayQueue(TodayInputs{Profile: profile, Now: testNow, Retention3dAvg: 2.0})
	assert.Empty(t, res.Queue.NewAyahIDs)
}

func TestBuildTodayQueueLinkRepairShare(t *testing.T) {
	profile := baseProfile()
	past := testNow.Add(-time.Hour)

	var transitions []models.WeakTransition
	for i := 0; i < 10; i++ {
		tr := transitionAt(400+i, 401+i, 5, 1, &past)
		transitions = append(transitions, tr)
	}

	res := BuildTodayQueue(TodayInputs{
		Profile:         profile,
		Now:             testNow,
		WeakTransitions: transitions,
		Retention3dAvg:  2.0,
	})

	// NORMAL grants 15% of the leftover budget to link repairs:
	// 1800s * 0.15 / 35s = 7 slots.
	assert.Len(t, res.Queue.RepairLinks, 7)
	assert.Equal(t, 400, res.Queue.RepairLinks[0].FromAyahID)
}

func TestBuildTodayQueueMonthlyForcedFlag(t *testing.T) {
	profile := baseProfile()
	res := BuildTodayQueue(TodayInputs{
		Profile:             profile,
		Now:                 testNow,
		MonthlyTestRequired: true,
		Retention3dAvg:      1.2, // poor retention forces the audit
	})
	assert.True(t, res.MonthlyTestForced)

	res = BuildTodayQueue(TodayInputs{
		Profile:             profile,
		Now:                 testNow,
		MonthlyTestRequired: true,
		Retention3dAvg:      2.5,
	})
	assert.False(t, res.MonthlyTestForced)

	// No audit due, nothing forced even with poor retention.
	res = BuildTodayQueue(TodayInputs{
		Profile:        profile,
		Now:            testNow,
		Retention3dAvg: 1.2,
	})
	assert.False(t, res.MonthlyTestForced)
}

// The queue's estimated duration never exceeds the budget by more than
// one item's worth of rounding slack.
func TestBuildTodayQueueTimeConservation(t *testing.T) {
	due := testNow.Add(-time.Hour)
	past := testNow.Add(-2 * time.Hour)

	scenarios := []TodayInputs{
		{Profile: baseProfile(), Now: testNow, Retention3dAvg: 2.0},
		func() TodayInputs {
			p := baseProfile()
			p.DailyMinutes = 2 // exercises the 300s floor
			return TodayInputs{Profile: p, Now: testNow, Retention3dAvg: 2.0}
		}(),
		func() TodayInputs {
			p := baseProfile()
			p.DailyMinutes = 45
			var reviews []models.AyahReview
			for i := 0; i < 80; i++ {
				if i%3 == 0 {
					reviews = append(reviews, manzilReview(1000+i, due))
				} else {
					reviews = append(reviews, sabqiReview(1000+i, due))
				}
			}
			var trs []models.WeakTransition
			for i := 0; i < 12; i++ {
				trs = append(trs, transitionAt(2000+i, 2001+i, 6, 2, &past))
			}
			return TodayInputs{
				Profile:             p,
				Now:                 testNow,
				AllReviews:          reviews,
				DueReviews:          reviews,
				WeakTransitions:     trs,
				YesterdayNewAyahIDs: []int{9, 10, 11},
				WeeklyGateDue:       true,
				Retention3dAvg:      2.0,
			}
		}(),
	}

	for i, in := range scenarios {
		res := BuildTodayQueue(in)

		avgReview := effectiveSeconds(in.Profile.AvgReviewSeconds, models.DefaultAvgReviewSeconds)
		avgLink := effectiveSeconds(in.Profile.AvgLinkSeconds, models.DefaultAvgLinkSeconds)
		avgNew := effectiveSeconds(in.Profile.AvgNewSeconds, models.DefaultAvgNewSeconds)

		reviewItems := len(res.Queue.WarmupAyahIDs) + len(res.Queue.WeeklyGateAyahIDs) +
			len(res.Queue.SabqiReviewAyahIDs) + len(res.Queue.ManzilReviewAyahIDs)
		total := reviewItems*avgReview + len(res.Queue.RepairLinks)*avgLink + len(res.Queue.NewAyahIDs)*avgNew

		budget := in.Profile.DailyMinutes * 60
		if budget < minBudgetSeconds {
			budget = minBudgetSeconds
		}
		slack := avgReview
		if avgNew > slack {
			slack = avgNew
		}
		assert.LessOrEqual(t, total, budget+slack, "scenario %d", i)
	}
}

// Degenerate inputs degrade to a small valid queue instead of failing.
func TestBuildTodayQueueDefensiveEdges(t *testing.T) {
	res := BuildTodayQueue(TodayInputs{Profile: models.UserProfile{}, Now: testNow, Retention3dAvg: 2.0})
	assert.Equal(t, models.ModeNormal, res.Mode)
	assert.Empty(t, res.Queue.SabqiReviewAyahIDs)
	assert.Empty(t, res.Queue.RepairLinks)
	// Surah 0 does not exist; no new material is invented.
	assert.Empty(t, res.Queue.NewAyahIDs)
	assert.Zero(t, res.Meta.ReviewPoolSize)
}
