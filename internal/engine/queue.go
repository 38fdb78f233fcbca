package engine

import (
	"sort"
	"time"

	"github.com/example/hifzbot/internal/quran"
	"github.com/example/hifzbot/pkg/models"
)

// minBudgetSeconds floors the session budget so even tiny daily budgets
// yield a usable queue.
const minBudgetSeconds = 300

// Mode-dependent share of leftover seconds granted to link repairs
var linkShareByMode = map[models.Mode]float64{
	models.ModeCatchUp:       0.35,
	models.ModeConsolidation: 0.25,
	models.ModeNormal:        0.15,
}

// consolidationNewCap bounds new material while consolidating
const consolidationNewCap = 2

// TodayInputs is the point-in-time snapshot the queue builder consumes.
// The caller reads "now" once and passes it everywhere so a single
// logical "today" computation stays internally consistent.
type TodayInputs struct {
	Profile             models.UserProfile
	Now                 time.Time
	AllReviews          []models.AyahReview
	DueReviews          []models.AyahReview
	WeakTransitions     []models.WeakTransition
	YesterdayNewAyahIDs []int
	WeeklyGateDue       bool
	Retention3dAvg      float64
	MonthlyTestRequired bool
}

// BuildTodayQueue composes the engine policies into a single ordered,
// time-budgeted queue for today. It is total over valid inputs:
// defensive clamps degrade edge cases to smaller-but-valid queues
// instead of failing.
func BuildTodayQueue(in TodayInputs) models.TodayEngineResult {
	profile := in.Profile
	now := in.Now
	loc := profile.Location()

	missedDays := MissedDays(profile.LastCompletedLocalDate, now, loc)
	weekOne := IsWeekOne(profile.OnboardingCompletedAt, now)

	dueRepairs := DueRepairTransitions(in.WeakTransitions, now)
	sort.SliceStable(dueRepairs, func(i, j int) bool {
		return dueRepairs[i].NextRepairAt.Before(*dueRepairs[j].NextRepairAt)
	})

	debtMinutes := ReviewDebtMinutes(len(in.DueReviews), len(dueRepairs), profile.AvgReviewSeconds, profile.AvgLinkSeconds)
	debtRatio := DebtRatioPct(debtMinutes, profile.DailyMinutes)

	mode := ResolveMode(ModeInputs{
		DebtRatioPct:              debtRatio,
		MissedDays:                missedDays,
		Retention3dAvg:            in.Retention3dAvg,
		ConsolidationThresholdPct: profile.ConsolidationThresholdPct,
		CatchUpThresholdPct:       profile.CatchUpThresholdPct,
	})
	floorPct := ResolveReviewFloorPct(FloorInputs{
		Mode:               mode,
		WeekOne:            weekOne,
		HasReviewPool:      len(in.AllReviews) > 0,
		UserReviewFloorPct: profile.ReviewFloorPct,
		DebtRatioPct:       debtRatio,
	})
	// An open rebalance window pins the floor at the patch value no
	// matter what the normal policy resolved.
	if profile.RebalanceUntil != nil && now.Before(*profile.RebalanceUntil) && floorPct < rebalanceFloorPct {
		floorPct = rebalanceFloorPct
	}

	// Partition the due reviews into the two bands, earliest due first.
	var sabqiDue, manzilDue []models.AyahReview
	for _, r := range in.DueReviews {
		if r.IsSabqi() {
			sabqiDue = append(sabqiDue, r)
		} else {
			manzilDue = append(manzilDue, r)
		}
	}
	sortByDue(sabqiDue)
	sortByDue(manzilDue)

	// Mandatory items: warm-up first, then the weekly sample.
	warmup := dedupeIDs(in.YesterdayNewAyahIDs)
	used := make(map[int]bool, len(warmup))
	for _, id := range warmup {
		used[id] = true
	}

	var weekly []int
	if in.WeeklyGateDue {
		var pool []int
		for _, r := range in.AllReviews {
			if r.IsSabqi() && !used[r.AyahID] {
				pool = append(pool, r.AyahID)
			}
		}
		sort.Ints(pool)
		n := WeeklyGateSampleSize(WeeklySampleInputs{
			DailyMinutes:     profile.DailyMinutes,
			AvgReviewSeconds: profile.AvgReviewSeconds,
			SabqiPoolSize:    len(pool),
		})
		weekly = SampleAyahIDs(pool, n, now.UnixNano())
		for _, id := range weekly {
			used[id] = true
		}
	}

	// Time budget and the review slot target.
	budgetSec := profile.DailyMinutes * 60
	if budgetSec < minBudgetSeconds {
		budgetSec = minBudgetSeconds
	}
	avgReview := effectiveSeconds(profile.AvgReviewSeconds, models.DefaultAvgReviewSeconds)
	avgLink := effectiveSeconds(profile.AvgLinkSeconds, models.DefaultAvgLinkSeconds)
	avgNew := effectiveSeconds(profile.AvgNewSeconds, models.DefaultAvgNewSeconds)

	reviewSlots := int(float64(budgetSec) * floorPct / 100.0 / float64(avgReview))
	mandatory := len(warmup) + len(weekly)
	if reviewSlots < mandatory {
		// Mandatory items are never starved by a low floor.
		reviewSlots = mandatory
	}

	// Greedy backfill: Sabqi-due first, then Manzil-due.
	fill := reviewSlots - mandatory
	var sabqiSel, manzilSel []int
	for _, r := range sabqiDue {
		if fill <= 0 {
			break
		}
		if used[r.AyahID] {
			continue
		}
		sabqiSel = append(sabqiSel, r.AyahID)
		used[r.AyahID] = true
		fill--
	}
	for _, r := range manzilDue {
		if fill <= 0 {
			break
		}
		if used[r.AyahID] {
			continue
		}
		manzilSel = append(manzilSel, r.AyahID)
		used[r.AyahID] = true
		fill--
	}

	// Leftover seconds fund link repairs, then new material.
	consumedSec := (mandatory + len(sabqiSel) + len(manzilSel)) * avgReview
	remainderSec := budgetSec - consumedSec
	if remainderSec < 0 {
		remainderSec = 0
	}

	linkSlots := int(float64(remainderSec) * linkShareByMode[mode] / float64(avgLink))
	if linkSlots > len(dueRepairs) {
		linkSlots = len(dueRepairs)
	}
	var repairLinks []models.RepairLink
	for _, t := range dueRepairs[:linkSlots] {
		repairLinks = append(repairLinks, models.RepairLink{FromAyahID: t.FromAyahID, ToAyahID: t.ToAyahID})
	}
	remainderSec -= linkSlots * avgLink

	newCount := remainderSec / avgNew
	switch mode {
	case models.ModeCatchUp:
		newCount = 0
	case models.ModeConsolidation:
		if newCount > consolidationNewCap {
			newCount = consolidationNewCap
		}
	}
	if profile.RebalanceUntil != nil && now.Before(*profile.RebalanceUntil) {
		newCount = newCount * 3 / 4
	}

	// New ayahs are a contiguous run inside the active surah; the cursor
	// never crosses into the next surah automatically.
	var newIDs []int
	if newCount > 0 {
		if info := quran.GetSurahInfo(profile.ActiveSurahNumber); info != nil {
			start := info.StartAyahID
			if profile.CursorAyahID > start {
				start = profile.CursorAyahID
			}
			for id := start; id <= info.EndAyahID && len(newIDs) < newCount; id++ {
				newIDs = append(newIDs, id)
			}
		}
	}

	forced := in.MonthlyTestRequired && ShouldForceMonthlyTest(debtRatio, in.Retention3dAvg)

	return models.TodayEngineResult{
		Mode:              mode,
		ReviewDebtMinutes: debtMinutes,
		DebtRatioPct:      debtRatio,
		ReviewFloorPct:    floorPct,
		Retention3dAvg:    in.Retention3dAvg,
		WarmupRequired:    len(warmup) > 0,
		WeeklyGateDue:     in.WeeklyGateDue,
		MonthlyTestForced: forced,
		NewUnlocked:       mode != models.ModeCatchUp,
		Queue: models.TodayQueue{
			WarmupAyahIDs:       warmup,
			WeeklyGateAyahIDs:   weekly,
			SabqiReviewAyahIDs:  sabqiSel,
			ManzilReviewAyahIDs: manzilSel,
			RepairLinks:         repairLinks,
			NewAyahIDs:          newIDs,
		},
		Meta: models.TodayMeta{
			MissedDays:     missedDays,
			WeekOne:        weekOne,
			ReviewPoolSize: len(in.AllReviews),
		},
	}
}

// sortByDue orders reviews earliest NextReviewAt first, ayah id as the
// tie-break so queue output is reproducible.
func sortByDue(reviews []models.AyahReview) {
	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].NextReviewAt.Equal(reviews[j].NextReviewAt) {
			return reviews[i].AyahID < reviews[j].AyahID
		}
		return reviews[i].NextReviewAt.Before(reviews[j].NextReviewAt)
	})
}

func dedupeIDs(ids []int) []int {
	var out []int
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
