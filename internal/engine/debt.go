package engine

import (
	"math"

	"github.com/example/hifzbot/pkg/models"
)

// effectiveSeconds guards a learned per-item duration against cold-start
// zeros: non-positive averages fall back to the category default.
func effectiveSeconds(avg, fallback int) int {
	if avg <= 0 {
		return fallback
	}
	return avg
}

// ReviewDebtMinutes estimates the outstanding work implied by the due
// review and due link-repair counts.
func ReviewDebtMinutes(dueReviewCount, dueRepairCount, avgReviewSeconds, avgLinkSeconds int) float64 {
	reviewSec := dueReviewCount * effectiveSeconds(avgReviewSeconds, models.DefaultAvgReviewSeconds)
	linkSec := dueRepairCount * effectiveSeconds(avgLinkSeconds, models.DefaultAvgLinkSeconds)
	return float64(reviewSec+linkSec) / 60.0
}

// DebtRatioPct expresses review debt as a percentage of the daily budget
func DebtRatioPct(debtMinutes float64, dailyMinutes int) float64 {
	if dailyMinutes < 1 {
		dailyMinutes = 1
	}
	return debtMinutes / float64(dailyMinutes) * 100.0
}

// BlendAverage folds a batch of fresh per-item durations into the
// learned average at a 0.7/0.3 weight, so no single session can swing
// the estimate. Returns the current value unchanged for an empty batch.
func BlendAverage(current int, batchSeconds []int) int {
	if len(batchSeconds) == 0 {
		return current
	}
	sum := 0
	for _, s := range batchSeconds {
		sum += s
	}
	batchMean := float64(sum) / float64(len(batchSeconds))
	if current <= 0 {
		// Nothing learned yet: adopt the batch mean outright.
		blended := int(math.Round(batchMean))
		if blended < 1 {
			blended = 1
		}
		return blended
	}
	blended := int(math.Round(0.7*float64(current) + 0.3*batchMean))
	if blended < 1 {
		blended = 1
	}
	return blended
}
