package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewDebtMinutes(t *testing.T) {
	// 35 reviews at the 45s cold-start default.
	assert.InDelta(t, 26.25, ReviewDebtMinutes(35, 0, 0, 0), 1e-9)

	// Learned averages override the defaults.
	assert.InDelta(t, 10.0, ReviewDebtMinutes(10, 0, 60, 0), 1e-9)

	// Link repairs contribute at their own rate.
	assert.InDelta(t, 35.0/60.0, ReviewDebtMinutes(0, 1, 0, 0), 1e-9)

	// Negative or zero averages fall back to the defaults.
	assert.Equal(t, ReviewDebtMinutes(5, 5, 0, 0), ReviewDebtMinutes(5, 5, -3, -1))
}

func TestDebtRatioPctLinearInDebt(t *testing.T) {
	base := DebtRatioPct(10, 30)
	assert.InDelta(t, 2*base, DebtRatioPct(20, 30), 1e-9)
	assert.InDelta(t, 3*base, DebtRatioPct(30, 30), 1e-9)
}

func TestDebtRatioPctScaleInvariant(t *testing.T) {
	// Doubling both debt and budget leaves the ratio unchanged.
	assert.InDelta(t, DebtRatioPct(12, 30), DebtRatioPct(24, 60), 1e-9)
}

func TestDebtRatioPctBudgetFloor(t *testing.T) {
	// A zero budget is treated as one minute, not a division by zero.
	assert.InDelta(t, 500.0, DebtRatioPct(5, 0), 1e-9)
	assert.InDelta(t, 500.0, DebtRatioPct(5, -10), 1e-9)
}

func TestBlendAverage(t *testing.T) {
	// 0.7*40 + 0.3*60 = 46
	assert.Equal(t, 46, BlendAverage(40, []int{60}))

	// Batch mean, not per-element blending.
	assert.Equal(t, 46, BlendAverage(40, []int{50, 70}))

	// Empty batch leaves the estimate alone.
	assert.Equal(t, 40, BlendAverage(40, nil))

	// Cold start adopts the batch mean.
	assert.Equal(t, 55, BlendAverage(0, []int{55}))

	// Floor of one second.
	assert.Equal(t, 1, BlendAverage(1, []int{0, 0}))
}
