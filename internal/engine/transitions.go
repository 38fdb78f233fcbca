package engine

import (
	"time"

	"github.com/example/hifzbot/pkg/models"
)

// DueRepairTransitions filters the weak seams whose repair drill is due.
// Ordering is left to the caller.
func DueRepairTransitions(all []models.WeakTransition, now time.Time) []models.WeakTransition {
	var due []models.WeakTransition
	for _, t := range all {
		if !t.IsWeak() {
			continue
		}
		if t.NextRepairAt == nil || t.NextRepairAt.After(now) {
			continue
		}
		due = append(due, t)
	}
	return due
}
