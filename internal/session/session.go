package session

import (
	"fmt"
	"time"

	"github.com/example/hifzbot/internal/database"
	"github.com/example/hifzbot/internal/engine"
	"github.com/example/hifzbot/pkg/models"
)

// Repair drill rescheduling offsets. Only "due before now" matters to
// the engine, so these stay deliberately coarse.
const (
	repairRetryDelay   = 24 * time.Hour
	repairSuccessDelay = 3 * 24 * time.Hour
)

// Service orchestrates the engine over the persistence layer: it
// assembles the point-in-time snapshot the queue builder needs and
// folds completed sessions back into review state and profile.
type Service struct {
	reviews     *database.AyahReviewRepository
	transitions *database.TransitionRepository
	profiles    *database.ProfileRepository
	events      *database.EventRepository
}

// NewService creates a session service over the default repositories
func NewService() *Service {
	return &Service{
		reviews:     database.NewAyahReviewRepository(),
		transitions: database.NewTransitionRepository(),
		profiles:    database.NewProfileRepository(),
		events:      database.NewEventRepository(),
	}
}

// Profile returns the stored profile, creating a default one on first
// contact
func (s *Service) Profile(userID int64) (*models.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = newProfile(userID, time.Now())
		if err := s.profiles.Create(profile); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// newProfile seeds a first-contact profile. Onboarding is considered
// complete at creation, so the early-tenure allocation policy keys off
// a real date from day one.
func newProfile(userID int64, now time.Time) *models.UserProfile {
	return &models.UserProfile{UserID: userID, OnboardingCompletedAt: &now}
}

// UpdateProfile persists settings changes made outside a session
func (s *Service) UpdateProfile(profile *models.UserProfile) error {
	return s.profiles.Update(profile)
}

// BuildToday reads a consistent snapshot and runs the queue builder.
// "now" is read once by the caller and passed to every engine call so
// the whole computation shares one instant.
func (s *Service) BuildToday(userID int64, now time.Time) (*models.TodayEngineResult, error) {
	profile, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}

	allReviews, err := s.reviews.GetAllForUser(userID)
	if err != nil {
		return nil, err
	}
	dueReviews, err := s.reviews.GetDueForUser(userID, now)
	if err != nil {
		return nil, err
	}
	transitions, err := s.transitions.GetAllForUser(userID)
	if err != nil {
		return nil, err
	}
	weekEvents, err := s.events.GetRecentForUser(userID, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}

	loc := profile.Location()
	dayStart := localDayStart(now, loc)
	yesterdayNew, err := s.events.GetStageAyahIDs(userID, models.StageNew, dayStart.Add(-24*time.Hour), dayStart)
	if err != nil {
		return nil, err
	}

	result := engine.BuildTodayQueue(engine.TodayInputs{
		Profile:             *profile,
		Now:                 now,
		AllReviews:          allReviews,
		DueReviews:          dueReviews,
		WeakTransitions:     transitions,
		YesterdayNewAyahIDs: yesterdayNew,
		WeeklyGateDue:       weeklyGateDue(weekEvents),
		Retention3dAvg:      engine.Retention3dAvg(weekEvents, now),
		MonthlyTestRequired: now.In(loc).Day() == 1, // audit on the first of the local month
	})

	// The last computed mode is persisted for display only.
	if profile.Mode != result.Mode {
		profile.Mode = result.Mode
		if err := s.profiles.Update(profile); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// WarmupGatePassed evaluates today's warm-up recitations of
// yesterday's new material
func (s *Service) WarmupGatePassed(userID int64, now time.Time) (bool, error) {
	profile, err := s.Profile(userID)
	if err != nil {
		return false, err
	}
	dayStart := localDayStart(now, profile.Location())
	events, err := s.events.GetRecentForUser(userID, dayStart)
	if err != nil {
		return false, err
	}
	var grades []models.Grade
	for _, ev := range events {
		if ev.Stage == models.StageWarmup {
			grades = append(grades, ev.Grade)
		}
	}
	return engine.IsWarmupGatePassed(grades), nil
}

// CompleteSession folds a finished session's grade stream into review
// states, transitions, learned averages, cursor position, and the
// completion date. Callers must serialize per user: the state machine
// assumes a single writer per (user, ayah).
func (s *Service) CompleteSession(userID int64, events []models.SessionEvent, now time.Time) error {
	profile, err := s.Profile(userID)
	if err != nil {
		return err
	}

	for i := range events {
		events[i].UserID = userID
		if events[i].CreatedAt.IsZero() {
			events[i].CreatedAt = now
		}
		if !events[i].Grade.IsValid() {
			return fmt.Errorf("invalid grade %q in session event", events[i].Grade)
		}
	}

	for _, ev := range events {
		if ev.Stage == models.StageLinkRepair {
			if err := s.applyLinkEvent(userID, ev, now); err != nil {
				return err
			}
			continue
		}
		if err := s.applyReviewEvent(userID, ev, now); err != nil {
			return err
		}
	}

	if err := s.events.CreateAll(events); err != nil {
		return err
	}

	reviewSecs, newSecs, linkSecs := splitDurations(events)
	profile.AvgReviewSeconds = engine.BlendAverage(profile.AvgReviewSeconds, reviewSecs)
	profile.AvgNewSeconds = engine.BlendAverage(profile.AvgNewSeconds, newSecs)
	profile.AvgLinkSeconds = engine.BlendAverage(profile.AvgLinkSeconds, linkSecs)
	profile.CursorAyahID = advanceCursor(profile.CursorAyahID, events)
	profile.LastCompletedLocalDate = now.In(profile.Location()).Format("2006-01-02")

	return s.profiles.Update(profile)
}

func (s *Service) applyReviewEvent(userID int64, ev models.SessionEvent, now time.Time) error {
	state, err := s.reviews.GetByUserAndAyah(userID, ev.AyahID)
	if err != nil {
		return err
	}
	var current models.AyahReview
	if state == nil {
		current = engine.DefaultReviewState(ev.AyahID, now)
		current.UserID = userID
		current.Band = models.BandEncoding
	} else {
		current = *state
	}
	next := engine.ApplyGrade(current, ev.Grade, ev.CreatedAt, ev.DurationSec)
	next.UserID = userID
	next.ID = current.ID
	return s.reviews.CreateOrUpdate(&next)
}

func (s *Service) applyLinkEvent(userID int64, ev models.SessionEvent, now time.Time) error {
	tr, err := s.transitions.GetByUserAndPair(userID, ev.AyahID, ev.ToAyahID)
	if err != nil {
		return err
	}
	var current models.WeakTransition
	if tr == nil {
		current = models.WeakTransition{UserID: userID, FromAyahID: ev.AyahID, ToAyahID: ev.ToAyahID}
	} else {
		current = *tr
	}
	next := applyLinkAttempt(current, ev.Grade, ev.CreatedAt)
	return s.transitions.CreateOrUpdate(&next)
}

// applyLinkAttempt updates seam statistics for one drilled attempt
func applyLinkAttempt(tr models.WeakTransition, grade models.Grade, now time.Time) models.WeakTransition {
	tr.AttemptCount++
	delay := repairRetryDelay
	if grade.Score() >= 2 {
		tr.SuccessCount++
		delay = repairSuccessDelay
	} else {
		tr.FailCount++
	}
	tr.LastGrade = grade
	at := now.Add(delay)
	tr.NextRepairAt = &at
	return tr
}

// splitDurations partitions observed per-item durations by category
func splitDurations(events []models.SessionEvent) (reviewSecs, newSecs, linkSecs []int) {
	for _, ev := range events {
		if ev.DurationSec <= 0 {
			continue
		}
		switch ev.Stage {
		case models.StageWarmup, models.StageWeeklyTest, models.StageReview:
			reviewSecs = append(reviewSecs, ev.DurationSec)
		case models.StageNew:
			newSecs = append(newSecs, ev.DurationSec)
		case models.StageLinkRepair:
			linkSecs = append(linkSecs, ev.DurationSec)
		}
	}
	return
}

// advanceCursor moves the new-material pointer past every graded new
// ayah
func advanceCursor(cursor int, events []models.SessionEvent) int {
	for _, ev := range events {
		if ev.Stage == models.StageNew && ev.AyahID >= cursor {
			cursor = ev.AyahID + 1
		}
	}
	return cursor
}

// weeklyGateDue reports whether the trailing week holds no weekly test
func weeklyGateDue(weekEvents []models.SessionEvent) bool {
	for _, ev := range weekEvents {
		if ev.Stage == models.StageWeeklyTest {
			return false
		}
	}
	return true
}

func localDayStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
