package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/hifzbot/internal/database"
	"github.com/example/hifzbot/internal/engine"
)

// Default window for practice reminders
const (
	DefaultNotificationStartHour = 4
	DefaultNotificationEndHour   = 22
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier interface for sending practice reminders
type Notifier interface {
	SendReminder(userID int64, dueCount int) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for users whose reminder hour has arrived.
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Daily audit sweep; it only acts on the first of the month.
	s.scheduler.Every(1).Day().At("03:00").Do(s.runMonthlyAudit)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies users with due reviews at their
// preferred hour
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	profileRepo := database.NewProfileRepository()
	reviewRepo := database.NewAyahReviewRepository()

	profiles, err := profileRepo.GetUsersForNotification(currentHour)
	if err != nil {
		log.Printf("Error getting profiles for notification: %v", err)
		return
	}

	now := time.Now()
	for _, profile := range profiles {
		dueCount, err := reviewRepo.CountDueForUser(profile.UserID, now)
		if err != nil {
			log.Printf("Error counting due reviews for user %d: %v", profile.UserID, err)
			continue
		}
		if dueCount == 0 {
			continue
		}
		if err := s.notifier.SendReminder(profile.UserID, dueCount); err != nil {
			log.Printf("Error sending reminder to user %d: %v", profile.UserID, err)
		}
	}
}

// runMonthlyAudit evaluates every active profile on the first of the
// month and opens a rebalance window where debt or retention are poor
func (s *Scheduler) runMonthlyAudit() {
	now := time.Now()
	if now.Day() != 1 {
		return
	}

	profileRepo := database.NewProfileRepository()
	reviewRepo := database.NewAyahReviewRepository()
	transitionRepo := database.NewTransitionRepository()
	eventRepo := database.NewEventRepository()

	profiles, err := profileRepo.GetAllActive()
	if err != nil {
		log.Printf("Error getting profiles for monthly audit: %v", err)
		return
	}

	for _, profile := range profiles {
		dueCount, err := reviewRepo.CountDueForUser(profile.UserID, now)
		if err != nil {
			log.Printf("Error counting due reviews for user %d: %v", profile.UserID, err)
			continue
		}
		transitions, err := transitionRepo.GetAllForUser(profile.UserID)
		if err != nil {
			log.Printf("Error getting transitions for user %d: %v", profile.UserID, err)
			continue
		}
		events, err := eventRepo.GetRecentForUser(profile.UserID, now.Add(-72*time.Hour))
		if err != nil {
			log.Printf("Error getting events for user %d: %v", profile.UserID, err)
			continue
		}

		dueRepairs := engine.DueRepairTransitions(transitions, now)
		debt := engine.ReviewDebtMinutes(dueCount, len(dueRepairs), profile.AvgReviewSeconds, profile.AvgLinkSeconds)
		ratio := engine.DebtRatioPct(debt, profile.DailyMinutes)
		retention := engine.Retention3dAvg(events, now)

		forced := engine.ShouldForceMonthlyTest(ratio, retention)
		outcome := engine.MonthlyGateOutcome(forced)
		log.Printf("Monthly audit for user %d: debt=%.1fmin ratio=%.1f%% retention=%.2f outcome=%s",
			profile.UserID, debt, ratio, retention, outcome)

		if !forced {
			continue
		}
		patch := engine.ModerateRebalancePatch(now)
		if err := profileRepo.ApplyRebalance(profile.UserID, patch.RebalanceUntil, patch.ReviewFloorPct); err != nil {
			log.Printf("Error applying rebalance for user %d: %v", profile.UserID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	reviewRepo := database.NewAyahReviewRepository()
	dueCount, err := reviewRepo.CountDueForUser(userID, time.Now())
	if err != nil {
		return err
	}
	if dueCount > 0 {
		return s.notifier.SendReminder(userID, dueCount)
	}
	return nil
}

func envHour(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
