package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/hifzbot/pkg/models"
)

// Bounds for the user-adjustable daily budget
const (
	minBudgetMinutes = 5
	maxBudgetMinutes = 240
)

func (b *Bot) handleSettingsCommand(message *tgbotapi.Message) {
	profile, err := b.sessions.Profile(message.From.ID)
	if err != nil {
		b.reply(message.Chat.ID, "Could not load your settings.")
		return
	}
	b.reply(message.Chat.ID, settingsSummary(profile))
}

func (b *Bot) handleBudgetCommand(message *tgbotapi.Message) {
	minutes, err := parseBudgetMinutes(message.CommandArguments())
	if err != nil {
		b.reply(message.Chat.ID, fmt.Sprintf("Usage: /budget <minutes> (%d-%d)", minBudgetMinutes, maxBudgetMinutes))
		return
	}
	b.updateProfile(message, func(p *models.UserProfile) {
		p.DailyMinutes = minutes
	}, fmt.Sprintf("Daily budget set to %d minutes.", minutes))
}

func (b *Bot) handleNotifyCommand(message *tgbotapi.Message) {
	enabled, hour, err := parseNotifySetting(message.CommandArguments())
	if err != nil {
		b.reply(message.Chat.ID, "Usage: /notify on, /notify off, or /notify <hour 0-23>")
		return
	}
	text := "Reminders disabled."
	if enabled {
		text = "Reminders enabled."
		if hour >= 0 {
			text = fmt.Sprintf("Reminders enabled at %02d:00.", hour)
		}
	}
	b.updateProfile(message, func(p *models.UserProfile) {
		p.NotificationEnabled = enabled
		if hour >= 0 {
			p.NotificationHour = hour
		}
	}, text)
}

func (b *Bot) handleTimezoneCommand(message *tgbotapi.Message) {
	name := strings.TrimSpace(message.CommandArguments())
	if _, err := time.LoadLocation(name); name == "" || err != nil {
		b.reply(message.Chat.ID, "Usage: /timezone <IANA name>, e.g. /timezone Asia/Karachi")
		return
	}
	b.updateProfile(message, func(p *models.UserProfile) {
		p.Timezone = name
	}, fmt.Sprintf("Timezone set to %s.", name))
}

// updateProfile loads, mutates and persists the caller's profile
func (b *Bot) updateProfile(message *tgbotapi.Message, mutate func(*models.UserProfile), confirmation string) {
	profile, err := b.sessions.Profile(message.From.ID)
	if err != nil {
		b.reply(message.Chat.ID, "Could not load your settings.")
		return
	}
	mutate(profile)
	if err := b.sessions.UpdateProfile(profile); err != nil {
		b.reply(message.Chat.ID, "Could not save your settings.")
		return
	}
	b.reply(message.Chat.ID, confirmation)
}

// parseBudgetMinutes validates a /budget argument
func parseBudgetMinutes(arg string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid budget %q", arg)
	}
	if minutes < minBudgetMinutes || minutes > maxBudgetMinutes {
		return 0, fmt.Errorf("budget %d out of range", minutes)
	}
	return minutes, nil
}

// parseNotifySetting interprets a /notify argument: "on", "off", or an
// hour of day. The returned hour is -1 when it should stay unchanged.
func parseNotifySetting(arg string) (enabled bool, hour int, err error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	switch arg {
	case "on":
		return true, -1, nil
	case "off":
		return false, -1, nil
	}
	h, convErr := strconv.Atoi(arg)
	if convErr != nil || h < 0 || h > 23 {
		return false, -1, fmt.Errorf("invalid notify setting %q", arg)
	}
	return true, h, nil
}

// settingsSummary renders the user-adjustable settings
func settingsSummary(p *models.UserProfile) string {
	notify := "off"
	if p.NotificationEnabled {
		notify = fmt.Sprintf("on at %02d:00", p.NotificationHour)
	}
	return fmt.Sprintf(
		"Daily budget: %d minutes\nReminders: %s\nTimezone: %s\n\nChange with /budget <minutes>, /notify on|off|<hour>, /timezone <IANA name>",
		p.DailyMinutes, notify, p.Timezone)
}
