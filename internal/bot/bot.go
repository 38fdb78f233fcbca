package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/hifzbot/internal/database"
	"github.com/example/hifzbot/internal/engine"
	"github.com/example/hifzbot/internal/quran"
	"github.com/example/hifzbot/internal/session"
	"github.com/example/hifzbot/pkg/models"
)

// queueItem is one pending practice step in a running session
type queueItem struct {
	Stage    models.Stage
	AyahID   int
	ToAyahID int
}

// activeSession tracks one user's in-flight practice session
type activeSession struct {
	Items       []queueItem
	Index       int
	LastShownAt time.Time
	Events      []models.SessionEvent
	Catalog     map[int]models.Ayah
}

// Bot wraps the Telegram API around the session service
type Bot struct {
	api      *tgbotapi.BotAPI
	config   *BotConfig
	sessions *session.Service
	ayahs    *database.AyahRepository

	mu     sync.Mutex
	active map[int64]*activeSession
}

// NewBot creates a bot from a Telegram token
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}
	return &Bot{
		api:      api,
		config:   DefaultConfig(),
		sessions: session.NewService(),
		ayahs:    database.NewAyahRepository(),
		active:   make(map[int64]*activeSession),
	}, nil
}

// Start begins processing updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// Stop shuts down update processing
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// SendReminder implements the scheduler's Notifier interface
func (b *Bot) SendReminder(userID int64, dueCount int) error {
	text := fmt.Sprintf("You have %d ayahs due for review. Send /today to start your session.", dueCount)
	msg := tgbotapi.NewMessage(userID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleGradeCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	message := update.Message
	switch message.Command() {
	case "start":
		b.handleStartCommand(message)
	case "today":
		b.handleTodayCommand(message)
	case "status":
		b.handleStatusCommand(message)
	case "settings":
		b.handleSettingsCommand(message)
	case "budget":
		b.handleBudgetCommand(message)
	case "notify":
		b.handleNotifyCommand(message)
	case "timezone":
		b.handleTimezoneCommand(message)
	default:
		b.reply(message.Chat.ID, "Commands: /today to build your practice session, /status for your current mode, /settings to adjust your plan.")
	}
}

func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	userID := message.From.ID
	if _, err := b.sessions.Profile(userID); err != nil {
		b.reply(message.Chat.ID, "Something went wrong setting up your profile. Try again later.")
		return
	}
	b.reply(message.Chat.ID, "Welcome. Send /today to get your practice queue for the day.")
}

func (b *Bot) handleTodayCommand(message *tgbotapi.Message) {
	userID := message.From.ID
	now := time.Now()

	result, err := b.sessions.BuildToday(userID, now)
	if err != nil {
		b.reply(message.Chat.ID, "Could not build today's queue. Try again later.")
		return
	}

	items := flattenQueue(result.Queue)
	if len(items) == 0 {
		b.reply(message.Chat.ID, "Nothing scheduled for today. Well done staying on top of your reviews.")
		return
	}

	// One batch fetch covers every text the session will show.
	catalog, err := b.ayahs.GetByIDs(queueAyahIDs(items))
	if err != nil {
		catalog = nil // prompts fall back to surah:ayah labels
	}

	b.mu.Lock()
	b.active[userID] = &activeSession{Items: items, LastShownAt: now, Catalog: catalog}
	b.mu.Unlock()

	b.reply(message.Chat.ID, todaySummary(result))
	b.showNextItem(message.Chat.ID, userID)
}

func (b *Bot) handleStatusCommand(message *tgbotapi.Message) {
	profile, err := b.sessions.Profile(message.From.ID)
	if err != nil {
		b.reply(message.Chat.ID, "Could not load your profile.")
		return
	}
	info := quran.GetSurahInfo(profile.ActiveSurahNumber)
	surahName := "?"
	if info != nil {
		surahName = info.Name
	}
	upNext := ""
	if ayah, err := b.ayahs.GetByID(profile.CursorAyahID); err == nil && ayah != nil {
		upNext = fmt.Sprintf("\nNext new ayah: %d:%d", ayah.SurahNumber, ayah.AyahNumber)
	}
	b.reply(message.Chat.ID, fmt.Sprintf(
		"Mode: %s\nDaily budget: %d minutes\nActive surah: %s%s",
		profile.Mode, profile.DailyMinutes, surahName, upNext))
}

// showNextItem presents the current practice step with a grade keyboard
func (b *Bot) showNextItem(chatID, userID int64) {
	b.mu.Lock()
	sess, ok := b.active[userID]
	b.mu.Unlock()
	if !ok {
		return
	}

	if sess.Index >= len(sess.Items) {
		b.finishSession(chatID, userID, sess)
		return
	}

	item := sess.Items[sess.Index]

	// Failing today's warm-up locks the new-material tail: the session
	// ends here instead of presenting fresh ayahs.
	if item.Stage == models.StageNew && newMaterialLocked(sess.Events) {
		sess.Items = sess.Items[:sess.Index]
		b.reply(chatID, "Yesterday's material needs more work — today's new ayahs stay locked.")
		b.finishSession(chatID, userID, sess)
		return
	}

	sess.LastShownAt = time.Now()

	msg := tgbotapi.NewMessage(chatID, b.itemPrompt(item, sess.Index+1, len(sess.Items), sess.Catalog))
	msg.ReplyMarkup = gradeKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		return
	}
}

func (b *Bot) itemPrompt(item queueItem, pos, total int, catalog map[int]models.Ayah) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d/%d] ", pos, total)

	switch item.Stage {
	case models.StageWarmup:
		sb.WriteString("Warm-up — recite yesterday's ayah:\n")
	case models.StageWeeklyTest:
		sb.WriteString("Weekly test — recite from memory:\n")
	case models.StageReview:
		sb.WriteString("Review:\n")
	case models.StageLinkRepair:
		sb.WriteString("Link drill — recite across the seam:\n")
	case models.StageNew:
		sb.WriteString("New ayah — memorize:\n")
	}

	sb.WriteString(describeAyah(item.AyahID, catalog))
	if item.Stage == models.StageLinkRepair {
		sb.WriteString("\n→ ")
		sb.WriteString(describeAyah(item.ToAyahID, catalog))
	}
	return sb.String()
}

func describeAyah(ayahID int, catalog map[int]models.Ayah) string {
	surahNumber, ayahNumber := quran.Locate(ayahID)
	label := fmt.Sprintf("%d:%d", surahNumber, ayahNumber)
	if info := quran.GetSurahInfo(surahNumber); info != nil {
		label = fmt.Sprintf("%s %d:%d", info.Name, surahNumber, ayahNumber)
	}
	if ayah, ok := catalog[ayahID]; ok {
		return fmt.Sprintf("%s\n%s", label, ayah.Text)
	}
	return label
}

func (b *Bot) handleGradeCallback(callback *tgbotapi.CallbackQuery) {
	grade := models.Grade(callback.Data)
	if !grade.IsValid() {
		return
	}
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	b.mu.Lock()
	sess, ok := b.active[userID]
	if ok && time.Since(sess.LastShownAt) > b.config.SessionTimeout {
		delete(b.active, userID)
		ok = false
	}
	b.mu.Unlock()
	if !ok || sess.Index >= len(sess.Items) {
		b.answerCallback(callback, "No active session. Send /today to start one.")
		return
	}

	item := sess.Items[sess.Index]
	duration := int(time.Since(sess.LastShownAt).Seconds())
	if duration <= 0 {
		duration = b.config.FallbackDurationSec
	}

	sess.Events = append(sess.Events, models.SessionEvent{
		Stage:       item.Stage,
		Phase:       "recite",
		AyahID:      item.AyahID,
		ToAyahID:    item.ToAyahID,
		Grade:       grade,
		DurationSec: duration,
		CreatedAt:   time.Now(),
	})
	sess.Index++

	b.answerCallback(callback, string(grade))
	b.showNextItem(chatID, userID)
}

// finishSession folds the collected grades into persistent state
func (b *Bot) finishSession(chatID, userID int64, sess *activeSession) {
	b.mu.Lock()
	delete(b.active, userID)
	b.mu.Unlock()

	if err := b.sessions.CompleteSession(userID, sess.Events, time.Now()); err != nil {
		b.reply(chatID, "Session finished, but saving your progress failed. Your grades may not be recorded.")
		return
	}

	passed, err := b.sessions.WarmupGatePassed(userID, time.Now())
	msg := fmt.Sprintf("Session complete: %d items graded.", len(sess.Events))
	if err == nil && !passed {
		msg += "\nYesterday's material needs more work — new ayahs stay locked until the warm-up passes."
	}
	b.reply(chatID, msg)
}

func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) {
	cb := tgbotapi.NewCallback(callback.ID, text)
	_, _ = b.api.Request(cb)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = b.api.Send(msg)
}

// gradeKeyboard builds the four-grade inline keyboard
func gradeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Again", string(models.GradeAgain)),
			tgbotapi.NewInlineKeyboardButtonData("Hard", string(models.GradeHard)),
			tgbotapi.NewInlineKeyboardButtonData("Good", string(models.GradeGood)),
			tgbotapi.NewInlineKeyboardButtonData("Easy", string(models.GradeEasy)),
		),
	)
}

// newMaterialLocked evaluates the warm-up gate over the grades
// collected so far in this session
func newMaterialLocked(events []models.SessionEvent) bool {
	var grades []models.Grade
	for _, ev := range events {
		if ev.Stage == models.StageWarmup {
			grades = append(grades, ev.Grade)
		}
	}
	return !engine.IsWarmupGatePassed(grades)
}

// queueAyahIDs collects every distinct ayah id a session will present
func queueAyahIDs(items []queueItem) []int {
	seen := make(map[int]bool, len(items))
	var ids []int
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, item := range items {
		add(item.AyahID)
		add(item.ToAyahID)
	}
	return ids
}

// flattenQueue turns the partitioned queue into the session's run order
func flattenQueue(q models.TodayQueue) []queueItem {
	var items []queueItem
	for _, id := range q.WarmupAyahIDs {
		items = append(items, queueItem{Stage: models.StageWarmup, AyahID: id})
	}
	for _, id := range q.WeeklyGateAyahIDs {
		items = append(items, queueItem{Stage: models.StageWeeklyTest, AyahID: id})
	}
	for _, id := range q.SabqiReviewAyahIDs {
		items = append(items, queueItem{Stage: models.StageReview, AyahID: id})
	}
	for _, id := range q.ManzilReviewAyahIDs {
		items = append(items, queueItem{Stage: models.StageReview, AyahID: id})
	}
	for _, link := range q.RepairLinks {
		items = append(items, queueItem{Stage: models.StageLinkRepair, AyahID: link.FromAyahID, ToAyahID: link.ToAyahID})
	}
	for _, id := range q.NewAyahIDs {
		items = append(items, queueItem{Stage: models.StageNew, AyahID: id})
	}
	return items
}

// todaySummary renders the engine result header shown before a session
func todaySummary(result *models.TodayEngineResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Today's plan (%s mode)\n", result.Mode)
	fmt.Fprintf(&sb, "Review debt: %.0f min (%.0f%% of budget)\n", result.ReviewDebtMinutes, result.DebtRatioPct)

	q := result.Queue
	if len(q.WarmupAyahIDs) > 0 {
		fmt.Fprintf(&sb, "Warm-up: %d\n", len(q.WarmupAyahIDs))
	}
	if len(q.WeeklyGateAyahIDs) > 0 {
		fmt.Fprintf(&sb, "Weekly test: %d\n", len(q.WeeklyGateAyahIDs))
	}
	reviews := len(q.SabqiReviewAyahIDs) + len(q.ManzilReviewAyahIDs)
	if reviews > 0 {
		fmt.Fprintf(&sb, "Reviews: %d\n", reviews)
	}
	if len(q.RepairLinks) > 0 {
		fmt.Fprintf(&sb, "Link drills: %d\n", len(q.RepairLinks))
	}
	if len(q.NewAyahIDs) > 0 {
		fmt.Fprintf(&sb, "New ayahs: %d\n", len(q.NewAyahIDs))
	} else if !result.NewUnlocked {
		sb.WriteString("New material is locked until the backlog clears.\n")
	}
	return sb.String()
}
