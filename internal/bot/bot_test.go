package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/hifzbot/pkg/models"
)

// Two AGAINs on the warm-up fail the gate, so the new-material tail
// must be locked mid-session.
func TestNewMaterialLockedByWarmupFailure(t *testing.T) {
	events := []models.SessionEvent{
		{Stage: models.StageWarmup, Grade: models.GradeAgain},
		{Stage: models.StageWarmup, Grade: models.GradeAgain},
		{Stage: models.StageReview, Grade: models.GradeGood},
	}
	assert.True(t, newMaterialLocked(events))
}

func TestNewMaterialUnlockedByWarmupPass(t *testing.T) {
	events := []models.SessionEvent{
		{Stage: models.StageWarmup, Grade: models.GradeGood},
		{Stage: models.StageWarmup, Grade: models.GradeEasy},
	}
	assert.False(t, newMaterialLocked(events))
}

// No warm-up items in the session means nothing blocks new material.
func TestNewMaterialUnlockedWithoutWarmup(t *testing.T) {
	events := []models.SessionEvent{
		{Stage: models.StageReview, Grade: models.GradeAgain},
	}
	assert.False(t, newMaterialLocked(events))
}

func TestQueueAyahIDs(t *testing.T) {
	items := []queueItem{
		{Stage: models.StageWarmup, AyahID: 10},
		{Stage: models.StageReview, AyahID: 10}, // duplicate collapses
		{Stage: models.StageLinkRepair, AyahID: 11, ToAyahID: 12},
		{Stage: models.StageNew, AyahID: 13},
	}
	assert.Equal(t, []int{10, 11, 12, 13}, queueAyahIDs(items))
	assert.Empty(t, queueAyahIDs(nil))
}

func TestDescribeAyahFallsBackToLabel(t *testing.T) {
	// Surah 67 (Al-Mulk) starts at global id 5241.
	catalog := map[int]models.Ayah{
		5241: {ID: 5241, SurahNumber: 67, AyahNumber: 1, Text: "تَبَارَكَ الَّذِي بِيَدِهِ الْمُلْكُ"},
	}
	withText := describeAyah(5241, catalog)
	assert.Contains(t, withText, "Al-Mulk 67:1")
	assert.Contains(t, withText, "تَبَارَكَ")

	// Missing catalog row: label only.
	assert.Equal(t, "Al-Mulk 67:2", describeAyah(5242, catalog))
	assert.Equal(t, "Al-Mulk 67:2", describeAyah(5242, nil))
}

func TestParseBudgetMinutes(t *testing.T) {
	minutes, err := parseBudgetMinutes(" 45 ")
	assert.NoError(t, err)
	assert.Equal(t, 45, minutes)

	for _, bad := range []string{"", "abc", "0", "4", "241", "-10"} {
		_, err := parseBudgetMinutes(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseNotifySetting(t *testing.T) {
	enabled, hour, err := parseNotifySetting("on")
	assert.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, -1, hour)

	enabled, hour, err = parseNotifySetting("OFF")
	assert.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, -1, hour)

	enabled, hour, err = parseNotifySetting("7")
	assert.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, 7, hour)

	for _, bad := range []string{"", "24", "-1", "noon"} {
		_, _, err := parseNotifySetting(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSettingsSummary(t *testing.T) {
	p := &models.UserProfile{DailyMinutes: 30, NotificationEnabled: true, NotificationHour: 9, Timezone: "Asia/Karachi"}
	s := settingsSummary(p)
	assert.Contains(t, s, "30 minutes")
	assert.Contains(t, s, "on at 09:00")
	assert.Contains(t, s, "Asia/Karachi")

	p.NotificationEnabled = false
	assert.Contains(t, settingsSummary(p), "Reminders: off")
}
