package bot

import "time"

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// How long an abandoned session is kept before being discarded
	SessionTimeout time.Duration
	// Default per-item duration recorded when timing is unavailable
	FallbackDurationSec int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		SessionTimeout:      2 * time.Hour,
		FallbackDurationSec: 30,
	}
}
