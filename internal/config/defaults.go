package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultBaseURL = "https://api.telegram.org"

	// DefaultTestMessage is the diagnostic text sent by the send probe.
	// The wording is fixed so the message is recognizable in the channel.
	DefaultTestMessage = "🔍 Test message from ForexTradingBot\n\n" +
		"This is a test message to verify the bot and channel setup."

	DefaultTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultDBPath = "botcheck.db"

	DefaultWatchSchedule = "*/5 * * * *"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.base_url", DefaultBaseURL)
	v.SetDefault("telegram.test_message", DefaultTestMessage)
	v.SetDefault("telegram.timeout", DefaultTimeout)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("watch.schedule", DefaultWatchSchedule)
	v.SetDefault("watch.alert", true)
}
