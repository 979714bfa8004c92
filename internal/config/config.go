// Package config provides configuration loading and validation for the
// botcheck tool. Values come from defaults, an optional config.yaml file,
// an optional .env file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when the bot token or channel ID is
// absent. Callers print it as-is and must not make any network call.
var ErrMissingCredentials = errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL_ID must be set")

// Config defines the application configuration parameters.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// TelegramConfig holds the credential, destination channel, and probe
// settings for the Telegram Bot API.
type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	ChannelID   string        `mapstructure:"channel_id"`
	BaseURL     string        `mapstructure:"base_url"     validate:"required,url"`
	TestMessage string        `mapstructure:"test_message" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout"      validate:"min=1s,max=5m"`
}

// LogConfig controls the structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// DatabaseConfig holds settings for the probe history store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// WatchConfig holds settings for the scheduled watch mode.
type WatchConfig struct {
	Schedule string `mapstructure:"schedule" validate:"required"`
	Alert    bool   `mapstructure:"alert"`
}

// Load reads configuration in order of precedence: defaults, the config
// file at configPath (a missing file is fine), and environment variables.
// A .env file in the working directory is loaded into the environment
// first, matching the original deployment convention.
//
// The token and channel ID are only checked for presence; no format
// validation is applied to either.
func Load(configPath string) (*Config, error) {
	// Convenience for local secrets; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// Preserve the environment variable names used by the wider bot
	// deployment rather than deriving them from the key names.
	bindings := map[string]string{
		"telegram.token":        "TELEGRAM_BOT_TOKEN",
		"telegram.channel_id":   "TELEGRAM_CHANNEL_ID",
		"telegram.base_url":     "TELEGRAM_BASE_URL",
		"telegram.test_message": "TELEGRAM_TEST_MESSAGE",
		"log.level":             "BOTCHECK_LOG_LEVEL",
		"log.format":            "BOTCHECK_LOG_FORMAT",
		"database.path":         "BOTCHECK_DB_PATH",
		"watch.schedule":        "BOTCHECK_WATCH_SCHEDULE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Telegram.Token == "" || cfg.Telegram.ChannelID == "" {
		return nil, ErrMissingCredentials
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
