package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/integration/google/gcal"
	"meetboard/cmd/internal/jobs"
)

type Config struct {
	DiscordToken   string `validate:"required"`
	BoardChannelID string `validate:"required,numeric"`

	CalendarID         string `validate:"required"`
	GoogleCredentials  string `validate:"required_without=GoogleRefreshToken"`
	GoogleClientID     string `validate:"required_with=GoogleRefreshToken"`
	GoogleClientSecret string `validate:"required_with=GoogleRefreshToken"`
	GoogleRefreshToken string

	Timezone     string `validate:"required,timezone"`
	DatabasePath string `validate:"required"`
	HTTPAddr     string `validate:"required"`
	JWTSecret    string `validate:"required,min=16"`

	ReminderSpec      string `validate:"required,cron"`
	BoardSpec         string `validate:"required,cron"`
	BoardStartupDelay time.Duration
}

// Load reads .env when present, then the process environment.
func Load(validate *validator.Validate) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		log.Info("no .env file, using the process environment")
	}
	return FromEnv(validate, os.Getenv)
}

// FromEnv builds the config from a lookup function so tests can skip the real environment.
func FromEnv(validate *validator.Validate, getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DiscordToken:       getenv("DISCORD_TOKEN"),
		BoardChannelID:     getenv("BOARD_CHANNEL_ID"),
		CalendarID:         getenv("GOOGLE_CALENDAR_ID"),
		GoogleCredentials:  getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleClientID:     getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRefreshToken: getenv("GOOGLE_REFRESH_TOKEN"),
		Timezone:           withDefault(getenv("TIMEZONE"), "Asia/Taipei"),
		DatabasePath:       withDefault(getenv("DATABASE_PATH"), "./database.db"),
		HTTPAddr:           withDefault(getenv("HTTP_ADDR"), ":6060"),
		JWTSecret:          getenv("JWT_SECRET"),
		ReminderSpec:       withDefault(getenv("REMINDER_SPEC"), jobs.DefaultReminderSpec),
		BoardSpec:          withDefault(getenv("BOARD_SPEC"), jobs.DefaultBoardSpec),
		BoardStartupDelay:  jobs.DefaultStartupDelay,
	}

	if raw := getenv("BOARD_STARTUP_DELAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("BOARD_STARTUP_DELAY %q must be a positive duration", raw)
		}
		cfg.BoardStartupDelay = d
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) GoogleCredentialsConfig() gcal.Credentials {
	return gcal.Credentials{
		CredentialsFile: c.GoogleCredentials,
		ClientID:        c.GoogleClientID,
		ClientSecret:    c.GoogleClientSecret,
		RefreshToken:    c.GoogleRefreshToken,
	}
}

func (c *Config) Schedule() jobs.Schedule {
	return jobs.Schedule{
		Reminders:    c.ReminderSpec,
		Board:        c.BoardSpec,
		StartupDelay: c.BoardStartupDelay,
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
