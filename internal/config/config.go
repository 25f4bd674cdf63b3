// Package config resolves the static provisioning record the agent
// boots with. Values come from the environment, optionally seeded from
// a .env file, mirroring the firmware's compiled-in secrets header.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Audreyz7/DeerHacks26/internal/sched"
	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// defaultIntakeAmountML is the quantity logged by the "drink" console
// command.
const defaultIntakeAmountML = 250

// Config is the resolved provisioning record. It is immutable once
// loaded; nothing on the device persists across restarts.
type Config struct {
	// BaseURL is the API base, without a trailing slash.
	BaseURL string
	// UserID identifies the paired account on every exchange.
	UserID string

	// WiFi association. Username+Password switch association to the
	// enterprise identity flow; Identity defaults to Username.
	WifiSSID     string
	WifiIdentity string
	WifiUsername string
	WifiPassword string

	// TLSInsecureDev disables certificate verification for https base
	// URLs. Development-only, explicit trust trade-off.
	TLSInsecureDev bool
	// RootCAFile points at a PEM bundle to pin instead.
	RootCAFile string

	IntakeAmountML int

	ReminderPollInterval    time.Duration
	SummaryRefreshInterval  time.Duration
	ScheduleRefreshInterval time.Duration

	LogLevel logger.Level
	Debug    bool
}

// Load loads configuration from the environment and defaults. A .env
// file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is fine; provisioning may come from the real env.
	_ = godotenv.Load()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	userID := os.Getenv("WATER_USER_ID")
	if userID == "" {
		return nil, fmt.Errorf("WATER_USER_ID is required")
	}

	debug := os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1"
	level := logger.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := logger.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		level = parsed
	} else if debug {
		level = logger.LevelDebug
	}

	intake, err := intEnv("WATER_INTAKE_ML", defaultIntakeAmountML)
	if err != nil {
		return nil, err
	}
	if intake <= 0 {
		return nil, fmt.Errorf("WATER_INTAKE_ML must be positive, got %d", intake)
	}

	reminderEvery, err := durationEnv("REMINDER_POLL_INTERVAL", sched.DefaultReminderPollPeriod)
	if err != nil {
		return nil, err
	}
	summaryEvery, err := durationEnv("SUMMARY_REFRESH_INTERVAL", sched.DefaultSummaryRefreshPeriod)
	if err != nil {
		return nil, err
	}
	scheduleEvery, err := durationEnv("SCHEDULE_REFRESH_INTERVAL", sched.DefaultScheduleRefreshPeriod)
	if err != nil {
		return nil, err
	}

	return &Config{
		BaseURL:                 trimTrailingSlash(baseURL),
		UserID:                  userID,
		WifiSSID:                os.Getenv("WIFI_SSID"),
		WifiIdentity:            os.Getenv("WIFI_IDENTITY"),
		WifiUsername:            os.Getenv("WIFI_USERNAME"),
		WifiPassword:            os.Getenv("WIFI_PASSWORD"),
		TLSInsecureDev:          os.Getenv("TLS_INSECURE_DEV") == "true" || os.Getenv("TLS_INSECURE_DEV") == "1",
		RootCAFile:              os.Getenv("ROOT_CA_FILE"),
		IntakeAmountML:          intake,
		ReminderPollInterval:    reminderEvery,
		SummaryRefreshInterval:  summaryEvery,
		ScheduleRefreshInterval: scheduleEvery,
		LogLevel:                level,
		Debug:                   debug,
	}, nil
}

// RootCAPEM reads the pinned root certificate bundle, when configured.
func (c *Config) RootCAPEM() ([]byte, error) {
	if c.RootCAFile == "" {
		return nil, nil
	}
	pem, err := os.ReadFile(c.RootCAFile)
	if err != nil {
		return nil, fmt.Errorf("read root CA: %w", err)
	}
	return pem, nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return d, nil
}
