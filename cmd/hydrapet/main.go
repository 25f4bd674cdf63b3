// Command hydrapet runs the hydration companion's device loop on a
// host terminal: the 128x128 forest scene, the reminder buzzer and the
// serial console all map onto the controlling TTY.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Audreyz7/DeerHacks26/internal/agent"
	"github.com/Audreyz7/DeerHacks26/internal/config"
	"github.com/Audreyz7/DeerHacks26/internal/console"
	"github.com/Audreyz7/DeerHacks26/internal/platform"
	"github.com/Audreyz7/DeerHacks26/internal/platform/term"
	"github.com/Audreyz7/DeerHacks26/internal/render"
	"github.com/Audreyz7/DeerHacks26/internal/transport"
	"github.com/Audreyz7/DeerHacks26/internal/version"
	"github.com/Audreyz7/DeerHacks26/internal/waterapi"
	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Errorf("hydrapet: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return err
	}

	logger.SetLevel(cfg.LogLevel)
	// The panel owns stdout; logs go to stderr only.
	logger.SetOutput(os.Stderr)

	if cfg.Debug {
		logger.Debugf("config: base=%s user=%s poll=%s summary=%s schedule=%s",
			cfg.BaseURL, cfg.UserID,
			cfg.ReminderPollInterval, cfg.SummaryRefreshInterval, cfg.ScheduleRefreshInterval)
	}

	display := term.NewStdoutDisplay(os.Stdout)
	display.Open()
	defer display.Close()

	renderer := render.New(display)
	tone := term.NewTone(display, os.Stdout)

	var radio platform.Radio = &platform.HostRadio{}
	tr := transport.New(radio, transport.Config{
		SSID:     cfg.WifiSSID,
		Identity: cfg.WifiIdentity,
		Username: cfg.WifiUsername,
		Password: cfg.WifiPassword,
	}, renderer.DrawStatus)

	rootCA, err := cfg.RootCAPEM()
	if err != nil {
		return err
	}
	api, err := waterapi.New(cfg.BaseURL, cfg.UserID, tr, waterapi.TLSConfig{
		InsecureDev: cfg.TLSInsecureDev,
		RootCAPEM:   rootCA,
	})
	if err != nil {
		return fmt.Errorf("failed to build API client: %w", err)
	}

	a := agent.New(agent.Params{
		Config:    cfg,
		Transport: tr,
		API:       api,
		Renderer:  renderer,
		Tone:      tone,
		Console:   console.New(os.Stdin),
		Clock:     agent.RealClock{},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("hydrapet v%s: starting, server %s", version.Version(), cfg.BaseURL)
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Infof("hydrapet: shutting down")
	return nil
}

func parseFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("hydrapet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	baseURL := fs.String("server", "", "API base URL (overrides API_BASE_URL)")
	userID := fs.String("user", "", "paired user id (overrides WATER_USER_ID)")
	insecure := fs.Bool("insecure-dev", false, "skip TLS verification (development only)")
	pollEvery := fs.Duration("poll-interval", 0, "reminder poll cadence")
	showHelp := fs.Bool("help", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}
	if *showVersion {
		fmt.Printf("hydrapet v%s\n", version.RichVersion())
		os.Exit(0)
	}

	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *userID != "" {
		cfg.UserID = *userID
	}
	if *insecure {
		cfg.TLSInsecureDev = true
	}
	if *pollEvery > 0 {
		cfg.ReminderPollInterval = *pollEvery
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument %q", rest[0])
	}
	return nil
}

func printUsage() {
	fmt.Println(`hydrapet - hydration companion device loop

Usage:
  hydrapet             Run the device loop on this terminal
  hydrapet --help      Show this help message

Console commands (type on stdin while running):
  drink                Log one intake and refresh the summary
  summary              Refresh the wellness summary now
  schedule             Refresh the hydration schedule now
  poll                 Poll the reminder endpoint now

Environment Variables:
  API_BASE_URL               API base URL (required)
  WATER_USER_ID              Paired user id (required)
  WIFI_SSID                  Network name shown while associating
  WIFI_IDENTITY              Enterprise identity (defaults to username)
  WIFI_USERNAME              Enterprise username
  WIFI_PASSWORD              Enterprise password
  TLS_INSECURE_DEV           Skip TLS verification (true/1)
  ROOT_CA_FILE               PEM bundle to pin for https
  WATER_INTAKE_ML            Amount logged by "drink" (default 250)
  REMINDER_POLL_INTERVAL     Reminder poll cadence (default 30s)
  SUMMARY_REFRESH_INTERVAL   Summary refresh cadence (default 5m)
  SCHEDULE_REFRESH_INTERVAL  Schedule refresh cadence (default 15m)
  LOG_LEVEL                  trace|debug|info|warn|error
  DEBUG                      Enable debug logging (true/1)

Flags:
  --server             API base URL
  --user               Paired user id
  --insecure-dev       Skip TLS verification
  --poll-interval      Reminder poll cadence
  --version            Show version information`)
}
