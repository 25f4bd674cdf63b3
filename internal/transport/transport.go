// Package transport owns the physical network association. It drives
// the radio through Disconnected → Connecting → Authenticating →
// Connected and exposes a single blocking ensure-connected operation.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/Audreyz7/DeerHacks26/internal/platform"
	"github.com/Audreyz7/DeerHacks26/internal/state"
	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// defaultPollInterval is how often the association status is polled
// while waiting for the radio.
const defaultPollInterval = 500 * time.Millisecond

// Config is the static association configuration resolved at
// provisioning time.
type Config struct {
	SSID string

	// Enterprise credentials. When Username and Password are both set,
	// association uses the enterprise identity flow instead of a
	// pre-shared key.
	Identity string
	Username string
	Password string

	// PollInterval overrides the association poll interval (tests).
	PollInterval time.Duration
}

// Enterprise reports whether enterprise authentication is configured.
func (c Config) Enterprise() bool {
	return c.Username != "" && c.Password != ""
}

// StatusFunc paints the connect status screen. It replaces the normal
// compositor output for as long as the transport is not connected.
type StatusFunc func(line1, line2 string)

// Transport is the connectivity state machine.
//
// EnsureConnected blocks the entire agent loop while associating: there
// is no backoff and no retry cap. This is a documented trade of
// other-work availability for simplicity; the status screen is the
// intended user-visible failure state when the network stays down.
type Transport struct {
	radio    platform.Radio
	cfg      Config
	onStatus StatusFunc

	conn state.ConnectionState

	// sleep is injectable for tests. It returns false when the context
	// was canceled during the wait.
	sleep func(ctx context.Context, d time.Duration) bool
}

// New creates a Transport over the given radio. onStatus may be nil.
func New(radio platform.Radio, cfg Config, onStatus StatusFunc) *Transport {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Transport{
		radio:    radio,
		cfg:      cfg,
		onStatus: onStatus,
		conn:     state.Disconnected,
		sleep:    sleepCtx,
	}
}

// State returns the current connection state.
func (t *Transport) State() state.ConnectionState { return t.conn }

// EnsureConnected is a no-op when already connected. Otherwise it
// restarts association and polls until the radio reports success or ctx
// is canceled. It returns true when a (re)association happened, so the
// caller can leave the status screen and repaint.
func (t *Transport) EnsureConnected(ctx context.Context) (bool, error) {
	if t.conn == state.Connected && t.radio.Connected() {
		return false, nil
	}

	t.status("Connecting WiFi", t.cfg.SSID)
	t.conn = state.Connecting

	// Restart association from a clean slate.
	if err := t.radio.Disconnect(); err != nil {
		logger.Debugf("transport: disconnect before associate: %v", err)
	}

	if t.cfg.Enterprise() {
		t.conn = state.Authenticating
		identity := t.cfg.Identity
		if identity == "" {
			identity = t.cfg.Username
		}
		if err := t.radio.EnableEnterprise(identity, t.cfg.Username, t.cfg.Password); err != nil {
			// Treated like any other association delay: log and keep
			// driving the radio; the poll loop below is the retry.
			logger.Warnf("transport: enterprise setup failed: %v", err)
		}
	}

	if err := t.radio.Begin(t.cfg.SSID); err != nil {
		return false, fmt.Errorf("begin association: %w", err)
	}

	for !t.radio.Connected() {
		if !t.sleep(ctx, t.cfg.PollInterval) {
			return false, ctx.Err()
		}
	}

	t.conn = state.Connected
	addr := t.radio.LocalAddr()
	logger.Infof("transport: wifi connected, addr %s", addr)
	t.status("WiFi connected", addr)
	return true, nil
}

func (t *Transport) status(line1, line2 string) {
	if t.onStatus != nil {
		t.onStatus(line1, line2)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
