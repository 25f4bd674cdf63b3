package agent_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Audreyz7/DeerHacks26/internal/agent"
	"github.com/Audreyz7/DeerHacks26/internal/agent/agenttest"
	"github.com/Audreyz7/DeerHacks26/internal/config"
	"github.com/Audreyz7/DeerHacks26/internal/console"
	"github.com/Audreyz7/DeerHacks26/internal/platform/platformtest"
	"github.com/Audreyz7/DeerHacks26/internal/render"
	"github.com/Audreyz7/DeerHacks26/internal/state"
	"github.com/Audreyz7/DeerHacks26/internal/transport"
	"github.com/Audreyz7/DeerHacks26/internal/waterapi"
)

// fakeBackend scripts the water API for loop-level tests.
type fakeBackend struct {
	mu sync.Mutex

	remindNow     bool
	reason        string
	waterPercent  int
	stressPercent int
	summaryStatus int
	intakeStatus  int

	acks    int
	polls   int
	intakes int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		reason:        "not_due_yet",
		waterPercent:  40,
		stressPercent: 20,
		summaryStatus: http.StatusOK,
		intakeStatus:  http.StatusCreated,
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/water/poll", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.polls++
		resp := map[string]any{
			"remind_now":      b.remindNow,
			"reason":          b.reason,
			"server_time_utc": "2026-02-01T10:00:00+00:00",
		}
		if b.remindNow {
			resp["payload"] = map[string]string{
				"title":     "Drink water",
				"message":   "Time to hydrate!",
				"animation": "WATER_DROP",
			}
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/water/ack", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.acks++
		io.WriteString(w, `{"ok": true}`)
	})
	mux.HandleFunc("/api/water/device-status", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.summaryStatus != http.StatusOK {
			http.Error(w, "unavailable", b.summaryStatus)
			return
		}
		fmt.Fprintf(w, `{
			"server_time_utc": "2026-02-01T10:00:00+00:00",
			"water_percent": %d,
			"stress_percent": %d,
			"water": {"total_intake_liters": 1.0, "goal_liters": 2.5, "next_reminder_at": "2026-02-01T10:30:00+00:00"}
		}`, b.waterPercent, b.stressPercent)
	})
	mux.HandleFunc("/api/water/schedule", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"interval_min": 45, "daily_goal_liters": 2.5, "start_time": "09:00", "end_time": "21:00"}`)
	})
	mux.HandleFunc("/api/water/intake", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.intakes++
		if b.intakeStatus != http.StatusCreated {
			http.Error(w, "boom", b.intakeStatus)
			return
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"ok": true, "summary": {"today": {"total_intake_liters": 1.25, "goal_liters": 2.5, "progress_percent": 50}}}`)
	})
	return mux
}

func (b *fakeBackend) set(fn func(*fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *fakeBackend) ackCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acks
}

func (b *fakeBackend) pollCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls
}

func (b *fakeBackend) intakeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.intakes
}

type loopFixture struct {
	agent   *agent.Agent
	backend *fakeBackend
	clock   *agenttest.FakeClock
	surface *platformtest.FakeSurface
	tone    *platformtest.FakeTone
}

func newLoopFixture(t *testing.T, consoleInput io.Reader) *loopFixture {
	t.Helper()

	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		BaseURL:                 srv.URL,
		UserID:                  "audrey",
		IntakeAmountML:          250,
		ReminderPollInterval:    30 * time.Second,
		SummaryRefreshInterval:  5 * time.Minute,
		ScheduleRefreshInterval: 15 * time.Minute,
	}

	surface := platformtest.NewFakeSurface()
	tone := &platformtest.FakeTone{}
	radio := &platformtest.FakeRadio{}
	tr := transport.New(radio, transport.Config{SSID: "test-net"}, nil)

	api, err := waterapi.New(cfg.BaseURL, cfg.UserID, tr, waterapi.TLSConfig{})
	require.NoError(t, err)

	if consoleInput == nil {
		consoleInput = strings.NewReader("")
	}
	clock := agenttest.NewFakeClock(time.UnixMilli(1_000_000))

	a := agent.New(agent.Params{
		Config:    cfg,
		Transport: tr,
		API:       api,
		Renderer:  render.New(surface),
		Tone:      tone,
		Console:   console.New(consoleInput),
		Clock:     clock,
	})
	return &loopFixture{agent: a, backend: backend, clock: clock, surface: surface, tone: tone}
}

func TestTickRunsNothingBeforeFirstCadence(t *testing.T) {
	t.Parallel()

	f := newLoopFixture(t, nil)
	f.agent.Tick(context.Background())

	require.Equal(t, 0, f.backend.pollCount())
	require.Equal(t, state.Connected, f.agent.State().Conn)
	// The reconnect transition repainted once.
	require.Equal(t, 1, f.surface.Presents)
}

func TestReminderLifecycleEndToEnd(t *testing.T) {
	t.Parallel()

	f := newLoopFixture(t, nil)
	ctx := context.Background()

	f.agent.Tick(ctx) // boot: associate, nothing due

	// First cadence tick: not due yet on the server side.
	f.clock.Advance(30 * time.Second)
	f.agent.Tick(ctx)
	require.Equal(t, 1, f.backend.pollCount())
	require.False(t, f.agent.State().Reminder.Active)
	require.False(t, f.tone.Active())

	// Server starts reminding: activation edge.
	f.backend.set(func(b *fakeBackend) { b.remindNow = true; b.reason = "due" })
	f.clock.Advance(30 * time.Second)
	f.agent.Tick(ctx)

	st := f.agent.State()
	require.True(t, st.Reminder.Active)
	require.Equal(t, "Drink water", st.Reminder.Title)
	require.Equal(t, "WATER_DROP", st.Reminder.AnimationTag)
	require.True(t, f.tone.Active())
	require.Equal(t, 1, f.backend.ackCount())
	require.True(t, f.surface.HasText("TIME TO HYDRATE!"))

	toneWrites := len(f.tone.Calls)

	// Same response repeats: no second ack, no tone restart.
	f.clock.Advance(30 * time.Second)
	f.agent.Tick(ctx)
	require.Equal(t, 1, f.backend.ackCount())
	require.Len(t, f.tone.Calls, toneWrites)
	require.True(t, f.agent.State().Reminder.Active)

	// Deactivation edge: tone stops.
	f.backend.set(func(b *fakeBackend) { b.remindNow = false; b.reason = "not_due_yet" })
	f.clock.Advance(30 * time.Second)
	f.agent.Tick(ctx)
	require.False(t, f.agent.State().Reminder.Active)
	require.False(t, f.tone.Active())
}

func TestFailedSummaryKeepsStateBitForBitIdentical(t *testing.T) {
	t.Parallel()

	f := newLoopFixture(t, nil)
	ctx := context.Background()

	f.agent.Tick(ctx)

	// Successful summary refresh first.
	f.clock.Advance(5 * time.Minute)
	f.agent.Tick(ctx)
	before := f.agent.State()
	require.Equal(t, 40, before.Summary.WaterPercent)

	// Backend starts failing; the next cadence tick must not touch
	// state.
	f.backend.set(func(b *fakeBackend) { b.summaryStatus = http.StatusInternalServerError })
	f.clock.Advance(5 * time.Minute)
	f.agent.Tick(ctx)
	require.Equal(t, before, f.agent.State())

	// Recovery: the following cadence tick performs a normal fetch.
	f.backend.set(func(b *fakeBackend) {
		b.summaryStatus = http.StatusOK
		b.waterPercent = 70
	})
	f.clock.Advance(5 * time.Minute)
	f.agent.Tick(ctx)
	require.Equal(t, 70, f.agent.State().Summary.WaterPercent)
}

func TestSummaryPercentClampAtLoopLevel(t *testing.T) {
	t.Parallel()

	f := newLoopFixture(t, nil)
	ctx := context.Background()
	f.agent.Tick(ctx)

	f.backend.set(func(b *fakeBackend) {
		b.waterPercent = 130
		b.stressPercent = -5
	})
	f.clock.Advance(5 * time.Minute)
	f.agent.Tick(ctx)

	st := f.agent.State()
	require.Equal(t, 100, st.Summary.WaterPercent)
	require.Equal(t, 0, st.Summary.StressPercent)
}

func TestDrinkCommandLogsIntakeThenRefreshesSummary(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	f := newLoopFixture(t, pr)
	ctx := context.Background()

	f.agent.Tick(ctx)

	go pw.Write([]byte("drink\n"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.agent.Tick(ctx)
		if f.backend.intakeCount() > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, f.backend.intakeCount())
	// The follow-up summary refresh overwrote the intake echo with the
	// server's summary record.
	require.Equal(t, 40, f.agent.State().Summary.WaterPercent)
	require.Equal(t, 1.0, f.agent.State().Summary.TotalIntakeLiters)
}

func TestIntakeFailureLeavesSummaryUnchanged(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	f := newLoopFixture(t, pr)
	ctx := context.Background()

	f.agent.Tick(ctx)
	f.clock.Advance(5 * time.Minute)
	f.agent.Tick(ctx) // seed summary
	before := f.agent.State().Summary

	f.backend.set(func(b *fakeBackend) {
		b.intakeStatus = http.StatusInternalServerError
		b.summaryStatus = http.StatusInternalServerError
	})

	go pw.Write([]byte("drink\n"))
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.agent.Tick(ctx)
		if f.backend.intakeCount() > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, f.backend.intakeCount())
	require.Equal(t, before, f.agent.State().Summary)
}
