package waterapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// alwaysConnected satisfies Connectivity for tests.
type alwaysConnected struct{}

func (alwaysConnected) EnsureConnected(ctx context.Context) (bool, error) { return false, nil }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "audrey", alwaysConnected{}, TLSConfig{})
	require.NoError(t, err)
	return c, srv
}

func TestFetchSummaryClampsPercentFields(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/water/device-status", r.URL.Path)
		require.Equal(t, "audrey", r.URL.Query().Get("user_id"))
		w.Write([]byte(`{
			"server_time_utc": "2026-02-01T10:00:00+00:00",
			"water_percent": 130,
			"stress_percent": -5,
			"water": {"total_intake_liters": 1.5, "goal_liters": 2.5, "next_reminder_at": null}
		}`))
	}))

	rec, err := c.FetchSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100, rec.WaterPercent)
	require.Equal(t, 0, rec.StressPercent)
	require.Equal(t, 1.5, rec.TotalIntakeLiters)
	require.Equal(t, 2.5, rec.DailyGoalLiters)
}

func TestFetchScheduleDecodesRecord(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/water/schedule", r.URL.Path)
		w.Write([]byte(`{"interval_min": 45, "daily_goal_liters": 2.5, "start_time": "09:00", "end_time": "21:00", "enabled": true}`))
	}))

	rec, err := c.FetchSchedule(context.Background())
	require.NoError(t, err)
	require.Equal(t, 45, rec.IntervalMinutes)
	require.Equal(t, 2.5, rec.DailyGoalLiters)
	require.Equal(t, "09:00", rec.WindowStart)
	require.Equal(t, "21:00", rec.WindowEnd)
}

func TestStatusMismatchIsAnError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.FetchSummary(context.Background())
	require.ErrorIs(t, err, ErrStatus)

	_, err = c.LogIntake(context.Background(), 250)
	require.ErrorIs(t, err, ErrStatus)
}

func TestIntakeRequiresCreatedStatus(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/water/intake", r.URL.Path)
		// 200 instead of 201: a non-matching status is treated like a
		// transport failure.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok": true}`))
	}))

	_, err := c.LogIntake(context.Background(), 250)
	require.ErrorIs(t, err, ErrStatus)
}

func TestIntakeDecodesTodaySummary(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.Contains(t, string(body), `"amount_ml":250`)
		require.Contains(t, string(body), `"source":"esp32"`)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok": true, "summary": {"today": {"total_intake_liters": 1.25, "goal_liters": 2.5, "progress_percent": 50}}}`))
	}))

	res, err := c.LogIntake(context.Background(), 250)
	require.NoError(t, err)
	require.Equal(t, IntakeResult{TotalIntakeLiters: 1.25, GoalLiters: 2.5, ProgressPercent: 50}, res)
}

func TestPollReminderSubstitutesDefaults(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"remind_now": true, "reason": "due", "server_time_utc": "2026-02-01T10:00:00+00:00"}`))
	}))

	poll, err := c.PollReminder(context.Background())
	require.NoError(t, err)
	require.True(t, poll.RemindNow)
	require.Equal(t, "Drink water", poll.Title)
	require.Equal(t, "Time to hydrate!", poll.Message)
	require.Empty(t, poll.Animation)
}

func TestPollReminderNotDue(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"remind_now": false, "reason": "outside_window", "server_time_utc": "2026-02-01T23:00:00+00:00"}`))
	}))

	poll, err := c.PollReminder(context.Background())
	require.NoError(t, err)
	require.False(t, poll.RemindNow)
	require.Equal(t, "outside_window", poll.Reason)
	// No defaults injected while not due.
	require.Empty(t, poll.Title)
}

func TestParseFailureOnMalformedBody(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"water_percent": `))
	}))

	_, err := c.FetchSummary(context.Background())
	require.ErrorIs(t, err, ErrParse)
}

func TestParseFailureOnOverBudgetBody(t *testing.T) {
	t.Parallel()

	// A syntactically valid body bigger than the schedule budget.
	huge := `{"interval_min": 45, "pad": "` + strings.Repeat("x", scheduleResponseCap) + `"}`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(huge))
	}))

	_, err := c.FetchSchedule(context.Background())
	require.ErrorIs(t, err, ErrParse)
}

func TestAcknowledgeReminder(t *testing.T) {
	t.Parallel()

	var acks int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/water/ack", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		acks++
		w.Write([]byte(`{"ok": true}`))
	}))

	require.NoError(t, c.AcknowledgeReminder(context.Background()))
	require.Equal(t, 1, acks)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c, err := New(srv.URL, "audrey", alwaysConnected{}, TLSConfig{})
	require.NoError(t, err)

	_, err = c.FetchSummary(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}
