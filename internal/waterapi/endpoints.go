package waterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Audreyz7/DeerHacks26/internal/state"
	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// Reminder payload defaults when the server omits the optional fields.
const (
	defaultReminderTitle   = "Drink water"
	defaultReminderMessage = "Time to hydrate!"
)

type scheduleResponse struct {
	IntervalMin     int     `json:"interval_min"`
	DailyGoalLiters float64 `json:"daily_goal_liters"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
}

// FetchSchedule performs GET /api/water/schedule and returns the
// wholesale replacement ScheduleRecord.
func (c *Client) FetchSchedule(ctx context.Context) (state.ScheduleRecord, error) {
	var zero state.ScheduleRecord
	endpoint := c.baseURL + "/api/water/schedule?user_id=" + url.QueryEscape(c.userID)

	code, payload, err := c.exchange(ctx, http.MethodGet, endpoint, nil, scheduleResponseCap)
	if err != nil {
		return zero, fmt.Errorf("schedule fetch: %w", err)
	}
	if code != http.StatusOK {
		return zero, fmt.Errorf("schedule fetch: %w: got %d", ErrStatus, code)
	}

	var resp scheduleResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return zero, fmt.Errorf("schedule fetch: %w: %v", ErrParse, err)
	}

	rec := state.ScheduleRecord{
		IntervalMinutes: resp.IntervalMin,
		DailyGoalLiters: resp.DailyGoalLiters,
		WindowStart:     resp.StartTime,
		WindowEnd:       resp.EndTime,
	}
	logger.Infof("waterapi: schedule every %d min, window %s-%s, goal %.2f L",
		rec.IntervalMinutes, rec.WindowStart, rec.WindowEnd, rec.DailyGoalLiters)
	return rec, nil
}

type summaryResponse struct {
	ServerTimeUTC string `json:"server_time_utc"`
	WaterPercent  int    `json:"water_percent"`
	StressPercent int    `json:"stress_percent"`
	Water         struct {
		TotalIntakeLiters float64 `json:"total_intake_liters"`
		GoalLiters        float64 `json:"goal_liters"`
		NextReminderAt    string  `json:"next_reminder_at"`
	} `json:"water"`
}

// FetchSummary performs GET /api/water/device-status and returns the
// wholesale replacement SummaryRecord. Percent fields are clamped here,
// at the wire boundary, regardless of what the server sent.
func (c *Client) FetchSummary(ctx context.Context) (state.SummaryRecord, error) {
	var zero state.SummaryRecord
	endpoint := c.baseURL + "/api/water/device-status?user_id=" + url.QueryEscape(c.userID)

	code, payload, err := c.exchange(ctx, http.MethodGet, endpoint, nil, summaryResponseCap)
	if err != nil {
		return zero, fmt.Errorf("summary fetch: %w", err)
	}
	if code != http.StatusOK {
		return zero, fmt.Errorf("summary fetch: %w: got %d", ErrStatus, code)
	}

	var resp summaryResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return zero, fmt.Errorf("summary fetch: %w: %v", ErrParse, err)
	}

	rec := state.SummaryRecord{
		ServerTimeUTC:     resp.ServerTimeUTC,
		WaterPercent:      state.ClampPercent(resp.WaterPercent),
		StressPercent:     state.ClampPercent(resp.StressPercent),
		TotalIntakeLiters: resp.Water.TotalIntakeLiters,
		DailyGoalLiters:   resp.Water.GoalLiters,
		NextReminderAt:    resp.Water.NextReminderAt,
	}
	logger.Infof("waterapi: summary water=%d%% stress=%d%%, %.2f / %.2f L",
		rec.WaterPercent, rec.StressPercent, rec.TotalIntakeLiters, rec.DailyGoalLiters)
	return rec, nil
}

type reminderPollResponse struct {
	ServerTimeUTC string `json:"server_time_utc"`
	RemindNow     bool   `json:"remind_now"`
	Reason        string `json:"reason"`
	Payload       struct {
		Title     string `json:"title"`
		Message   string `json:"message"`
		Animation string `json:"animation"`
	} `json:"payload"`
}

// ReminderPoll is the decoded result of one reminder poll.
type ReminderPoll struct {
	ServerTimeUTC string
	RemindNow     bool
	Reason        string
	Title         string
	Message       string
	Animation     string
}

// PollReminder performs GET /api/water/poll. When a reminder is due and
// the optional payload fields are missing, the stock alert text is
// substituted.
func (c *Client) PollReminder(ctx context.Context) (ReminderPoll, error) {
	var zero ReminderPoll
	endpoint := c.baseURL + "/api/water/poll?user_id=" + url.QueryEscape(c.userID)

	code, payload, err := c.exchange(ctx, http.MethodGet, endpoint, nil, reminderResponseCap)
	if err != nil {
		return zero, fmt.Errorf("reminder poll: %w", err)
	}
	if code != http.StatusOK {
		return zero, fmt.Errorf("reminder poll: %w: got %d", ErrStatus, code)
	}

	var resp reminderPollResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return zero, fmt.Errorf("reminder poll: %w: %v", ErrParse, err)
	}

	out := ReminderPoll{
		ServerTimeUTC: resp.ServerTimeUTC,
		RemindNow:     resp.RemindNow,
		Reason:        resp.Reason,
		Title:         resp.Payload.Title,
		Message:       resp.Payload.Message,
		Animation:     resp.Payload.Animation,
	}
	if out.Reason == "" {
		out.Reason = "unknown"
	}
	if out.RemindNow {
		if out.Title == "" {
			out.Title = defaultReminderTitle
		}
		if out.Message == "" {
			out.Message = defaultReminderMessage
		}
	}
	logger.Infof("waterapi: poll remind_now=%t reason=%s", out.RemindNow, out.Reason)
	return out, nil
}

// AcknowledgeReminder performs the fire-and-forget POST /api/water/ack.
// Callers log failures and move on: the next poll cycle is the
// idempotent confirmation.
func (c *Client) AcknowledgeReminder(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"user_id": c.userID})
	if err != nil {
		return fmt.Errorf("reminder ack: %w: %v", ErrParse, err)
	}

	code, _, err := c.exchange(ctx, http.MethodPost, c.baseURL+"/api/water/ack", body, ackResponseCap)
	if err != nil {
		return fmt.Errorf("reminder ack: %w", err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("reminder ack: %w: got %d", ErrStatus, code)
	}
	logger.Infof("waterapi: reminder acknowledged")
	return nil
}

type intakeResponse struct {
	Summary struct {
		Today struct {
			TotalIntakeLiters float64 `json:"total_intake_liters"`
			GoalLiters        float64 `json:"goal_liters"`
			ProgressPercent   int     `json:"progress_percent"`
		} `json:"today"`
	} `json:"summary"`
}

// IntakeResult is the summary echo of a logged intake.
type IntakeResult struct {
	TotalIntakeLiters float64
	GoalLiters        float64
	ProgressPercent   int
}

// LogIntake performs POST /api/water/intake. The write is confirmed
// with 201; any other status is treated like a transport failure and
// leaves local state untouched.
func (c *Client) LogIntake(ctx context.Context, amountML int) (IntakeResult, error) {
	var zero IntakeResult
	body, err := json.Marshal(map[string]any{
		"user_id":   c.userID,
		"amount_ml": amountML,
		"source":    "esp32",
	})
	if err != nil {
		return zero, fmt.Errorf("intake log: %w: %v", ErrParse, err)
	}

	code, payload, err := c.exchange(ctx, http.MethodPost, c.baseURL+"/api/water/intake", body, intakeResponseCap)
	if err != nil {
		return zero, fmt.Errorf("intake log: %w", err)
	}
	if code != http.StatusCreated {
		return zero, fmt.Errorf("intake log: %w: got %d", ErrStatus, code)
	}

	var resp intakeResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return zero, fmt.Errorf("intake log: %w: %v", ErrParse, err)
	}

	today := resp.Summary.Today
	result := IntakeResult{
		TotalIntakeLiters: today.TotalIntakeLiters,
		GoalLiters:        today.GoalLiters,
		ProgressPercent:   state.ClampPercent(today.ProgressPercent),
	}
	logger.Infof("waterapi: logged intake %d mL, total now %.2f L", amountML, result.TotalIntakeLiters)
	return result, nil
}
