// Package state holds the authoritative in-memory snapshot of the
// device agent and the pure reducer that reconciles successful remote
// exchanges into it.
//
// The core idea mirrors an actor-style loop:
//   - A single loop goroutine owns the AgentState.
//   - Reduce is a pure transition function over (state, event).
//   - Side effects (tone, repaint, ack) come back as declarative
//     effects interpreted by the loop.
//
// This keeps reminder edge-triggering and the percent clamp invariant
// testable without any hardware or network in the picture.
package state

// ConnectionState is the WiFi association status, owned by the
// transport and mirrored here for rendering.
type ConnectionState int

const (
	// Disconnected means no association attempt is in progress.
	Disconnected ConnectionState = iota
	// Connecting means station-mode radio bring-up has started.
	Connecting
	// Authenticating means enterprise credentials are being presented.
	Authenticating
	// Connected means the radio reports an established association.
	Connected
)

// String returns a short lowercase name for logs.
func (c ConnectionState) String() string {
	switch c {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Authenticating:
		return "authenticating"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// ScheduleRecord is the reminder schedule as last fetched from the
// server. It is replaced wholesale on every successful schedule fetch,
// never partially merged.
type ScheduleRecord struct {
	IntervalMinutes int
	DailyGoalLiters float64
	// WindowStart and WindowEnd are "HH:MM" local-time strings.
	WindowStart string
	WindowEnd   string
}

// SummaryRecord is the hydration/stress summary as last fetched.
// Percent fields are clamped to [0,100] at the wire boundary before
// they ever reach this record.
type SummaryRecord struct {
	ServerTimeUTC     string
	WaterPercent      int
	StressPercent     int
	TotalIntakeLiters float64
	DailyGoalLiters   float64
	NextReminderAt    string
}

// ReminderState tracks the active reminder alert. Transitions are
// edge-triggered: tone and ack side effects fire only when Active
// flips, never while it is held steady.
type ReminderState struct {
	Active       bool
	Title        string
	Message      string
	AnimationTag string
}

// AgentState is the complete loop-owned snapshot. There is exactly one
// writer (the agent loop), so no locking discipline is needed.
type AgentState struct {
	Conn     ConnectionState
	Schedule ScheduleRecord
	Summary  SummaryRecord
	Reminder ReminderState
}

// ClampPercent restricts a wire percent value to [0,100]. Every percent
// parsed off the wire passes through here before storage, so malformed
// upstream data cannot corrupt the local invariant.
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
