package state

// Event is a marker interface for inputs consumed by Reduce. Events
// are emitted by the agent loop after a successful remote exchange (or
// a connectivity transition); failed exchanges emit nothing, which is
// what keeps stale state bit-for-bit intact on failure.
type Event interface {
	isAgentEvent()
}

// EventBase is embedded by event structs to satisfy Event.
type EventBase struct{}

func (EventBase) isAgentEvent() {}

// EvConnectionChanged mirrors a transport state change into the
// snapshot.
type EvConnectionChanged struct {
	EventBase
	Conn ConnectionState
}

// EvScheduleFetched carries a successful schedule fetch.
type EvScheduleFetched struct {
	EventBase
	Schedule ScheduleRecord
}

// EvSummaryFetched carries a successful summary fetch.
type EvSummaryFetched struct {
	EventBase
	Summary SummaryRecord
}

// EvIntakeLogged carries the summary echo of a successful intake-log
// write.
type EvIntakeLogged struct {
	EventBase
	TotalIntakeLiters float64
	GoalLiters        float64
	// ProgressPercent is already clamped at the wire boundary.
	ProgressPercent int
}

// EvReminderPolled carries a successful reminder poll, due or not.
type EvReminderPolled struct {
	EventBase
	ServerTimeUTC string
	RemindNow     bool
	Reason        string
	Title         string
	Message       string
	Animation     string
}

// Effect is a marker interface for side effects requested by Reduce.
// Effects are data; the agent loop interprets them in order within the
// same iteration, so tone state and visual state cannot desynchronize.
type Effect interface {
	isAgentEffect()
}

// EffectBase is embedded by effect structs to satisfy Effect.
type EffectBase struct{}

func (EffectBase) isAgentEffect() {}

// EffStartTone starts the reminder tone.
type EffStartTone struct{ EffectBase }

// EffStopTone silences the reminder tone.
type EffStopTone struct{ EffectBase }

// EffRepaint requests a full-surface repaint from the renderer.
type EffRepaint struct{ EffectBase }

// EffSendAck requests a fire-and-forget reminder acknowledgment POST.
type EffSendAck struct{ EffectBase }
