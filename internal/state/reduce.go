package state

// Reduce is the agent reducer. It applies one event to the snapshot and
// returns the next snapshot plus the effects the loop must execute.
//
// Reduce never performs I/O and never reads a clock; it is
// deterministic for a given (state, event) pair.
func Reduce(state AgentState, ev Event) (AgentState, []Effect) {
	switch ev := ev.(type) {
	case EvConnectionChanged:
		return reduceConnectionChanged(state, ev)
	case EvScheduleFetched:
		state.Schedule = ev.Schedule
		return state, []Effect{EffRepaint{}}
	case EvSummaryFetched:
		state.Summary = ev.Summary
		return state, []Effect{EffRepaint{}}
	case EvIntakeLogged:
		state.Summary.TotalIntakeLiters = ev.TotalIntakeLiters
		state.Summary.DailyGoalLiters = ev.GoalLiters
		state.Summary.WaterPercent = ClampPercent(ev.ProgressPercent)
		return state, []Effect{EffRepaint{}}
	case EvReminderPolled:
		return reduceReminderPolled(state, ev)
	default:
		return state, nil
	}
}

func reduceConnectionChanged(state AgentState, ev EvConnectionChanged) (AgentState, []Effect) {
	prev := state.Conn
	state.Conn = ev.Conn
	if ev.Conn == Connected && prev != Connected {
		// Leaving the blocking-retry status screen; restore the normal
		// compositor output.
		return state, []Effect{EffRepaint{}}
	}
	return state, nil
}

// reduceReminderPolled implements the edge-triggered reminder
// transitions. Repeated polls that keep remind_now steady produce no
// additional tone, repaint, or ack side effects.
func reduceReminderPolled(state AgentState, ev EvReminderPolled) (AgentState, []Effect) {
	if ev.ServerTimeUTC != "" {
		state.Summary.ServerTimeUTC = ev.ServerTimeUTC
	}

	if !ev.RemindNow {
		if !state.Reminder.Active {
			return state, nil
		}
		state.Reminder.Active = false
		return state, []Effect{EffStopTone{}, EffRepaint{}}
	}

	if state.Reminder.Active {
		// Held steady; the stored alert text stays as stashed on the
		// activating edge.
		return state, nil
	}

	state.Reminder = ReminderState{
		Active:       true,
		Title:        ev.Title,
		Message:      ev.Message,
		AnimationTag: ev.Animation,
	}
	// The ack is fire-and-forget: the next poll cycle is itself the
	// idempotent confirmation, so its outcome does not feed back here.
	return state, []Effect{EffStartTone{}, EffRepaint{}, EffSendAck{}}
}
