// Package agent runs the device's cooperative control loop. One
// goroutine owns everything: connectivity, the scheduled polls, state
// reconciliation, rendering and console handling all execute strictly
// in sequence, so AgentState is never read half-updated and tone/visual
// side effects for an iteration cannot interleave.
//
// Blocking network calls stall the entire iteration for their duration
// (up to the request timeout, or indefinitely inside the WiFi
// association retry loop). This is a documented limitation, accepted in
// exchange for the single-context simplicity.
package agent

import (
	"context"
	"time"

	"github.com/Audreyz7/DeerHacks26/internal/config"
	"github.com/Audreyz7/DeerHacks26/internal/console"
	"github.com/Audreyz7/DeerHacks26/internal/platform"
	"github.com/Audreyz7/DeerHacks26/internal/render"
	"github.com/Audreyz7/DeerHacks26/internal/sched"
	"github.com/Audreyz7/DeerHacks26/internal/state"
	"github.com/Audreyz7/DeerHacks26/internal/transport"
	"github.com/Audreyz7/DeerHacks26/internal/waterapi"
	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// Reminder tone parameters and the idle delay between loop iterations.
const (
	toneFreqHz = 1800
	toneDuty   = 128
	idleTick   = 50 * time.Millisecond
)

// API is the remote-exchange surface the loop depends on. Satisfied by
// *waterapi.Client.
type API interface {
	FetchSchedule(ctx context.Context) (state.ScheduleRecord, error)
	FetchSummary(ctx context.Context) (state.SummaryRecord, error)
	PollReminder(ctx context.Context) (waterapi.ReminderPoll, error)
	AcknowledgeReminder(ctx context.Context) error
	LogIntake(ctx context.Context, amountML int) (waterapi.IntakeResult, error)
}

// Params wires an Agent.
type Params struct {
	Config    *config.Config
	Transport *transport.Transport
	API       API
	Renderer  *render.Renderer
	Tone      platform.Tone
	Console   *console.Console
	Clock     Clock
}

// Agent is the loop state holder. All fields are confined to the loop
// goroutine; State() snapshots are for observability and tests.
type Agent struct {
	cfg      *config.Config
	tr       *transport.Transport
	api      API
	renderer *render.Renderer
	tone     platform.Tone
	console  *console.Console
	clock    Clock

	sched *sched.Scheduler
	state state.AgentState
}

// New assembles the loop. All cadence timers are armed at boot, so the
// first scheduled fetches happen one full period in; the console
// commands cover the impatient path.
func New(p Params) *Agent {
	if p.Clock == nil {
		p.Clock = RealClock{}
	}
	now := sched.MillisOf(p.Clock.Now())
	return &Agent{
		cfg:      p.Config,
		tr:       p.Transport,
		api:      p.API,
		renderer: p.Renderer,
		tone:     p.Tone,
		console:  p.Console,
		clock:    p.Clock,
		sched: sched.New(now,
			p.Config.ReminderPollInterval,
			p.Config.SummaryRefreshInterval,
			p.Config.ScheduleRefreshInterval),
	}
}

// State returns a copy of the current snapshot.
func (a *Agent) State() state.AgentState { return a.state }

// Run executes the loop until ctx is canceled. The tone is silenced on
// the way out.
func (a *Agent) Run(ctx context.Context) error {
	a.renderer.DrawStatus("Booting device", "Preparing network")
	a.tone.Set(0, 0)

	for {
		a.Tick(ctx)
		select {
		case <-ctx.Done():
			a.tone.Set(0, 0)
			return ctx.Err()
		case <-time.After(idleTick):
		}
	}
}

// Tick runs one loop iteration: ensure connectivity, dispatch due
// jobs, poll the console. Exported for deterministic tests.
func (a *Agent) Tick(ctx context.Context) {
	reassociated, err := a.tr.EnsureConnected(ctx)
	if err != nil {
		// Only context cancellation reaches here; the association loop
		// itself retries forever.
		return
	}
	if reassociated || a.state.Conn != state.Connected {
		a.apply(ctx, state.EvConnectionChanged{Conn: state.Connected})
	}

	now := sched.MillisOf(a.clock.Now())
	for _, job := range a.sched.Due(now) {
		a.runJob(ctx, job)
	}

	if cmd, ok := a.console.Poll(); ok {
		a.runCommand(ctx, cmd)
	}
}

// runJob performs one scheduled exchange. A failed exchange is logged
// and skipped; the cadence timer has already consumed its slot, so the
// next attempt waits a full period.
func (a *Agent) runJob(ctx context.Context, job sched.Job) {
	logger.Tracef("agent: dispatch %s", job)
	switch job {
	case sched.JobReminderPoll:
		a.pollReminder(ctx)
	case sched.JobSummaryRefresh:
		a.refreshSummary(ctx)
	case sched.JobScheduleRefresh:
		a.refreshSchedule(ctx)
	}
}

func (a *Agent) runCommand(ctx context.Context, cmd console.Command) {
	switch cmd {
	case console.CmdDrink:
		a.logIntake(ctx)
		a.refreshSummary(ctx)
	case console.CmdSummary:
		a.refreshSummary(ctx)
	case console.CmdSchedule:
		a.refreshSchedule(ctx)
	case console.CmdPoll:
		a.pollReminder(ctx)
	}
}

func (a *Agent) pollReminder(ctx context.Context) {
	poll, err := a.api.PollReminder(ctx)
	if err != nil {
		logger.Warnf("agent: reminder poll skipped: %v", err)
		return
	}
	a.apply(ctx, state.EvReminderPolled{
		ServerTimeUTC: poll.ServerTimeUTC,
		RemindNow:     poll.RemindNow,
		Reason:        poll.Reason,
		Title:         poll.Title,
		Message:       poll.Message,
		Animation:     poll.Animation,
	})
}

func (a *Agent) refreshSummary(ctx context.Context) {
	rec, err := a.api.FetchSummary(ctx)
	if err != nil {
		logger.Warnf("agent: summary refresh skipped: %v", err)
		return
	}
	a.apply(ctx, state.EvSummaryFetched{Summary: rec})
}

func (a *Agent) refreshSchedule(ctx context.Context) {
	rec, err := a.api.FetchSchedule(ctx)
	if err != nil {
		logger.Warnf("agent: schedule refresh skipped: %v", err)
		return
	}
	a.apply(ctx, state.EvScheduleFetched{Schedule: rec})
}

func (a *Agent) logIntake(ctx context.Context) {
	res, err := a.api.LogIntake(ctx, a.cfg.IntakeAmountML)
	if err != nil {
		logger.Warnf("agent: intake log skipped: %v", err)
		return
	}
	a.apply(ctx, state.EvIntakeLogged{
		TotalIntakeLiters: res.TotalIntakeLiters,
		GoalLiters:        res.GoalLiters,
		ProgressPercent:   res.ProgressPercent,
	})
}

// apply reduces one event and executes the resulting effects, in
// order, within the same iteration. Writing the snapshot and painting
// from it are therefore atomic with respect to the loop.
func (a *Agent) apply(ctx context.Context, ev state.Event) {
	next, effects := state.Reduce(a.state, ev)
	a.state = next
	for _, eff := range effects {
		switch eff.(type) {
		case state.EffStartTone:
			a.tone.Set(toneFreqHz, toneDuty)
		case state.EffStopTone:
			a.tone.Set(0, 0)
		case state.EffRepaint:
			a.renderer.Repaint(a.state)
		case state.EffSendAck:
			// Fire-and-forget: a lost ack is rescued by the next poll
			// being self-confirming.
			if err := a.api.AcknowledgeReminder(ctx); err != nil {
				logger.Warnf("agent: reminder ack failed: %v", err)
			}
		}
	}
}
