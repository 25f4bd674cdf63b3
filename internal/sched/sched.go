// Package sched tracks the independent poll cadences of the agent loop
// on a fixed-width millisecond counter.
//
// Timers deliberately use uint32 arithmetic: elapsed time is computed
// with unsigned wraparound-safe subtraction, so a counter rollover
// never makes a timer fire early or stall forever. A timer re-arms on
// every dispatch attempt, before the job runs, so a slow or failing
// job is retried no more often than its period.
package sched

import "time"

// Job identifies one scheduled remote exchange. The declaration order
// is the dispatch priority: the reminder poll stays most responsive.
type Job int

const (
	// JobReminderPoll asks the server whether a reminder is due.
	JobReminderPoll Job = iota
	// JobSummaryRefresh refreshes the hydration/stress summary.
	JobSummaryRefresh
	// JobScheduleRefresh refreshes the reminder schedule.
	JobScheduleRefresh

	jobCount
)

// String returns a short name for logs.
func (j Job) String() string {
	switch j {
	case JobReminderPoll:
		return "reminder-poll"
	case JobSummaryRefresh:
		return "summary-refresh"
	case JobScheduleRefresh:
		return "schedule-refresh"
	default:
		return "unknown"
	}
}

// Default cadence periods.
const (
	DefaultReminderPollPeriod    = 30 * time.Second
	DefaultSummaryRefreshPeriod  = 5 * time.Minute
	DefaultScheduleRefreshPeriod = 15 * time.Minute
)

// MillisOf truncates a wall-clock instant to the uint32 millisecond
// counter the timers run on. Both operands of the elapsed subtraction
// come through here, which is what makes rollover subtraction exact.
func MillisOf(t time.Time) uint32 {
	return uint32(t.UnixMilli())
}

// CadenceTimer is one {last fired, period} pair.
type CadenceTimer struct {
	lastFiredAt uint32
	period      uint32
}

// NewCadenceTimer returns a timer armed at now, so the first fire
// happens one full period after boot.
func NewCadenceTimer(now uint32, period time.Duration) CadenceTimer {
	return CadenceTimer{lastFiredAt: now, period: uint32(period.Milliseconds())}
}

// Due reports whether a full period has elapsed since the last fire.
func (t *CadenceTimer) Due(now uint32) bool {
	return now-t.lastFiredAt >= t.period
}

// Rearm resets the timer's fire point to now.
func (t *CadenceTimer) Rearm(now uint32) {
	t.lastFiredAt = now
}

// Scheduler owns the three cadence timers.
type Scheduler struct {
	timers [jobCount]CadenceTimer
}

// New returns a Scheduler with all timers armed at now.
func New(now uint32, reminder, summary, schedule time.Duration) *Scheduler {
	s := &Scheduler{}
	s.timers[JobReminderPoll] = NewCadenceTimer(now, reminder)
	s.timers[JobSummaryRefresh] = NewCadenceTimer(now, summary)
	s.timers[JobScheduleRefresh] = NewCadenceTimer(now, schedule)
	return s
}

// Due returns the jobs whose timers have elapsed, in priority order,
// re-arming each one immediately. Re-arming happens before dispatch and
// unconditionally: whether the subsequent exchange succeeds or fails,
// the next attempt waits a full period.
func (s *Scheduler) Due(now uint32) []Job {
	var due []Job
	for job := Job(0); job < jobCount; job++ {
		if s.timers[job].Due(now) {
			s.timers[job].Rearm(now)
			due = append(due, job)
		}
	}
	return due
}
