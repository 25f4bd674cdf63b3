package sched

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresAfterPeriod(t *testing.T) {
	t.Parallel()

	now := uint32(1_000)
	s := New(now, 30*time.Second, 5*time.Minute, 15*time.Minute)

	require.Empty(t, s.Due(now), "nothing due at boot")
	require.Empty(t, s.Due(now+29_999), "reminder not due one tick early")

	due := s.Due(now + 30_000)
	require.Equal(t, []Job{JobReminderPoll}, due)
}

func TestSchedulerPriorityOrderWhenAllDue(t *testing.T) {
	t.Parallel()

	now := uint32(0)
	s := New(now, 30*time.Second, 5*time.Minute, 15*time.Minute)

	due := s.Due(now + 15*60_000)
	require.Equal(t, []Job{JobReminderPoll, JobSummaryRefresh, JobScheduleRefresh}, due)
}

func TestSchedulerRearmsOnDispatchRegardlessOfOutcome(t *testing.T) {
	t.Parallel()

	now := uint32(0)
	s := New(now, 30*time.Second, 5*time.Minute, 15*time.Minute)

	// First fire at t=30s. The caller's job may fail; the scheduler has
	// already consumed the cadence slot either way.
	require.Equal(t, []Job{JobReminderPoll}, s.Due(now+30_000))

	// Immediately asking again must not re-fire: a persistently failing
	// endpoint is retried no more often than its period.
	require.Empty(t, s.Due(now+30_001))
	require.Empty(t, s.Due(now+59_999))
	require.Equal(t, []Job{JobReminderPoll}, s.Due(now+60_000))
}

func TestCadenceTimerSurvivesCounterWraparound(t *testing.T) {
	t.Parallel()

	// Armed just below the counter ceiling; "now" has wrapped past zero.
	last := uint32(math.MaxUint32 - 10_000)
	timer := CadenceTimer{lastFiredAt: last, period: 30_000}

	// 20s elapsed across the wrap: not due yet.
	require.False(t, timer.Due(last+20_000))
	// 30s elapsed across the wrap: due, despite now < lastFiredAt.
	wrapped := last + 30_000 // wraps past MaxUint32
	require.Less(t, wrapped, last)
	require.True(t, timer.Due(wrapped))
}

func TestMillisOfTruncatesToUint32(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(0x1_2345_6789)
	require.Equal(t, uint32(0x2345_6789), MillisOf(at))
}
