package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Audreyz7/DeerHacks26/internal/platform"
	"github.com/Audreyz7/DeerHacks26/internal/platform/platformtest"
	"github.com/Audreyz7/DeerHacks26/internal/state"
)

func TestRepaintClearsAndRedrawsEverything(t *testing.T) {
	t.Parallel()

	surface := platformtest.NewFakeSurface()
	r := New(surface)

	r.Repaint(state.AgentState{
		Summary: state.SummaryRecord{WaterPercent: 60, StressPercent: 25},
	})

	require.NotEmpty(t, surface.Ops)
	// Full-surface clear comes first: no partial/dirty-rect redraw.
	require.Equal(t, "fillscreen", surface.Ops[0].Kind)
	require.Equal(t, colorMist, surface.Ops[0].Color)
	require.True(t, surface.HasText("STRESS"))
	require.True(t, surface.HasText("WATER"))
	require.True(t, surface.HasText("Water 60%  Stress 25%"))
	require.False(t, surface.HasText("TIME TO HYDRATE!"))
	require.Equal(t, 1, surface.Presents)
}

func TestRepaintWithActiveReminderPaintsOverlay(t *testing.T) {
	t.Parallel()

	surface := platformtest.NewFakeSurface()
	r := New(surface)

	r.Repaint(state.AgentState{
		Summary:  state.SummaryRecord{WaterPercent: 60, StressPercent: 25},
		Reminder: state.ReminderState{Active: true, Title: "Drink water"},
	})

	require.True(t, surface.HasText("TIME TO HYDRATE!"))
	require.True(t, surface.HasText("Hydrate now"))
	require.False(t, surface.HasText("Water 60%"), "footer percentages replaced while reminding")

	// The overlay modal sits above the HUD in z-order: its fill must
	// come after the panel fill.
	var panelIdx, overlayIdx int
	for i, op := range surface.Ops {
		if op.Kind == "fillrect" && op.Color == colorPanel && op.W == 128 && op.H == 24 {
			panelIdx = i
		}
		if op.Kind == "fillrect" && op.Color == platform.ColorBlue && op.X == 12 && op.Y == 30 {
			overlayIdx = i
		}
	}
	require.Greater(t, overlayIdx, panelIdx)
}

func TestHudBarFillWidthTracksPercent(t *testing.T) {
	t.Parallel()

	surface := platformtest.NewFakeSurface()
	r := New(surface)

	r.Repaint(state.AgentState{Summary: state.SummaryRecord{WaterPercent: 50, StressPercent: 0}})

	var sawHalfWater, sawStressFill bool
	for _, op := range surface.Ops {
		if op.Kind == "fillrect" && op.Color == colorWaterBar {
			// 50% of the 38px inner width.
			require.Equal(t, 19, op.W)
			sawHalfWater = true
		}
		if op.Kind == "fillrect" && op.Color == colorStressBar {
			sawStressFill = true
		}
	}
	require.True(t, sawHalfWater)
	require.False(t, sawStressFill, "zero percent draws no fill")
}

func TestDrawStatusScreen(t *testing.T) {
	t.Parallel()

	surface := platformtest.NewFakeSurface()
	r := New(surface)

	r.DrawStatus("Connecting WiFi", "campus-net")
	require.Equal(t, "fillscreen", surface.Ops[0].Kind)
	require.Equal(t, platform.ColorWhite, surface.Ops[0].Color)
	require.True(t, surface.HasText("Connecting WiFi"))
	require.True(t, surface.HasText("campus-net"))
	require.Equal(t, 1, surface.Presents)

	surface.Reset()
	r.DrawStatus("Booting device", "")
	require.True(t, surface.HasText("Booting device"))
}
