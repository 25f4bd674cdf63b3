// Package render repaints the 128x128 companion display as a pure
// function of the agent snapshot. Every repaint clears and redraws the
// whole surface in fixed z-order: forest background, HUD panel, pet,
// footer, and — when a reminder is active — a modal overlay. Repaints
// happen only on state transitions, never every loop tick, so the full
// redraw is cheap enough.
//
// The tone channel is driven by reducer effects in the agent loop, not
// from here, so audio and visuals cannot drift apart.
package render

import (
	"fmt"

	"github.com/Audreyz7/DeerHacks26/internal/platform"
	"github.com/Audreyz7/DeerHacks26/internal/state"
)

// Panel palette, RGB565.
const (
	colorMist      platform.Color = 0xBE18
	colorTreeDark  platform.Color = 0x1A63
	colorTreeMid   platform.Color = 0x2C85
	colorGrass     platform.Color = 0x0586
	colorDirt      platform.Color = 0x8A22
	colorStone     platform.Color = 0x7BEF
	colorPanel     platform.Color = 0x39C7
	colorEmptyBar  platform.Color = 0x49A5
	colorWaterBar  platform.Color = 0x5DDF
	colorStressBar platform.Color = 0xFEC0
	colorCatWhite  platform.Color = platform.ColorWhite
	colorCatOrange platform.Color = 0xFC40
	colorCatBlack  platform.Color = platform.ColorBlack
	colorSprout    platform.Color = 0x05E6
)

// Renderer paints onto a draw-primitive surface.
type Renderer struct {
	s platform.Surface
}

// New creates a Renderer for the given surface.
func New(s platform.Surface) *Renderer {
	return &Renderer{s: s}
}

// Repaint redraws the full companion scene from the snapshot.
func (r *Renderer) Repaint(st state.AgentState) {
	r.drawBackground()
	r.drawHudPanel(st.Summary)
	r.drawPet()
	r.drawFooter(st)
	if st.Reminder.Active {
		r.drawReminderOverlay(st.Reminder)
	}
	r.s.Present()
}

// DrawStatus replaces the scene with a plain status screen (boot and
// connectivity messages). line2 may be empty.
func (r *Renderer) DrawStatus(line1, line2 string) {
	r.s.FillScreen(platform.ColorWhite)
	r.s.Text(4, 8, line1, platform.ColorBlack, platform.ColorWhite)
	if line2 != "" {
		r.s.Text(4, 24, line2, platform.ColorBlack, platform.ColorWhite)
	}
	r.s.Present()
}

func (r *Renderer) drawBackground() {
	r.s.FillScreen(colorMist)

	for x := 0; x < 128; x += 18 {
		r.drawTree(x, 70, 18, colorTreeDark)
	}
	for x := 9; x < 128; x += 20 {
		r.drawTree(x, 84, 16, colorTreeMid)
	}

	r.s.FillRect(0, 112, 128, 16, colorDirt)
	for x := 0; x < 128; x += 8 {
		r.s.DrawVLine(x, 107+(x%3), 5, colorGrass)
	}
	r.s.FillRect(26, 100, 76, 14, colorDirt)
	r.s.FillRect(34, 105, 5, 3, colorStone)
	r.s.FillRect(90, 103, 6, 4, colorStone)
}

func (r *Renderer) drawTree(x, trunkY, canopySize int, canopyColor platform.Color) {
	r.s.FillRect(x+(canopySize/2)-2, trunkY, 4, 12, colorDirt)
	r.s.FillRect(x, trunkY-canopySize, canopySize, canopySize, canopyColor)
}

func (r *Renderer) drawHudPanel(sum state.SummaryRecord) {
	r.s.FillRect(0, 0, 128, 24, colorPanel)
	r.s.DrawHLine(0, 24, 128, platform.ColorBlack)

	r.drawStressIcon(3, 8, platform.ColorBlack)
	r.s.Text(14, 2, "STRESS", platform.ColorBlack, colorPanel)
	r.drawHudBar(14, 12, 40, 8, sum.StressPercent, colorStressBar)

	r.s.Text(74, 2, "WATER", platform.ColorBlack, colorPanel)
	r.drawHudBar(72, 12, 40, 8, sum.WaterPercent, colorWaterBar)
	r.drawWaterIcon(117, 8, platform.ColorBlue)
}

// drawHudBar fills a bordered progress bar. percent is already clamped
// to [0,100] before it reaches the snapshot.
func (r *Renderer) drawHudBar(x, y, w, h, percent int, fill platform.Color) {
	r.s.DrawRect(x, y, w, h, platform.ColorBlack)
	r.s.FillRect(x+1, y+1, w-2, h-2, colorEmptyBar)
	fillWidth := (w - 2) * percent / 100
	if fillWidth > 0 {
		r.s.FillRect(x+1, y+1, fillWidth, h-2, fill)
	}
}

func (r *Renderer) drawStressIcon(x, y int, c platform.Color) {
	r.s.DrawCircle(x+4, y+4, 3, c)
	r.s.DrawHLine(x, y+4, 9, c)
	r.s.DrawVLine(x+4, y, 9, c)
}

func (r *Renderer) drawWaterIcon(x, y int, c platform.Color) {
	r.s.DrawPixel(x+3, y, c)
	r.s.DrawVLine(x+2, y+1, 5, c)
	r.s.DrawVLine(x+4, y+1, 5, c)
	r.s.DrawHLine(x+1, y+2, 5, c)
	r.s.DrawHLine(x+1, y+5, 5, c)
	r.s.DrawPixel(x+1, y+3, c)
	r.s.DrawPixel(x+5, y+3, c)
	r.s.DrawPixel(x+1, y+4, c)
	r.s.DrawPixel(x+5, y+4, c)
}

func (r *Renderer) drawPet() {
	r.drawCatSprite(46, 56, 3)
}

func (r *Renderer) drawFooter(st state.AgentState) {
	r.s.FillRect(0, 116, 128, 12, colorDirt)
	if st.Reminder.Active {
		r.s.Text(4, 118, "Hydrate now", platform.ColorBlack, colorDirt)
		return
	}
	line := fmt.Sprintf("Water %d%%  Stress %d%%", st.Summary.WaterPercent, st.Summary.StressPercent)
	r.s.Text(4, 118, line, platform.ColorBlack, colorDirt)
}

func (r *Renderer) drawReminderOverlay(rem state.ReminderState) {
	r.s.FillRect(12, 30, 104, 18, platform.ColorBlue)
	r.s.DrawRect(12, 30, 104, 18, platform.ColorWhite)
	r.s.Text(18, 36, "TIME TO HYDRATE!", platform.ColorWhite, platform.ColorBlue)
}
