// Package term renders the 128x128 panel into an ANSI terminal. Every
// framebuffer pixel pair becomes one half-block cell, so the full panel
// occupies 128 columns by 64 rows plus a caption line.
package term

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Audreyz7/DeerHacks26/internal/platform"
)

const (
	panelWidth  = 128
	panelHeight = 128
)

var captionStyle = lipgloss.NewStyle().Faint(true)
var toneStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fd7ff"))

// textCell is a deferred text draw, composited over the framebuffer at
// Present time. One glyph occupies one terminal column.
type textCell struct {
	x, y   int
	text   string
	fg, bg platform.Color
}

// Display is a platform.Surface backed by a terminal. Draw calls mutate
// an in-memory RGB565 framebuffer; Present flushes the whole frame.
type Display struct {
	mu sync.Mutex

	out   *termenv.Output
	fb    []platform.Color
	texts []textCell

	toneOn   bool
	toneDesc string
	opened   bool
}

var _ platform.Surface = (*Display)(nil)

// NewDisplay creates a Display writing to w. Pass os.Stdout for the
// real terminal; tests pass a buffer with a forced color profile.
func NewDisplay(out *termenv.Output) *Display {
	return &Display{
		out: out,
		fb:  make([]platform.Color, panelWidth*panelHeight),
	}
}

// NewStdoutDisplay is the production constructor.
func NewStdoutDisplay(w io.Writer) *Display {
	return NewDisplay(termenv.NewOutput(w))
}

// Open switches the terminal to the alternate screen and hides the
// cursor. Close restores it; always pair the two.
func (d *Display) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opened {
		return
	}
	d.out.AltScreen()
	d.out.HideCursor()
	d.opened = true
}

// Close leaves the alternate screen.
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opened {
		return
	}
	d.out.ShowCursor()
	d.out.ExitAltScreen()
	d.opened = false
}

// Size implements platform.Surface.
func (d *Display) Size() (int, int) { return panelWidth, panelHeight }

// FillScreen implements platform.Surface.
func (d *Display) FillScreen(c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.fb {
		d.fb[i] = c
	}
	d.texts = nil
}

// FillRect implements platform.Surface.
func (d *Display) FillRect(x, y, w, h int, c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.set(xx, yy, c)
		}
	}
	// Text anchored inside the rect is painted over.
	kept := d.texts[:0]
	for _, t := range d.texts {
		if t.x >= x && t.x < x+w && t.y >= y && t.y < y+h {
			continue
		}
		kept = append(kept, t)
	}
	d.texts = kept
}

// DrawRect implements platform.Surface.
func (d *Display) DrawRect(x, y, w, h int, c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for xx := x; xx < x+w; xx++ {
		d.set(xx, y, c)
		d.set(xx, y+h-1, c)
	}
	for yy := y; yy < y+h; yy++ {
		d.set(x, yy, c)
		d.set(x+w-1, yy, c)
	}
}

// DrawHLine implements platform.Surface.
func (d *Display) DrawHLine(x, y, w int, c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for xx := x; xx < x+w; xx++ {
		d.set(xx, y, c)
	}
}

// DrawVLine implements platform.Surface.
func (d *Display) DrawVLine(x, y, h int, c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for yy := y; yy < y+h; yy++ {
		d.set(x, yy, c)
	}
}

// DrawPixel implements platform.Surface.
func (d *Display) DrawPixel(x, y int, c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.set(x, y, c)
}

// DrawCircle implements platform.Surface. Midpoint circle, outline
// only, matching the panel driver primitive.
func (d *Display) DrawCircle(cx, cy, r int, c platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	x, y, err := r, 0, 1-r
	for x >= y {
		d.set(cx+x, cy+y, c)
		d.set(cx+y, cy+x, c)
		d.set(cx-y, cy+x, c)
		d.set(cx-x, cy+y, c)
		d.set(cx-x, cy-y, c)
		d.set(cx-y, cy-x, c)
		d.set(cx+y, cy-x, c)
		d.set(cx+x, cy-y, c)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// Text implements platform.Surface. Glyphs are composited over the
// framebuffer when the frame is presented.
func (d *Display) Text(x, y int, text string, fg, bg platform.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, textCell{x: x, y: y, text: text, fg: fg, bg: bg})
}

// Present implements platform.Surface: flush the current frame to the
// terminal in one write.
func (d *Display) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	glyphs := d.textGrid()

	var b strings.Builder
	b.Grow(panelWidth * panelHeight * 8)
	for row := 0; row < panelHeight/2; row++ {
		for col := 0; col < panelWidth; col++ {
			top := d.fb[(row*2)*panelWidth+col]
			bottom := d.fb[(row*2+1)*panelWidth+col]
			if g, ok := glyphs[row*panelWidth+col]; ok {
				b.WriteString(d.out.String(string(g.ch)).
					Foreground(ansiColor(g.fg)).
					Background(ansiColor(g.bg)).
					String())
				continue
			}
			b.WriteString(d.out.String("▀").
				Foreground(ansiColor(top)).
				Background(ansiColor(bottom)).
				String())
		}
		b.WriteByte('\n')
	}
	b.WriteString(d.caption())

	d.out.MoveCursor(1, 1)
	fmt.Fprint(d.out, b.String())
}

// SetToneIndicator updates the caption's tone marker. Wired to the
// terminal Tone so the "buzzer" is visible as well as audible.
func (d *Display) SetToneIndicator(on bool, desc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.toneOn = on
	d.toneDesc = desc
}

type glyph struct {
	ch     rune
	fg, bg platform.Color
}

// textGrid maps cell index (row*width+col) to the glyph shown there.
// Later draws win, matching paint order on the real panel.
func (d *Display) textGrid() map[int]glyph {
	grid := make(map[int]glyph)
	for _, t := range d.texts {
		row := t.y / 2
		if row < 0 || row >= panelHeight/2 {
			continue
		}
		col := t.x
		for _, ch := range t.text {
			if col >= 0 && col < panelWidth {
				grid[row*panelWidth+col] = glyph{ch: ch, fg: t.fg, bg: t.bg}
			}
			col++
		}
	}
	return grid
}

func (d *Display) caption() string {
	caption := captionStyle.Render("hydrapet 128x128")
	if d.toneOn {
		caption += "  " + toneStyle.Render("♪ "+d.toneDesc)
	}
	return caption
}

// set clips out-of-bounds writes, like the panel driver does.
func (d *Display) set(x, y int, c platform.Color) {
	if x < 0 || x >= panelWidth || y < 0 || y >= panelHeight {
		return
	}
	d.fb[y*panelWidth+x] = c
}

func ansiColor(c platform.Color) termenv.Color {
	r, g, b := c.RGB888()
	return termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
