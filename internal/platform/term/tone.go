package term

import (
	"fmt"
	"io"

	"github.com/Audreyz7/DeerHacks26/internal/platform"
)

// Tone maps the buzzer channel onto the terminal: an audible bell on
// activation plus a caption indicator on the display for as long as the
// tone is held.
type Tone struct {
	display *Display
	bell    io.Writer
	active  bool
}

var _ platform.Tone = (*Tone)(nil)

// NewTone creates a Tone coupled to the display's caption. bell
// receives the BEL byte; pass os.Stdout, or nil to stay silent.
func NewTone(display *Display, bell io.Writer) *Tone {
	return &Tone{display: display, bell: bell}
}

// Set implements platform.Tone. freqHz 0 or duty 0 silences.
func (t *Tone) Set(freqHz int, duty uint8) {
	on := freqHz > 0 && duty > 0
	if on && !t.active && t.bell != nil {
		io.WriteString(t.bell, "\a")
	}
	t.active = on
	if on {
		t.display.SetToneIndicator(true, fmt.Sprintf("%dHz", freqHz))
	} else {
		t.display.SetToneIndicator(false, "")
	}
}
