// Package platformtest provides fake hardware capabilities for unit
// tests.
package platformtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Audreyz7/DeerHacks26/internal/platform"
)

// Op is one recorded draw call.
type Op struct {
	Kind  string
	X, Y  int
	W, H  int
	Text  string
	Color platform.Color
}

// FakeSurface records every draw call for assertions.
type FakeSurface struct {
	Width, Height int
	Ops           []Op
	Presents      int
}

var _ platform.Surface = (*FakeSurface)(nil)

// NewFakeSurface returns a FakeSurface with the panel's native size.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{Width: 128, Height: 128}
}

// Size implements platform.Surface.
func (s *FakeSurface) Size() (int, int) { return s.Width, s.Height }

// FillScreen implements platform.Surface.
func (s *FakeSurface) FillScreen(c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "fillscreen", Color: c})
}

// FillRect implements platform.Surface.
func (s *FakeSurface) FillRect(x, y, w, h int, c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "fillrect", X: x, Y: y, W: w, H: h, Color: c})
}

// DrawRect implements platform.Surface.
func (s *FakeSurface) DrawRect(x, y, w, h int, c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "drawrect", X: x, Y: y, W: w, H: h, Color: c})
}

// DrawHLine implements platform.Surface.
func (s *FakeSurface) DrawHLine(x, y, w int, c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "hline", X: x, Y: y, W: w, Color: c})
}

// DrawVLine implements platform.Surface.
func (s *FakeSurface) DrawVLine(x, y, h int, c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "vline", X: x, Y: y, H: h, Color: c})
}

// DrawPixel implements platform.Surface.
func (s *FakeSurface) DrawPixel(x, y int, c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "pixel", X: x, Y: y, Color: c})
}

// DrawCircle implements platform.Surface.
func (s *FakeSurface) DrawCircle(x, y, r int, c platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "circle", X: x, Y: y, W: r, Color: c})
}

// Text implements platform.Surface.
func (s *FakeSurface) Text(x, y int, text string, fg, bg platform.Color) {
	s.Ops = append(s.Ops, Op{Kind: "text", X: x, Y: y, Text: text, Color: fg})
}

// Present implements platform.Surface.
func (s *FakeSurface) Present() { s.Presents++ }

// Reset clears recorded draw calls.
func (s *FakeSurface) Reset() {
	s.Ops = nil
	s.Presents = 0
}

// HasText reports whether any recorded text draw contains the substring.
func (s *FakeSurface) HasText(substr string) bool {
	for _, op := range s.Ops {
		if op.Kind == "text" && strings.Contains(op.Text, substr) {
			return true
		}
	}
	return false
}

// ToneCall is one recorded Tone.Set invocation.
type ToneCall struct {
	FreqHz int
	Duty   uint8
}

// FakeTone records tone channel writes.
type FakeTone struct {
	Calls []ToneCall
}

var _ platform.Tone = (*FakeTone)(nil)

// Set implements platform.Tone.
func (t *FakeTone) Set(freqHz int, duty uint8) {
	t.Calls = append(t.Calls, ToneCall{FreqHz: freqHz, Duty: duty})
}

// Active reports whether the last write left the tone sounding.
func (t *FakeTone) Active() bool {
	if len(t.Calls) == 0 {
		return false
	}
	last := t.Calls[len(t.Calls)-1]
	return last.FreqHz > 0 && last.Duty > 0
}

// FakeRadio is a Radio that reports Connected after a configurable
// number of status polls following Begin.
type FakeRadio struct {
	mu sync.Mutex

	// ConnectAfterPolls is how many Connected calls return false after
	// Begin before the association "completes".
	ConnectAfterPolls int

	// FailBegin makes Begin return an error.
	FailBegin bool

	began      bool
	polls      int
	enterprise bool

	SSID     string
	Identity string
	Username string
	Password string
}

var _ platform.Radio = (*FakeRadio)(nil)

// Begin implements platform.Radio.
func (r *FakeRadio) Begin(ssid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailBegin {
		return fmt.Errorf("association start failed")
	}
	r.began = true
	r.polls = 0
	r.SSID = ssid
	return nil
}

// EnableEnterprise implements platform.Radio.
func (r *FakeRadio) EnableEnterprise(identity, username, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enterprise = true
	r.Identity = identity
	r.Username = username
	r.Password = password
	return nil
}

// Connected implements platform.Radio.
func (r *FakeRadio) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.began {
		return false
	}
	if r.polls < r.ConnectAfterPolls {
		r.polls++
		return false
	}
	return true
}

// LocalAddr implements platform.Radio.
func (r *FakeRadio) LocalAddr() string { return "192.0.2.10" }

// Disconnect implements platform.Radio.
func (r *FakeRadio) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.began = false
	return nil
}

// EnterpriseEnabled reports whether EnableEnterprise was called.
func (r *FakeRadio) EnterpriseEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enterprise
}
