// Package platform declares the hardware capability boundary of the
// device agent: the bitmap draw surface, the tone channel and the WiFi
// radio. The agent only ever talks to these interfaces; concrete
// implementations (terminal emulation, test fakes, real peripheral
// drivers) are injected at startup.
package platform

// Color is a 16-bit RGB565 pixel value, the native format of the
// display panel.
type Color uint16

// Well-known panel colors.
const (
	ColorBlack Color = 0x0000
	ColorWhite Color = 0xFFFF
	ColorBlue  Color = 0x001F
	ColorCyan  Color = 0x07FF
)

// RGB888 expands a Color into 8-bit red/green/blue channels.
func (c Color) RGB888() (r, g, b uint8) {
	r = uint8((c>>11)&0x1F) << 3
	g = uint8((c>>5)&0x3F) << 2
	b = uint8(c&0x1F) << 3
	return r, g, b
}

// Surface is the draw-primitive capability of the display panel.
//
// Coordinates are in pixels with the origin at the top-left corner.
// Implementations must clip out-of-bounds draws rather than panic.
// Present is a batching hint: immediate-mode panels implement it as a
// no-op, buffered backends flush the frame.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)
	// FillScreen floods the whole surface with a color.
	FillScreen(c Color)
	// FillRect fills the rectangle at (x, y) with the given size.
	FillRect(x, y, w, h int, c Color)
	// DrawRect strokes a one-pixel rectangle outline.
	DrawRect(x, y, w, h int, c Color)
	// DrawHLine draws a horizontal line of length w starting at (x, y).
	DrawHLine(x, y, w int, c Color)
	// DrawVLine draws a vertical line of length h starting at (x, y).
	DrawVLine(x, y, h int, c Color)
	// DrawPixel sets a single pixel.
	DrawPixel(x, y int, c Color)
	// DrawCircle strokes a circle outline centered at (x, y).
	DrawCircle(x, y, r int, c Color)
	// Text draws a small-font text run with its top-left at (x, y).
	Text(x, y int, s string, fg, bg Color)
	// Present flushes any buffered frame to the output device.
	Present()
}

// Tone is the PWM tone channel. Set(0, 0) silences the channel.
type Tone interface {
	Set(freqHz int, duty uint8)
}

// Radio is the station-mode WiFi association capability.
//
// Begin starts (or restarts) association with the given SSID and
// returns immediately; callers poll Connected until the radio reports
// an established association.
type Radio interface {
	Begin(ssid string) error
	// EnableEnterprise arms WPA2-Enterprise association with the given
	// identity/username/password before Begin is called.
	EnableEnterprise(identity, username, password string) error
	Connected() bool
	// LocalAddr returns the station address once connected.
	LocalAddr() string
	Disconnect() error
}
