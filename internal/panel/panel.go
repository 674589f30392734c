package panel

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pixel"

	"github.com/vovakirdan/copter/internal/core"
)

// Panel is an in-memory emulation of an RGB565 TFT panel.
// It stores pixels in the native format of ST7735-class displays and counts
// every write, which lets tests and the terminal front-end observe how much
// hardware I/O a tick costs.
type Panel struct {
	width  int
	height int
	img    pixel.Image[pixel.RGB565BE]

	pixelWrites int // Pixels written since creation
	calls       int // Draw calls since creation
	flushes     int // Completed Flush calls
}

var (
	_ Display           = (*Panel)(nil)
	_ drivers.Displayer = (*Panel)(nil)
)

// NewPanel creates a panel of the given size, cleared to black.
func NewPanel(width, height int) *Panel {
	p := &Panel{
		width:  width,
		height: height,
		img:    pixel.NewImage[pixel.RGB565BE](width, height),
	}
	p.img.FillSolidColor(toNative(core.ColorBlack.RGBA()))
	return p
}

func toNative(c color.RGBA) pixel.RGB565BE {
	return pixel.NewRGB565BE(c.R, c.G, c.B)
}

// Dimensions returns the panel size in pixels.
func (p *Panel) Dimensions() core.Size {
	return core.Size{W: p.width, H: p.height}
}

// Width returns the panel width in pixels.
func (p *Panel) Width() int {
	return p.width
}

// Height returns the panel height in pixels.
func (p *Panel) Height() int {
	return p.height
}

// inBounds reports whether (x, y) lies on the panel.
func (p *Panel) inBounds(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// DrawPixel writes a single pixel. Out-of-bounds coordinates are silently ignored.
func (p *Panel) DrawPixel(pt core.Point, c core.Color) error {
	p.calls++
	if !p.inBounds(pt.X, pt.Y) {
		return nil
	}
	p.img.Set(pt.X, pt.Y, toNative(c.RGBA()))
	p.pixelWrites++
	return nil
}

// FillRect fills the part of r that lies on the panel.
func (p *Panel) FillRect(r core.Rect, c core.Color) error {
	p.calls++
	clip := r.Intersect(core.NewRect(0, 0, p.width, p.height))
	if clip.Empty() {
		return nil
	}
	native := toNative(c.RGBA())
	for y := clip.Y; y < clip.Bottom(); y++ {
		for x := clip.X; x < clip.Right(); x++ {
			p.img.Set(x, y, native)
		}
	}
	p.pixelWrites += clip.W * clip.H
	return nil
}

// FillScreen fills the entire panel with the given color.
func (p *Panel) FillScreen(c core.Color) error {
	p.calls++
	p.img.FillSolidColor(toNative(c.RGBA()))
	p.pixelWrites += p.width * p.height
	return nil
}

// Flush marks the end of a frame. The emulated panel has no transfer buffer.
func (p *Panel) Flush() error {
	p.flushes++
	return nil
}

// At returns the color stored at (x, y). Returns black for out-of-bounds coordinates.
func (p *Panel) At(x, y int) color.RGBA {
	if !p.inBounds(x, y) {
		return color.RGBA{A: 0xFF}
	}
	return p.img.Get(x, y).RGBA()
}

// Is reports whether the pixel at (x, y) holds the palette color c.
func (p *Panel) Is(x, y int, c core.Color) bool {
	return p.inBounds(x, y) && p.img.Get(x, y) == toNative(c.RGBA())
}

// PixelWrites returns the number of pixels written since creation.
func (p *Panel) PixelWrites() int {
	return p.pixelWrites
}

// Calls returns the number of draw calls issued since creation.
func (p *Panel) Calls() int {
	return p.calls
}

// Flushes returns the number of completed frames.
func (p *Panel) Flushes() int {
	return p.flushes
}

// Size implements drivers.Displayer so tinyfont and other TinyGo drawing
// libraries can render onto the emulated panel.
func (p *Panel) Size() (x, y int16) {
	return int16(p.width), int16(p.height)
}

// SetPixel implements drivers.Displayer.
func (p *Panel) SetPixel(x, y int16, c color.RGBA) {
	p.calls++
	if !p.inBounds(int(x), int(y)) {
		return
	}
	p.img.Set(int(x), int(y), toNative(c))
	p.pixelWrites++
}

// Display implements drivers.Displayer.
func (p *Panel) Display() error {
	return p.Flush()
}
