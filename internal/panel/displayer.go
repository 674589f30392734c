package panel

import (
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/vovakirdan/copter/internal/core"
)

// filler is implemented by TinyGo display drivers with an accelerated fill,
// such as st7735.Device and st7789.Device.
type filler interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// DisplayerAdapter drives a TinyGo display through the Display interface.
// Drivers that only implement drivers.Displayer get fills as pixel loops.
type DisplayerAdapter struct {
	dev drivers.Displayer
}

// FromDisplayer wraps a TinyGo display driver.
func FromDisplayer(dev drivers.Displayer) *DisplayerAdapter {
	return &DisplayerAdapter{dev: dev}
}

// Dimensions returns the driver's current size.
func (a *DisplayerAdapter) Dimensions() core.Size {
	w, h := a.dev.Size()
	return core.Size{W: int(w), H: int(h)}
}

// DrawPixel writes a single pixel.
func (a *DisplayerAdapter) DrawPixel(p core.Point, c core.Color) error {
	size := a.Dimensions()
	if p.X < 0 || p.Y < 0 || p.X >= size.W || p.Y >= size.H {
		return nil
	}
	a.dev.SetPixel(int16(p.X), int16(p.Y), c.RGBA())
	return nil
}

// FillRect fills the on-screen part of r.
func (a *DisplayerAdapter) FillRect(r core.Rect, c core.Color) error {
	size := a.Dimensions()
	clip := r.Intersect(core.NewRect(0, 0, size.W, size.H))
	if clip.Empty() {
		return nil
	}
	if f, ok := a.dev.(filler); ok {
		return f.FillRectangle(int16(clip.X), int16(clip.Y), int16(clip.W), int16(clip.H), c.RGBA())
	}
	rgba := c.RGBA()
	for y := clip.Y; y < clip.Bottom(); y++ {
		for x := clip.X; x < clip.Right(); x++ {
			a.dev.SetPixel(int16(x), int16(y), rgba)
		}
	}
	return nil
}

// FillScreen fills the whole display.
func (a *DisplayerAdapter) FillScreen(c core.Color) error {
	size := a.Dimensions()
	return a.FillRect(core.NewRect(0, 0, size.W, size.H), c)
}

// Flush sends the driver's buffer, if it has one.
func (a *DisplayerAdapter) Flush() error {
	return a.dev.Display()
}
