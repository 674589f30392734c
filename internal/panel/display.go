// Package panel provides the pixel display the copter engine draws into.
//
// Every call on a Display is treated as a hardware write. The engine never
// keeps a frame buffer of its own, so the number of pixels touched per tick is
// what bounds the achievable tick rate on a real device.
package panel

import (
	"github.com/vovakirdan/copter/internal/core"
)

// Display is a pixel display with fill primitives.
// Out-of-bounds pixels are clipped by the implementation.
type Display interface {
	// Dimensions returns the display size in pixels.
	Dimensions() core.Size

	// DrawPixel writes a single pixel.
	DrawPixel(p core.Point, c core.Color) error

	// FillRect fills a rectangle. Empty rectangles are a no-op.
	FillRect(r core.Rect, c core.Color) error

	// FillScreen fills the whole display.
	FillScreen(c core.Color) error

	// Flush pushes buffered writes to the hardware, if the device buffers.
	Flush() error
}

// DrawRect fills r using the cheapest primitive for its shape: a single pixel
// for 1x1 rects, otherwise a fill.
func DrawRect(d Display, r core.Rect, c core.Color) error {
	if r.Empty() {
		return nil
	}
	if r.W == 1 && r.H == 1 {
		return d.DrawPixel(r.Origin(), c)
	}
	return d.FillRect(r, c)
}
