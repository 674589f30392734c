package panel

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/vovakirdan/copter/internal/core"
)

// BannerFont is the font used for on-panel banners.
var BannerFont = &tinyfont.Picopixel

// DrawText writes a single line of text with its baseline at y.
func DrawText(d drivers.Displayer, x, y int, text string, c core.Color) {
	tinyfont.WriteLine(d, BannerFont, int16(x), int16(y), text, c.RGBA())
}

// TextWidth returns the rendered width of text in pixels.
func TextWidth(text string) int {
	_, outer := tinyfont.LineWidth(BannerFont, text)
	return int(outer)
}

// DrawBanner clears a band across the middle of the display and writes the
// given lines centered inside it.
func DrawBanner(d drivers.Displayer, bg, fg core.Color, lines ...string) {
	if len(lines) == 0 {
		return
	}
	w, h := d.Size()
	const lineHeight = 8
	bandH := len(lines)*lineHeight + 4
	top := (int(h) - bandH) / 2

	bgRGBA := bg.RGBA()
	for y := top; y < top+bandH; y++ {
		for x := 0; x < int(w); x++ {
			d.SetPixel(int16(x), int16(y), bgRGBA)
		}
	}
	for i, line := range lines {
		x := (int(w) - TextWidth(line)) / 2
		if x < 0 {
			x = 0
		}
		DrawText(d, x, top+(i+1)*lineHeight, line, fg)
	}
	_ = d.Display()
}
