package core

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a palette entry for the pixel display.
// The palette matches the named colors of the ST7735 driver family.
type Color uint8

// Predefined colors for game elements.
const (
	ColorBlack Color = iota
	ColorWhite
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorCyan
	ColorMagenta
	ColorOrange
	ColorGray
)

var colorNames = [...]string{
	ColorBlack:   "black",
	ColorWhite:   "white",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorBlue:    "blue",
	ColorYellow:  "yellow",
	ColorCyan:    "cyan",
	ColorMagenta: "magenta",
	ColorOrange:  "orange",
	ColorGray:    "gray",
}

var colorValues = [...]color.RGBA{
	ColorBlack:   {0x00, 0x00, 0x00, 0xFF},
	ColorWhite:   {0xFF, 0xFF, 0xFF, 0xFF},
	ColorRed:     {0xFF, 0x00, 0x00, 0xFF},
	ColorGreen:   {0x00, 0xFF, 0x00, 0xFF},
	ColorBlue:    {0x00, 0x00, 0xFF, 0xFF},
	ColorYellow:  {0xFF, 0xFF, 0x00, 0xFF},
	ColorCyan:    {0x00, 0xFF, 0xFF, 0xFF},
	ColorMagenta: {0xFF, 0x00, 0xFF, 0xFF},
	ColorOrange:  {0xFF, 0xA5, 0x00, 0xFF},
	ColorGray:    {0x80, 0x80, 0x80, 0xFF},
}

// RGBA returns the 8-bit per channel value of the color.
func (c Color) RGBA() color.RGBA {
	if int(c) >= len(colorValues) {
		return colorValues[ColorBlack]
	}
	return colorValues[c]
}

// String returns the palette name.
func (c Color) String() string {
	if int(c) >= len(colorNames) {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so colors can be
// written by name in config files.
func (c *Color) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range colorNames {
		if n == name {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("core: unknown color %q", string(text))
}
