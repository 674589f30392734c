// Package sprite draws the helicopter controlled by the player.
package sprite

import (
	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/panel"
)

// HelicopterSize is the bounding box of the helicopter sprite.
var HelicopterSize = core.Size{W: 11, H: 6}

// body is the helicopter body mask relative to the sprite origin.
var body = []core.Point{
	{X: 7, Y: 1},
	{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 7, Y: 2}, {X: 8, Y: 2},
	{X: 1, Y: 3}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 4, Y: 3}, {X: 5, Y: 3},
	{X: 6, Y: 3}, {X: 7, Y: 3}, {X: 8, Y: 3}, {X: 9, Y: 3},
	{X: 2, Y: 4}, {X: 5, Y: 4}, {X: 6, Y: 4}, {X: 7, Y: 4}, {X: 8, Y: 4}, {X: 9, Y: 4},
	{X: 6, Y: 5}, {X: 7, Y: 5}, {X: 8, Y: 5},
}

// Rotor blade on row 0, spanning columns [rotorStart, rotorEnd].
const (
	rotorRow   = 0
	rotorStart = 4
	rotorEnd   = 10
	rotorHalf  = (rotorEnd - rotorStart) / 2
)

// Helicopter is the sprite renderer. Its only state is the rotor animation.
type Helicopter struct {
	// AnimationFrames is the number of draws between rotor switches.
	AnimationFrames int

	frameCount int
	leftBlade  bool
}

// NewHelicopter returns a helicopter whose rotor switches on every draw.
func NewHelicopter() *Helicopter {
	return &Helicopter{AnimationFrames: 1, leftBlade: true}
}

// Bounds returns the sprite bounding box drawn at origin.
func (h *Helicopter) Bounds(origin core.Point) core.Rect {
	return core.RectAt(origin, HelicopterSize)
}

// BodyPixels returns the number of pixels in the body mask.
func BodyPixels() int {
	return len(body)
}

// LeftBlade reports which rotor half is currently shown.
func (h *Helicopter) LeftBlade() bool {
	return h.leftBlade
}

// advance moves the animation forward by one draw.
func (h *Helicopter) advance() {
	h.frameCount++
	if h.frameCount >= h.AnimationFrames {
		h.frameCount = 0
		h.leftBlade = !h.leftBlade
	}
}

// bladeSpan returns the inclusive column range of the visible rotor half.
func bladeSpan(left bool) (int, int) {
	start := rotorStart
	if !left {
		start += rotorHalf
	}
	return start, start + rotorHalf
}

func drawAt(d panel.Display, origin core.Point, p core.Point, c core.Color) error {
	return d.DrawPixel(core.Point{X: origin.X + p.X, Y: origin.Y + p.Y}, c)
}

// Draw paints the body and the next rotor frame at origin.
func (h *Helicopter) Draw(d panel.Display, origin core.Point, c core.Color) error {
	for _, p := range body {
		if err := drawAt(d, origin, p, c); err != nil {
			return err
		}
	}
	h.advance()
	start, end := bladeSpan(h.leftBlade)
	return d.FillRect(core.NewRect(origin.X+start, origin.Y+rotorRow, end-start+1, 1), c)
}

// Erase paints the body mask and the whole rotor row with bg.
func (h *Helicopter) Erase(d panel.Display, origin core.Point, bg core.Color) error {
	for _, p := range body {
		if err := drawAt(d, origin, p, bg); err != nil {
			return err
		}
	}
	return d.FillRect(core.NewRect(origin.X+rotorStart, origin.Y+rotorRow, rotorEnd-rotorStart+1, 1), bg)
}

// Animate advances the rotor of a helicopter that has not moved, touching
// only the rotor pixels that change.
func (h *Helicopter) Animate(d panel.Display, origin core.Point, fg, bg core.Color) error {
	oldLeft := h.leftBlade
	h.advance()
	if h.leftBlade == oldLeft {
		return nil
	}
	oldStart, oldEnd := bladeSpan(oldLeft)
	newStart, newEnd := bladeSpan(h.leftBlade)
	for x := oldStart; x <= oldEnd; x++ {
		if x >= newStart && x <= newEnd {
			continue
		}
		if err := d.DrawPixel(core.Point{X: origin.X + x, Y: origin.Y + rotorRow}, bg); err != nil {
			return err
		}
	}
	for x := newStart; x <= newEnd; x++ {
		if x >= oldStart && x <= oldEnd {
			continue
		}
		if err := d.DrawPixel(core.Point{X: origin.X + x, Y: origin.Y + rotorRow}, fg); err != nil {
			return err
		}
	}
	return nil
}
