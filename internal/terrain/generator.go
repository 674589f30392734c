// Package terrain generates the scrolling tunnel the copter flies through.
//
// The tunnel is a window of one-pixel-wide columns (frames), each describing
// how far terrain intrudes from the top and bottom display edges. The window
// scrolls one column per tick: the leftmost frame is dropped and a new one is
// generated on the right by a bounded random walk.
package terrain

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/copter/internal/core"
)

var (
	// ErrInvalidSize is returned for a non-positive display size.
	ErrInvalidSize = errors.New("terrain: display size must be positive")
	// ErrInvalidSpacing is returned when spacing does not fit the display height.
	ErrInvalidSpacing = errors.New("terrain: spacing out of range")
	// ErrInvalidDelta is returned for a negative max delta.
	ErrInvalidDelta = errors.New("terrain: max delta must not be negative")
)

// Frame is the terrain intrusion at one pixel column.
type Frame struct {
	Top    int // Rows [0, Top) are terrain
	Bottom int // Rows [H-Bottom, H) are terrain
}

// Gap returns the open rows between the boundaries for a display of height h.
func (f Frame) Gap(h int) int {
	return h - f.Top - f.Bottom
}

// Generator owns a fixed-size sliding window of frames.
// The window is a ring buffer: head indexes the oldest (leftmost) frame.
type Generator struct {
	size     core.Size
	spacing  int
	maxDelta int
	rng      *rand.Rand

	frames []Frame
	head   int
}

// New creates a generator for a display of the given size and synthesizes the
// initial window. The first frame splits the space outside the gap evenly;
// every following frame is stepped from its left neighbour.
func New(size core.Size, spacing, maxDelta int, rng *rand.Rand) (*Generator, error) {
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, size.W, size.H)
	}
	if spacing < 0 || spacing > size.H {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidSpacing, spacing, size.H)
	}
	if maxDelta < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDelta, maxDelta)
	}
	if rng == nil {
		return nil, errors.New("terrain: nil random source")
	}

	g := &Generator{
		size:     size,
		spacing:  spacing,
		maxDelta: maxDelta,
		rng:      rng,
		frames:   make([]Frame, size.W),
	}

	median := (size.H - spacing) / 2
	g.frames[0] = Frame{Top: median, Bottom: median}
	for i := 1; i < size.W; i++ {
		g.frames[i] = g.step(g.frames[i-1])
	}
	return g, nil
}

// step derives the next frame from prev. The delta is drawn uniformly from
// [-maxDelta, maxDelta] narrowed so neither boundary goes negative.
func (g *Generator) step(prev Frame) Frame {
	lo := core.Max(-prev.Top, -g.maxDelta)
	hi := core.Min(prev.Bottom, g.maxDelta)
	delta := lo + g.rng.Intn(hi-lo+1)
	return Frame{
		Top:    prev.Top + delta,
		Bottom: prev.Bottom - delta,
	}
}

// PopAndAdvance drops the oldest frame, appends a freshly stepped one and
// returns both.
func (g *Generator) PopAndAdvance() (popped, added Frame) {
	newest := g.Newest()
	popped = g.frames[g.head]
	added = g.step(newest)
	// The slot of the popped frame becomes the newest one.
	g.frames[g.head] = added
	g.head = (g.head + 1) % len(g.frames)
	return popped, added
}

// At returns the frame at column i, counted from the left screen edge.
func (g *Generator) At(i int) Frame {
	return g.frames[(g.head+i)%len(g.frames)]
}

// Len returns the window length, always equal to the display width.
func (g *Generator) Len() int {
	return len(g.frames)
}

// Newest returns the rightmost frame.
func (g *Generator) Newest() Frame {
	return g.At(len(g.frames) - 1)
}

// Frames returns a copy of the window, left to right.
func (g *Generator) Frames() []Frame {
	out := make([]Frame, 0, len(g.frames))
	out = append(out, g.frames[g.head:]...)
	out = append(out, g.frames[:g.head]...)
	return out
}

// Size returns the display size the generator was built for.
func (g *Generator) Size() core.Size {
	return g.size
}

// Spacing returns the gap the initial window was seeded with.
func (g *Generator) Spacing() int {
	return g.spacing
}

// MaxDelta returns the largest per-column boundary change.
func (g *Generator) MaxDelta() int {
	return g.maxDelta
}

// DetectCollision reports whether r touches terrain in any column it spans.
// Columns outside the window are ignored.
func (g *Generator) DetectCollision(r core.Rect) bool {
	if r.Empty() {
		return false
	}
	start := core.Max(r.X, 0)
	end := core.Min(r.Right(), len(g.frames))
	for x := start; x < end; x++ {
		f := g.At(x)
		if r.Y <= f.Top || r.Bottom() >= g.size.H-f.Bottom {
			return true
		}
	}
	return false
}
