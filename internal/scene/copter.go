package scene

import (
	"math"

	"github.com/vovakirdan/copter/internal/core"
)

// Direction is the player input for one tick.
type Direction int

const (
	Down Direction = iota // No boost; gravity wins
	Up                    // Boost
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Copter is the controlled object.
// Y accumulates fractional movement; the sprite is drawn at floor(Y).
type Copter struct {
	X       int
	Y       float64
	Boost   int
	Gravity int
}

// Pos returns the pixel position of the sprite origin.
func (c Copter) Pos() core.Point {
	return core.Point{X: c.X, Y: int(math.Floor(c.Y))}
}

// update applies one tick of physics. Boost ramps with input and decays
// without it; gravity ramps up once and stays at its maximum.
func (c *Copter) update(dir Direction, cfg Config) {
	if dir == Up {
		c.Boost = core.Min(c.Boost+1, cfg.MaxBoost)
	} else {
		c.Boost = core.Max(c.Boost-1, 0)
	}
	c.Gravity = core.Min(c.Gravity+1, cfg.MaxGravity)
	c.Y += float64(c.Gravity-c.Boost) * cfg.Damping
}
