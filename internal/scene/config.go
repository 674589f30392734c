package scene

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/copter/internal/core"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("scene: invalid config")

// Colors holds the palette used to paint a scene.
type Colors struct {
	Background core.Color
	Terrain    core.Color
	Blocks     core.Color
	Copter     core.Color
}

// Config holds the scene geometry and physics tuning.
type Config struct {
	Spacing  int // Open gap of the initial tunnel
	MaxDelta int // Largest per-column terrain change

	BlockDistance int       // Ticks between block spawns
	BlockSize     core.Size // Obstacle block size
	BlockMargin   int       // Clearance between terrain and a new block

	CopterX    int     // Fixed horizontal position of the copter
	MaxGravity int     // Upper bound of the gravity counter
	MaxBoost   int     // Upper bound of the boost counter
	Damping    float64 // Scales (gravity - boost) into pixels per tick

	Colors Colors
}

// DefaultConfig returns the tuning of the 160x128 handheld build.
func DefaultConfig() Config {
	return Config{
		Spacing:       100,
		MaxDelta:      1,
		BlockDistance: 125,
		BlockSize:     core.Size{W: 10, H: 25},
		BlockMargin:   10,
		CopterX:       10,
		MaxGravity:    5,
		MaxBoost:      10,
		Damping:       0.5,
		Colors: Colors{
			Background: core.ColorBlack,
			Terrain:    core.ColorGreen,
			Blocks:     core.ColorRed,
			Copter:     core.ColorYellow,
		},
	}
}

// Validate checks the config against a display of the given size.
func (c Config) Validate(size core.Size) error {
	switch {
	case size.W <= 0 || size.H <= 0:
		return fmt.Errorf("%w: display %dx%d", ErrInvalidConfig, size.W, size.H)
	case c.Spacing < 0 || c.Spacing > size.H:
		return fmt.Errorf("%w: spacing %d not in [0, %d]", ErrInvalidConfig, c.Spacing, size.H)
	case c.MaxDelta < 0:
		return fmt.Errorf("%w: max delta %d", ErrInvalidConfig, c.MaxDelta)
	case c.BlockDistance < 0:
		return fmt.Errorf("%w: block distance %d", ErrInvalidConfig, c.BlockDistance)
	case c.BlockSize.W <= 0 || c.BlockSize.H <= 0:
		return fmt.Errorf("%w: block size %dx%d", ErrInvalidConfig, c.BlockSize.W, c.BlockSize.H)
	case c.CopterX < 0 || c.CopterX >= size.W:
		return fmt.Errorf("%w: copter x %d outside display", ErrInvalidConfig, c.CopterX)
	case c.MaxGravity < 0 || c.MaxBoost < 0:
		return fmt.Errorf("%w: gravity %d, boost %d", ErrInvalidConfig, c.MaxGravity, c.MaxBoost)
	case c.Damping <= 0:
		return fmt.Errorf("%w: damping %v", ErrInvalidConfig, c.Damping)
	}
	return nil
}

// MaxBlocks returns the capacity of the live block set.
func (c Config) MaxBlocks(width int) int {
	span := c.BlockSize.W + c.BlockDistance
	if span <= 0 {
		return 2
	}
	// ceil(width / span) * 2
	return (width + span - 1) / span * 2
}
