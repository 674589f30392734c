// Package scene runs the copter game world: the scrolling terrain, the
// obstacle blocks and the copter itself.
//
// A Scene never keeps a frame buffer. It remembers the terrain it last drew
// and, on every tick, writes only the pixels that differ from it.
package scene

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/panel"
	"github.com/vovakirdan/copter/internal/sprite"
	"github.com/vovakirdan/copter/internal/terrain"
)

// ErrCollided is returned by Tick once the copter has crashed.
// A collided scene must be replaced to play again.
var ErrCollided = errors.New("scene: copter has collided")

// Scene is the aggregate of terrain, blocks and copter for one attempt.
type Scene struct {
	display panel.Display
	size    core.Size
	cfg     Config
	rng     *rand.Rand

	gen      *terrain.Generator
	rendered []terrain.Frame // Terrain as currently drawn, left to right

	blocks        []Block
	maxBlocks     int
	lastBlockD    int
	skippedSpawns int

	copter Copter
	heli   *sprite.Helicopter

	collided bool
	ticks    int
}

// New builds a scene sized to the display, paints it once and returns it.
func New(d panel.Display, cfg Config, rng *rand.Rand) (*Scene, error) {
	size := d.Dimensions()
	if err := cfg.Validate(size); err != nil {
		return nil, err
	}
	gen, err := terrain.New(size, cfg.Spacing, cfg.MaxDelta, rng)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	maxBlocks := cfg.MaxBlocks(size.W)
	s := &Scene{
		display:   d,
		size:      size,
		cfg:       cfg,
		rng:       rng,
		gen:       gen,
		blocks:    make([]Block, 0, maxBlocks),
		maxBlocks: maxBlocks,
		copter: Copter{
			X: cfg.CopterX,
			Y: float64(size.H/2 - sprite.HelicopterSize.H/2),
		},
		heli: sprite.NewHelicopter(),
	}
	if err := s.Redraw(); err != nil {
		return nil, err
	}
	return s, nil
}

// Redraw repaints the whole scene from its state. New calls it once; callers
// use it after drawing over the scene, for example with a pause banner.
func (s *Scene) Redraw() error {
	bg := s.cfg.Colors.Background
	if err := s.display.FillScreen(bg); err != nil {
		return fmt.Errorf("scene: clear: %w", err)
	}

	s.rendered = s.gen.Frames()
	for x, f := range s.rendered {
		if err := s.drawColumn(x, f); err != nil {
			return fmt.Errorf("scene: draw terrain: %w", err)
		}
	}

	for _, b := range s.blocks {
		r := b.Rect.Intersect(core.NewRect(0, 0, s.size.W, s.size.H))
		if err := panel.DrawRect(s.display, r, s.cfg.Colors.Blocks); err != nil {
			return fmt.Errorf("scene: draw blocks: %w", err)
		}
	}

	if err := s.heli.Draw(s.display, s.copter.Pos(), s.cfg.Colors.Copter); err != nil {
		return fmt.Errorf("scene: draw copter: %w", err)
	}
	if err := s.display.Flush(); err != nil {
		return fmt.Errorf("scene: flush: %w", err)
	}
	return nil
}

// drawColumn paints both terrain boundaries of column x.
func (s *Scene) drawColumn(x int, f terrain.Frame) error {
	c := s.cfg.Colors.Terrain
	if err := panel.DrawRect(s.display, core.NewRect(x, 0, 1, f.Top), c); err != nil {
		return err
	}
	return panel.DrawRect(s.display, core.NewRect(x, s.size.H-f.Bottom, 1, f.Bottom), c)
}

// Tick advances the scene by one column and reports whether the copter has
// collided. Collision is tested on every tick, including ticks where the
// copter did not move, since terrain and blocks scroll into it. A failed
// Flush still reports the collision. Ticking a collided scene returns
// ErrCollided and draws nothing.
func (s *Scene) Tick(dir Direction) (bool, error) {
	if s.collided {
		return true, ErrCollided
	}

	s.gen.PopAndAdvance()
	if err := s.redrawTerrain(); err != nil {
		return false, fmt.Errorf("scene: draw terrain: %w", err)
	}

	if err := s.redrawBlocks(); err != nil {
		return false, fmt.Errorf("scene: draw blocks: %w", err)
	}
	s.updateBlocks()

	if err := s.moveCopter(dir); err != nil {
		return false, fmt.Errorf("scene: draw copter: %w", err)
	}

	r := s.heli.Bounds(s.copter.Pos())
	s.collided = s.hitsBlock(r) || s.gen.DetectCollision(r)
	s.ticks++

	if err := s.display.Flush(); err != nil {
		return s.collided, fmt.Errorf("scene: flush: %w", err)
	}
	return s.collided, nil
}

// redrawTerrain diffs the generator window against what is on screen and
// fills only the rows whose state changed.
func (s *Scene) redrawTerrain() error {
	h := s.size.H
	terrainColor := s.cfg.Colors.Terrain
	bg := s.cfg.Colors.Background

	for x := range s.rendered {
		old := s.rendered[x]
		cur := s.gen.At(x)
		if old == cur {
			continue
		}

		// Top boundary occupies rows [0, Top).
		if d := cur.Top - old.Top; d > 0 {
			if err := panel.DrawRect(s.display, core.NewRect(x, old.Top, 1, d), terrainColor); err != nil {
				return err
			}
		} else if d < 0 {
			if err := panel.DrawRect(s.display, core.NewRect(x, cur.Top, 1, -d), bg); err != nil {
				return err
			}
		}

		// Bottom boundary occupies rows [H-Bottom, H).
		if d := cur.Bottom - old.Bottom; d > 0 {
			if err := panel.DrawRect(s.display, core.NewRect(x, h-cur.Bottom, 1, d), terrainColor); err != nil {
				return err
			}
		} else if d < 0 {
			if err := panel.DrawRect(s.display, core.NewRect(x, h-old.Bottom, 1, -d), bg); err != nil {
				return err
			}
		}

		s.rendered[x] = cur
	}
	return nil
}

// moveCopter applies physics and redraws the sprite. A copter that stays on
// the same row only has its rotor animated.
func (s *Scene) moveCopter(dir Direction) error {
	oldPos := s.copter.Pos()
	s.copter.update(dir, s.cfg)
	newPos := s.copter.Pos()

	if newPos == oldPos {
		return s.heli.Animate(s.display, newPos, s.cfg.Colors.Copter, s.cfg.Colors.Background)
	}
	if err := s.heli.Erase(s.display, oldPos, s.cfg.Colors.Background); err != nil {
		return err
	}
	return s.heli.Draw(s.display, newPos, s.cfg.Colors.Copter)
}

// Collided reports whether the copter has crashed.
func (s *Scene) Collided() bool {
	return s.collided
}

// Copter returns the controlled object.
func (s *Scene) Copter() Copter {
	return s.copter
}

// CopterRect returns the copter collision rectangle.
func (s *Scene) CopterRect() core.Rect {
	return s.heli.Bounds(s.copter.Pos())
}

// Blocks returns a copy of the live block set.
func (s *Scene) Blocks() []Block {
	out := make([]Block, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// MaxBlocks returns the capacity of the live block set.
func (s *Scene) MaxBlocks() int {
	return s.maxBlocks
}

// SkippedSpawns returns how many due spawns were dropped because the block
// set was full or the safe band was empty.
func (s *Scene) SkippedSpawns() int {
	return s.skippedSpawns
}

// Generator returns the terrain generator.
func (s *Scene) Generator() *terrain.Generator {
	return s.gen
}

// Ticks returns the number of completed ticks.
func (s *Scene) Ticks() int {
	return s.ticks
}

// Size returns the display size the scene was built for.
func (s *Scene) Size() core.Size {
	return s.size
}

// Config returns the scene configuration.
func (s *Scene) Config() Config {
	return s.cfg
}
