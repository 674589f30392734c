package scene

import (
	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/panel"
)

// Block is a rectangular obstacle scrolling right to left.
type Block struct {
	Rect core.Rect
}

// redrawBlocks scrolls every live block one pixel left on screen: the
// rightmost column is erased and the column left of the block is drawn.
func (s *Scene) redrawBlocks() error {
	w := s.size.W
	for _, b := range s.blocks {
		r := b.Rect
		erase := core.NewRect(r.X+r.W-1, r.Y, 1, r.H)
		fill := core.NewRect(r.X-1, r.Y, 1, r.H)
		if erase.X >= 0 && erase.X < w {
			if err := panel.DrawRect(s.display, erase, s.cfg.Colors.Background); err != nil {
				return err
			}
		}
		if fill.X >= 0 && fill.X < w {
			if err := panel.DrawRect(s.display, fill, s.cfg.Colors.Blocks); err != nil {
				return err
			}
		}
	}
	return nil
}

// updateBlocks moves blocks left, retires those that left the screen and
// spawns a new one when the cadence distance is reached.
func (s *Scene) updateBlocks() {
	valid := s.blocks[:0]
	for _, b := range s.blocks {
		b.Rect.X--
		if b.Rect.X > -b.Rect.W {
			valid = append(valid, b)
		}
	}
	s.blocks = valid

	if s.lastBlockD >= s.cfg.BlockDistance {
		s.spawnBlock()
		s.lastBlockD = 0
	} else {
		s.lastBlockD++
	}
}

// SafeBand returns the inclusive range of block origins that cannot overlap
// terrain at the newest column, even after one more worst-case step.
// ok is false when the band is empty.
func (s *Scene) SafeBand() (minY, maxY int, ok bool) {
	f := s.gen.Newest()
	d := s.gen.MaxDelta()
	minY = f.Top + d + s.cfg.BlockMargin
	maxY = s.size.H - f.Bottom - d - s.cfg.BlockMargin - s.cfg.BlockSize.H
	return minY, maxY, maxY >= minY
}

// spawnBlock places a block just past the right edge.
func (s *Scene) spawnBlock() {
	if len(s.blocks) >= s.maxBlocks {
		s.skippedSpawns++
		return
	}
	minY, maxY, ok := s.SafeBand()
	if !ok {
		s.skippedSpawns++
		return
	}
	y := minY + s.rng.Intn(maxY-minY+1)
	s.blocks = append(s.blocks, Block{
		Rect: core.RectAt(core.Point{X: s.size.W, Y: y}, s.cfg.BlockSize),
	})
}

// hitsBlock reports whether r intersects any live block.
func (s *Scene) hitsBlock(r core.Rect) bool {
	for _, b := range s.blocks {
		if r.Intersects(b.Rect) {
			return true
		}
	}
	return false
}
