package scene

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/panel"
	"github.com/vovakirdan/copter/internal/terrain"
)

func newTestScene(t *testing.T, cfg Config, seed int64) (*Scene, *panel.Panel) {
	t.Helper()
	p := panel.NewPanel(160, 128)
	s, err := New(p, cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, p
}

// quietConfig never spawns blocks and keeps the copter on one row for a
// long time.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.BlockDistance = 1 << 30
	cfg.Damping = 0.0001
	return cfg
}

func TestNewScene(t *testing.T) {
	s, p := newTestScene(t, DefaultConfig(), 1)

	f := s.Generator().At(0)
	if f.Top != 14 || f.Bottom != 14 {
		t.Errorf("first frame = %+v, expected {Top:14 Bottom:14}", f)
	}

	terrainColor := s.Config().Colors.Terrain
	for y := 0; y < 14; y++ {
		if !p.Is(0, y, terrainColor) {
			t.Errorf("pixel (0,%d) should be terrain", y)
		}
		if !p.Is(0, 127-y, terrainColor) {
			t.Errorf("pixel (0,%d) should be terrain", 127-y)
		}
	}
	if !p.Is(0, 14, core.ColorBlack) || !p.Is(0, 113, core.ColorBlack) {
		t.Error("gap rows of column 0 should be background")
	}

	pos := s.Copter().Pos()
	if pos != (core.Point{X: 10, Y: 61}) {
		t.Errorf("copter position = %v, expected {10 61}", pos)
	}
	if s.Collided() {
		t.Error("new scene should not be collided")
	}
	if s.MaxBlocks() != 4 {
		t.Errorf("MaxBlocks() = %d, expected 4", s.MaxBlocks())
	}
}

func TestNewSceneInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spacing = 200
	p := panel.NewPanel(160, 128)
	if _, err := New(p, cfg, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestConfigMaxBlocks(t *testing.T) {
	tests := []struct {
		width    int
		distance int
		blockW   int
		expected int
	}{
		{160, 125, 10, 4},
		{160, 0, 10, 32},
		{160, 150, 10, 2},
		{161, 150, 10, 4},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.BlockDistance = tt.distance
		cfg.BlockSize.W = tt.blockW
		if got := cfg.MaxBlocks(tt.width); got != tt.expected {
			t.Errorf("MaxBlocks(%d) with distance %d = %d, expected %d", tt.width, tt.distance, got, tt.expected)
		}
	}
}

func TestTerrainWritesEqualDeltas(t *testing.T) {
	s, p := newTestScene(t, quietConfig(), 5)

	for tick := 0; tick < 200; tick++ {
		old := make([]terrain.Frame, len(s.rendered))
		copy(old, s.rendered)
		s.gen.PopAndAdvance()

		expected := 0
		for x := range old {
			cur := s.gen.At(x)
			expected += core.Abs(cur.Top-old[x].Top) + core.Abs(cur.Bottom-old[x].Bottom)
		}

		before := p.PixelWrites()
		if err := s.redrawTerrain(); err != nil {
			t.Fatalf("redrawTerrain() error = %v", err)
		}
		if got := p.PixelWrites() - before; got != expected {
			t.Fatalf("tick %d: terrain wrote %d pixels, expected %d", tick, got, expected)
		}
	}
}

func TestTerrainMatchesPanel(t *testing.T) {
	s, p := newTestScene(t, quietConfig(), 9)
	terrainColor := s.Config().Colors.Terrain

	for tick := 0; tick < 300; tick++ {
		s.gen.PopAndAdvance()
		if err := s.redrawTerrain(); err != nil {
			t.Fatalf("redrawTerrain() error = %v", err)
		}
	}

	for x := 0; x < 160; x++ {
		f := s.gen.At(x)
		for y := 0; y < 128; y++ {
			want := y < f.Top || y >= 128-f.Bottom
			if got := p.Is(x, y, terrainColor); got != want {
				t.Fatalf("pixel (%d,%d) terrain = %v, expected %v (frame %+v)", x, y, got, want, f)
			}
		}
	}
}

func TestTickMatchesRedraw(t *testing.T) {
	s, p := newTestScene(t, quietConfig(), 3)
	for i := 0; i < 120; i++ {
		collided, err := s.Tick(Down)
		if err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if collided {
			t.Fatalf("unexpected collision at tick %d", i)
		}
	}

	snapshot := panel.NewPanel(160, 128)
	for y := 0; y < 128; y++ {
		for x := 0; x < 160; x++ {
			snapshot.SetPixel(int16(x), int16(y), p.At(x, y))
		}
	}

	if err := s.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	copterRect := s.CopterRect()
	for y := 0; y < 128; y++ {
		for x := 0; x < 160; x++ {
			if copterRect.Contains(x, y) {
				continue
			}
			if snapshot.At(x, y) != p.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs between incremental and full redraw", x, y)
			}
		}
	}
}

func TestBlockScrollsAndRetires(t *testing.T) {
	s, p := newTestScene(t, quietConfig(), 1)
	s.blocks = append(s.blocks, Block{Rect: core.NewRect(40, 50, 10, 25)})

	blockColor := s.Config().Colors.Blocks
	prevX := 40
	for tick := 1; tick <= 60; tick++ {
		if err := s.redrawBlocks(); err != nil {
			t.Fatalf("redrawBlocks() error = %v", err)
		}
		s.updateBlocks()

		if tick < 50 {
			if len(s.blocks) != 1 {
				t.Fatalf("tick %d: %d blocks, expected 1", tick, len(s.blocks))
			}
			x := s.blocks[0].Rect.X
			if x != prevX-1 {
				t.Fatalf("tick %d: block x = %d, expected %d", tick, x, prevX-1)
			}
			prevX = x
			if x >= 0 && !p.Is(x, 50, blockColor) {
				t.Fatalf("tick %d: leading column %d not drawn", tick, x)
			}
			if x+10 < 160 && p.Is(x+10, 50, blockColor) {
				t.Fatalf("tick %d: trailing column %d not erased", tick, x+10)
			}
		} else if len(s.blocks) != 0 {
			t.Fatalf("tick %d: block should be retired at x <= -10", tick)
		}
	}

	// The block leaves no pixels behind.
	for x := 0; x < 160; x++ {
		if p.Is(x, 60, blockColor) {
			t.Errorf("pixel (%d,60) still has block color", x)
		}
	}
}

func TestBlockSpawnWithinSafeBand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockDistance = 3
	cfg.Damping = 0.0001

	for seed := int64(0); seed < 25; seed++ {
		s, _ := newTestScene(t, cfg, seed)
		spawned := 0
		for tick := 0; tick < 400; tick++ {
			s.gen.PopAndAdvance()
			minY, maxY, ok := s.SafeBand()
			before := len(s.blocks)
			s.updateBlocks()
			for _, b := range s.blocks {
				if b.Rect.X != s.size.W {
					continue
				}
				spawned++
				if !ok {
					t.Fatalf("seed %d: spawned with an empty safe band", seed)
				}
				if b.Rect.Y < minY || b.Rect.Y > maxY {
					t.Fatalf("seed %d: block y = %d outside [%d, %d]", seed, b.Rect.Y, minY, maxY)
				}
			}
			if len(s.blocks) > s.MaxBlocks() {
				t.Fatalf("seed %d: %d blocks exceed capacity %d (was %d)", seed, len(s.blocks), s.MaxBlocks(), before)
			}
		}
		if spawned == 0 {
			t.Errorf("seed %d: no blocks spawned", seed)
		}
	}
}

func TestBlockCapacitySkipsSpawns(t *testing.T) {
	cfg := quietConfig()
	cfg.BlockDistance = 0
	s, _ := newTestScene(t, cfg, 2)

	for tick := 0; tick < 300; tick++ {
		s.updateBlocks()
		if len(s.blocks) > s.MaxBlocks() {
			t.Fatalf("tick %d: %d blocks exceed capacity %d", tick, len(s.blocks), s.MaxBlocks())
		}
	}
	if s.SkippedSpawns() == 0 {
		t.Error("SkippedSpawns() = 0, expected spawns to be dropped at capacity")
	}
}

func TestEmptySafeBandSkipsSpawn(t *testing.T) {
	cfg := quietConfig()
	cfg.BlockDistance = 0
	cfg.BlockSize = core.Size{W: 10, H: 100}
	s, _ := newTestScene(t, cfg, 2)

	s.updateBlocks()
	if len(s.blocks) != 0 {
		t.Errorf("len(blocks) = %d, expected 0", len(s.blocks))
	}
	if s.SkippedSpawns() != 1 {
		t.Errorf("SkippedSpawns() = %d, expected 1", s.SkippedSpawns())
	}
}

func TestSpawnCadence(t *testing.T) {
	cfg := quietConfig()
	cfg.BlockDistance = 4
	s, _ := newTestScene(t, cfg, 2)

	var spawnTicks []int
	for tick := 1; tick <= 15; tick++ {
		before := len(s.blocks)
		s.updateBlocks()
		if len(s.blocks) > before {
			spawnTicks = append(spawnTicks, tick)
		}
	}
	expected := []int{5, 10, 15}
	if len(spawnTicks) != len(expected) {
		t.Fatalf("spawn ticks = %v, expected %v", spawnTicks, expected)
	}
	for i := range expected {
		if spawnTicks[i] != expected[i] {
			t.Errorf("spawn ticks = %v, expected %v", spawnTicks, expected)
			break
		}
	}
}

func TestCopterPhysics(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		dirs    []Direction
		boost   int
		gravity int
		y       float64
	}{
		{"one down", []Direction{Down}, 0, 1, 60.5},
		{"gravity ramps", []Direction{Down, Down, Down}, 0, 3, 63},
		{"gravity caps", []Direction{Down, Down, Down, Down, Down, Down, Down}, 0, 5, 60 + 0.5 + 1 + 1.5 + 2 + 2.5 + 2.5 + 2.5},
		{"boost ramps", []Direction{Up, Up}, 2, 2, 60},
		{"boost decays", []Direction{Up, Up, Down}, 1, 3, 61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Copter{X: 10, Y: 60}
			for _, d := range tt.dirs {
				c.update(d, cfg)
			}
			if c.Boost != tt.boost {
				t.Errorf("Boost = %d, expected %d", c.Boost, tt.boost)
			}
			if c.Gravity != tt.gravity {
				t.Errorf("Gravity = %d, expected %d", c.Gravity, tt.gravity)
			}
			if c.Y != tt.y {
				t.Errorf("Y = %v, expected %v", c.Y, tt.y)
			}
		})
	}
}

func TestCopterBoostClamp(t *testing.T) {
	cfg := DefaultConfig()
	c := Copter{Y: 60}
	for i := 0; i < 30; i++ {
		c.update(Up, cfg)
	}
	if c.Boost != cfg.MaxBoost {
		t.Errorf("Boost = %d, expected %d", c.Boost, cfg.MaxBoost)
	}
	for i := 0; i < 30; i++ {
		c.update(Down, cfg)
	}
	if c.Boost != 0 {
		t.Errorf("Boost = %d, expected 0", c.Boost)
	}
}

func TestCopterPos(t *testing.T) {
	tests := []struct {
		y        float64
		expected int
	}{
		{61, 61},
		{61.5, 61},
		{60.99, 60},
		{-0.5, -1},
	}
	for _, tt := range tests {
		c := Copter{X: 10, Y: tt.y}
		if got := c.Pos().Y; got != tt.expected {
			t.Errorf("Pos().Y for %v = %d, expected %d", tt.y, got, tt.expected)
		}
	}
}

func TestTickCollidesWithTerrain(t *testing.T) {
	s, _ := newTestScene(t, DefaultConfig(), 4)
	collided := false
	var err error
	for i := 0; i < 500 && !collided; i++ {
		collided, err = s.Tick(Down)
		if err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	if !collided {
		t.Fatal("copter falling freely should hit the bottom terrain")
	}
	if !s.Collided() {
		t.Error("Collided() should be sticky")
	}
}

func TestTickAfterCollision(t *testing.T) {
	s, p := newTestScene(t, DefaultConfig(), 4)
	s.copter.Y = 0

	collided, err := s.Tick(Down)
	if err != nil || !collided {
		t.Fatalf("Tick() = (%v, %v), expected (true, nil)", collided, err)
	}

	writes, calls, ticks := p.PixelWrites(), p.Calls(), s.Ticks()
	collided, err = s.Tick(Up)
	if !collided || !errors.Is(err, ErrCollided) {
		t.Errorf("Tick() after collision = (%v, %v), expected (true, ErrCollided)", collided, err)
	}
	if p.PixelWrites() != writes || p.Calls() != calls {
		t.Error("Tick() after collision should not touch the display")
	}
	if s.Ticks() != ticks {
		t.Errorf("Ticks() = %d, expected %d", s.Ticks(), ticks)
	}
}

func TestStationaryCopterHitByBlock(t *testing.T) {
	s, _ := newTestScene(t, quietConfig(), 1)
	r := s.CopterRect()
	s.blocks = append(s.blocks, Block{Rect: core.NewRect(r.Right(), r.Y, 10, 25)})

	pos := s.Copter().Pos()
	collided, err := s.Tick(Down)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if s.Copter().Pos() != pos {
		t.Fatalf("copter moved from %v to %v", pos, s.Copter().Pos())
	}
	if !collided {
		t.Error("block scrolling into a stationary copter should collide")
	}
}

func TestDeterminism(t *testing.T) {
	inputs := make([]Direction, 300)
	for i := range inputs {
		if i%7 < 3 {
			inputs[i] = Up
		}
	}

	run := func() (*Scene, *panel.Panel) {
		s, p := newTestScene(t, DefaultConfig(), 12345)
		for _, d := range inputs {
			if collided, _ := s.Tick(d); collided {
				break
			}
		}
		return s, p
	}

	s1, p1 := run()
	s2, p2 := run()

	if s1.Ticks() != s2.Ticks() {
		t.Errorf("Ticks() differ: %d vs %d", s1.Ticks(), s2.Ticks())
	}
	if s1.Copter() != s2.Copter() {
		t.Errorf("Copter() differ: %+v vs %+v", s1.Copter(), s2.Copter())
	}
	if p1.PixelWrites() != p2.PixelWrites() {
		t.Errorf("PixelWrites() differ: %d vs %d", p1.PixelWrites(), p2.PixelWrites())
	}
}
