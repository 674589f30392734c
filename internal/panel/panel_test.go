package panel

import (
	"testing"

	"github.com/vovakirdan/copter/internal/core"
)

func TestNewPanel(t *testing.T) {
	p := NewPanel(20, 10)
	if p.Width() != 20 {
		t.Errorf("Width() = %d, expected 20", p.Width())
	}
	if p.Height() != 10 {
		t.Errorf("Height() = %d, expected 10", p.Height())
	}
	if !p.Is(0, 0, core.ColorBlack) || !p.Is(19, 9, core.ColorBlack) {
		t.Error("new panel should be black")
	}
	if p.PixelWrites() != 0 {
		t.Errorf("PixelWrites() = %d, expected 0", p.PixelWrites())
	}
}

func TestPanelDrawPixel(t *testing.T) {
	p := NewPanel(10, 10)
	_ = p.DrawPixel(core.Point{X: 3, Y: 4}, core.ColorRed)
	if !p.Is(3, 4, core.ColorRed) {
		t.Error("pixel (3,4) should be red")
	}
	if p.PixelWrites() != 1 {
		t.Errorf("PixelWrites() = %d, expected 1", p.PixelWrites())
	}

	// Out of bounds: clipped, not counted
	_ = p.DrawPixel(core.Point{X: -1, Y: 0}, core.ColorRed)
	_ = p.DrawPixel(core.Point{X: 10, Y: 0}, core.ColorRed)
	if p.PixelWrites() != 1 {
		t.Errorf("PixelWrites() after OOB = %d, expected 1", p.PixelWrites())
	}
	if p.Calls() != 3 {
		t.Errorf("Calls() = %d, expected 3", p.Calls())
	}
}

func TestPanelFillRect(t *testing.T) {
	tests := []struct {
		name   string
		rect   core.Rect
		writes int
	}{
		{"inside", core.NewRect(1, 1, 3, 2), 6},
		{"clipped left", core.NewRect(-2, 0, 4, 1), 2},
		{"clipped bottom", core.NewRect(0, 8, 2, 5), 4},
		{"outside", core.NewRect(20, 20, 3, 3), 0},
		{"empty", core.NewRect(2, 2, 0, 3), 0},
		{"negative", core.NewRect(2, 2, 3, -1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPanel(10, 10)
			_ = p.FillRect(tt.rect, core.ColorGreen)
			if p.PixelWrites() != tt.writes {
				t.Errorf("PixelWrites() = %d, expected %d", p.PixelWrites(), tt.writes)
			}
		})
	}
}

func TestPanelFillRectColors(t *testing.T) {
	p := NewPanel(10, 10)
	_ = p.FillRect(core.NewRect(2, 3, 2, 2), core.ColorYellow)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 2 && x < 4 && y >= 3 && y < 5
			if inside && !p.Is(x, y, core.ColorYellow) {
				t.Errorf("pixel (%d,%d) should be yellow", x, y)
			}
			if !inside && !p.Is(x, y, core.ColorBlack) {
				t.Errorf("pixel (%d,%d) should be black", x, y)
			}
		}
	}
}

func TestPanelFillScreen(t *testing.T) {
	p := NewPanel(4, 3)
	_ = p.FillScreen(core.ColorBlue)
	if !p.Is(0, 0, core.ColorBlue) || !p.Is(3, 2, core.ColorBlue) {
		t.Error("FillScreen should paint every pixel")
	}
	if p.PixelWrites() != 12 {
		t.Errorf("PixelWrites() = %d, expected 12", p.PixelWrites())
	}
}

func TestPanelAt(t *testing.T) {
	p := NewPanel(4, 4)
	_ = p.DrawPixel(core.Point{X: 1, Y: 1}, core.ColorWhite)
	c := p.At(1, 1)
	if c.R < 0xF0 || c.G < 0xF0 || c.B < 0xF0 {
		t.Errorf("At(1,1) = %v, expected near white", c)
	}
	if c := p.At(-1, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("At(-1,0) = %v, expected black", c)
	}
}

func TestDrawRect(t *testing.T) {
	p := NewPanel(10, 10)
	_ = DrawRect(p, core.NewRect(5, 5, 1, 1), core.ColorRed)
	_ = DrawRect(p, core.NewRect(0, 0, 0, 0), core.ColorRed)
	_ = DrawRect(p, core.NewRect(0, 0, 2, 2), core.ColorRed)
	if p.Calls() != 2 {
		t.Errorf("Calls() = %d, expected 2", p.Calls())
	}
	if p.PixelWrites() != 5 {
		t.Errorf("PixelWrites() = %d, expected 5", p.PixelWrites())
	}
}

func TestPanelDisplayer(t *testing.T) {
	p := NewPanel(8, 6)
	w, h := p.Size()
	if w != 8 || h != 6 {
		t.Errorf("Size() = (%d, %d), expected (8, 6)", w, h)
	}
	p.SetPixel(2, 2, core.ColorCyan.RGBA())
	if !p.Is(2, 2, core.ColorCyan) {
		t.Error("SetPixel should write through to the panel")
	}
	if err := p.Display(); err != nil {
		t.Errorf("Display() error = %v", err)
	}
	if p.Flushes() != 1 {
		t.Errorf("Flushes() = %d, expected 1", p.Flushes())
	}
}

func TestDisplayerAdapter(t *testing.T) {
	p := NewPanel(6, 6)
	a := FromDisplayer(p)

	if got := a.Dimensions(); got != (core.Size{W: 6, H: 6}) {
		t.Errorf("Dimensions() = %v, expected 6x6", got)
	}
	_ = a.FillRect(core.NewRect(4, 4, 5, 5), core.ColorRed)
	if p.PixelWrites() != 4 {
		t.Errorf("PixelWrites() = %d, expected 4", p.PixelWrites())
	}
	_ = a.DrawPixel(core.Point{X: 9, Y: 9}, core.ColorRed)
	if p.PixelWrites() != 4 {
		t.Errorf("out-of-bounds DrawPixel wrote a pixel")
	}
	if err := a.Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func TestDrawBanner(t *testing.T) {
	p := NewPanel(40, 30)
	DrawBanner(p, core.ColorGray, core.ColorWhite, "GAME", "OVER")
	if p.PixelWrites() == 0 {
		t.Error("DrawBanner should write pixels")
	}
	if !p.Is(0, 15, core.ColorGray) {
		t.Error("banner background should cover the middle band")
	}
	if !p.Is(0, 0, core.ColorBlack) {
		t.Error("banner should not touch the top edge")
	}
}
