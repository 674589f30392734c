package core

import "testing"

func TestColorUnmarshalText(t *testing.T) {
	tests := []struct {
		text     string
		expected Color
		wantErr  bool
	}{
		{"green", ColorGreen, false},
		{"Yellow", ColorYellow, false},
		{" black ", ColorBlack, false},
		{"chartreuse", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			var c Color
			err := c.UnmarshalText([]byte(tc.text))
			if tc.wantErr {
				if err == nil {
					t.Errorf("UnmarshalText(%q) should fail", tc.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalText(%q) failed: %v", tc.text, err)
			}
			if c != tc.expected {
				t.Errorf("UnmarshalText(%q) = %v, expected %v", tc.text, c, tc.expected)
			}
		})
	}
}

func TestColorRGBA(t *testing.T) {
	if got := ColorGreen.RGBA(); got.G != 0xFF || got.R != 0 || got.B != 0 {
		t.Errorf("ColorGreen.RGBA() = %v", got)
	}
	if got := Color(200).RGBA(); got != ColorBlack.RGBA() {
		t.Errorf("out of palette color should fall back to black, got %v", got)
	}
	if Color(200).String() != "Color(200)" {
		t.Errorf("String() = %q", Color(200).String())
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionBoost) {
		t.Error("new frame should be empty")
	}
	f.Set(ActionBoost)
	clone := f.Clone()
	f.Clear()
	if f.Has(ActionBoost) {
		t.Error("Clear should drop actions")
	}
	if !clone.Has(ActionBoost) {
		t.Error("Clone should not share state with the original")
	}

	var zero InputFrame
	if zero.Has(ActionPause) {
		t.Error("zero frame should report no actions")
	}
	zero.Set(ActionPause)
	if !zero.Has(ActionPause) {
		t.Error("Set on zero frame should allocate")
	}
}
