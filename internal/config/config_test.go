package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/link"
	"github.com/vovakirdan/copter/internal/scene"
	"gopkg.in/yaml.v3"
)

func TestDefaultCopterConfig(t *testing.T) {
	cfg := DefaultCopterConfig()

	if got := cfg.DisplaySize(); got != (core.Size{W: 160, H: 128}) {
		t.Errorf("DisplaySize() = %v, expected 160x128", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if got, want := cfg.SceneConfig(), scene.DefaultConfig(); got != want {
		t.Errorf("SceneConfig() = %+v, expected %+v", got, want)
	}
}

func TestEmbeddedMatchesDefaults(t *testing.T) {
	var cfg CopterConfig
	if err := yaml.Unmarshal(defaultCopterYAML, &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if cfg != DefaultCopterConfig() {
		t.Errorf("embedded = %+v, expected %+v", cfg, DefaultCopterConfig())
	}
}

func TestLoadCopterCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copter.yaml")
	data := []byte("terrain:\n  spacing: 80\ncolors:\n  copter: white\nlink:\n  score_mode: increment\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCopter(path)
	if err != nil {
		t.Fatalf("LoadCopter() error = %v", err)
	}
	if cfg.Terrain.Spacing != 80 {
		t.Errorf("Spacing = %d, expected 80", cfg.Terrain.Spacing)
	}
	if cfg.Colors.Copter != core.ColorWhite {
		t.Errorf("Copter color = %v, expected white", cfg.Colors.Copter)
	}
	// Untouched keys keep defaults.
	if cfg.Blocks.Distance != 125 {
		t.Errorf("Blocks.Distance = %d, expected 125", cfg.Blocks.Distance)
	}
	mode, err := cfg.ScoreMode()
	if err != nil || mode != link.ScoreIncrement {
		t.Errorf("ScoreMode() = %v, %v, expected increment", mode, err)
	}
}

func TestLoadCopterErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadCopter(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("colors:\n  copter: plaid\n"), 0o644)
	if _, err := LoadCopter(bad); err == nil {
		t.Error("expected error for unknown color")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("terrain:\n  spacing: 500\n"), 0o644)
	if _, err := LoadCopter(invalid); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadCopter() error = %v, expected ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CopterConfig)
		ok     bool
	}{
		{"defaults", func(*CopterConfig) {}, true},
		{"nvram backend", func(c *CopterConfig) { c.Storage.Backend = BackendNVRAM }, true},
		{"empty backend", func(c *CopterConfig) { c.Storage.Backend = "" }, true},
		{"unknown backend", func(c *CopterConfig) { c.Storage.Backend = "redis" }, false},
		{"negative interval", func(c *CopterConfig) { c.Link.ScoreInterval = -1 }, false},
		{"unknown score mode", func(c *CopterConfig) { c.Link.ScoreMode = "delta" }, false},
		{"zero width", func(c *CopterConfig) { c.Display.Width = 0 }, false},
		{"spacing above height", func(c *CopterConfig) { c.Terrain.Spacing = 200 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCopterConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, expected ok=%v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"normal", DifficultyNormal, false},
		{"insane", DifficultyNormal, true},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) = %v, %v, expected %v", tt.in, got, err, tt.want)
		}
	}
}

func TestApplyCopterPreset(t *testing.T) {
	base := DefaultCopterConfig()

	normal := base
	ApplyCopterPreset(&normal, DifficultyNormal)
	if normal != base {
		t.Errorf("normal preset changed config: %+v", normal)
	}

	easy := base
	ApplyCopterPreset(&easy, DifficultyEasy)
	if easy.Terrain.Spacing != 112 || easy.Blocks.Distance != 187 {
		t.Errorf("easy = spacing %d distance %d, expected 112 187", easy.Terrain.Spacing, easy.Blocks.Distance)
	}

	hard := base
	ApplyCopterPreset(&hard, DifficultyHard)
	if hard.Terrain.Spacing != 75 || hard.Terrain.MaxDelta != 2 || hard.Blocks.Distance != 84 {
		t.Errorf("hard = %+v %+v", hard.Terrain, hard.Blocks)
	}

	for _, cfg := range []CopterConfig{easy, hard} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset config invalid: %v", err)
		}
	}
}

func TestExpandHome(t *testing.T) {
	if got := ExpandHome("/tmp/x"); got != "/tmp/x" {
		t.Errorf("ExpandHome() = %q", got)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/a.img"); got != filepath.Join(home, "a.img") {
		t.Errorf("ExpandHome() = %q", got)
	}
}
