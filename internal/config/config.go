// Package config provides YAML-based configuration for the copter game:
// display geometry, terrain and block tuning, physics, palette and link
// settings.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/link"
	"github.com/vovakirdan/copter/internal/scene"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// CopterConfig contains all configuration for the copter game.
type CopterConfig struct {
	Display DisplayConfig `yaml:"display"`
	Terrain TerrainConfig `yaml:"terrain"`
	Blocks  BlocksConfig  `yaml:"blocks"`
	Copter  CopterPhysics `yaml:"copter"`
	Colors  ColorsConfig  `yaml:"colors"`
	Link    LinkConfig    `yaml:"link"`
	Storage StorageConfig `yaml:"storage"`
}

// DisplayConfig defines the emulated panel.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TerrainConfig defines the tunnel generator.
type TerrainConfig struct {
	Spacing  int `yaml:"spacing"`   // Open gap of the initial tunnel
	MaxDelta int `yaml:"max_delta"` // Largest per-column change
}

// BlocksConfig defines obstacle blocks.
type BlocksConfig struct {
	Distance int `yaml:"distance"` // Ticks between spawns
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Margin   int `yaml:"margin"` // Clearance from terrain
}

// CopterPhysics defines the copter movement model.
type CopterPhysics struct {
	X          int     `yaml:"x"`
	MaxGravity int     `yaml:"max_gravity"`
	MaxBoost   int     `yaml:"max_boost"`
	Damping    float64 `yaml:"damping"`
}

// ColorsConfig holds palette names.
type ColorsConfig struct {
	Background core.Color `yaml:"background"`
	Terrain    core.Color `yaml:"terrain"`
	Blocks     core.Color `yaml:"blocks"`
	Copter     core.Color `yaml:"copter"`
}

// LinkConfig defines the controller link.
type LinkConfig struct {
	ScoreInterval int    `yaml:"score_interval"` // Ticks between score reports
	ScoreMode     string `yaml:"score_mode"`     // "payload" or "increment"
}

// StorageConfig defines where high scores live.
type StorageConfig struct {
	Backend    string `yaml:"backend"`     // "sqlite" or "nvram"
	NVRAMImage string `yaml:"nvram_image"` // Flash image path for the nvram backend
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendNVRAM  = "nvram"
)

// DisplaySize returns the panel size.
func (c CopterConfig) DisplaySize() core.Size {
	return core.Size{W: c.Display.Width, H: c.Display.Height}
}

// SceneConfig converts the config into scene tuning.
func (c CopterConfig) SceneConfig() scene.Config {
	return scene.Config{
		Spacing:       c.Terrain.Spacing,
		MaxDelta:      c.Terrain.MaxDelta,
		BlockDistance: c.Blocks.Distance,
		BlockSize:     core.Size{W: c.Blocks.Width, H: c.Blocks.Height},
		BlockMargin:   c.Blocks.Margin,
		CopterX:       c.Copter.X,
		MaxGravity:    c.Copter.MaxGravity,
		MaxBoost:      c.Copter.MaxBoost,
		Damping:       c.Copter.Damping,
		Colors: scene.Colors{
			Background: c.Colors.Background,
			Terrain:    c.Colors.Terrain,
			Blocks:     c.Colors.Blocks,
			Copter:     c.Colors.Copter,
		},
	}
}

// ScoreMode parses the link score mode.
func (c CopterConfig) ScoreMode() (link.ScoreMode, error) {
	return link.ParseScoreMode(c.Link.ScoreMode)
}

// Validate reports geometry and tuning that cannot produce a playable game.
func (c CopterConfig) Validate() error {
	if err := c.SceneConfig().Validate(c.DisplaySize()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Link.ScoreInterval < 0 {
		return fmt.Errorf("%w: score interval %d", ErrInvalid, c.Link.ScoreInterval)
	}
	if _, err := c.ScoreMode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Storage.Backend {
	case "", BackendSQLite, BackendNVRAM:
	default:
		return fmt.Errorf("%w: storage backend %q", ErrInvalid, c.Storage.Backend)
	}
	return nil
}
