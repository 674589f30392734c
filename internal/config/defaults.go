package config

import (
	_ "embed"

	"github.com/vovakirdan/copter/internal/core"
)

//go:embed defaults/copter.yaml
var defaultCopterYAML []byte

// DefaultCopterConfig returns the default configuration: the 160x128
// handheld layout.
func DefaultCopterConfig() CopterConfig {
	return CopterConfig{
		Display: DisplayConfig{
			Width:  160,
			Height: 128,
		},
		Terrain: TerrainConfig{
			Spacing:  100,
			MaxDelta: 1,
		},
		Blocks: BlocksConfig{
			Distance: 125,
			Width:    10,
			Height:   25,
			Margin:   10,
		},
		Copter: CopterPhysics{
			X:          10,
			MaxGravity: 5,
			MaxBoost:   10,
			Damping:    0.5,
		},
		Colors: ColorsConfig{
			Background: core.ColorBlack,
			Terrain:    core.ColorGreen,
			Blocks:     core.ColorRed,
			Copter:     core.ColorYellow,
		},
		Link: LinkConfig{
			ScoreInterval: 20,
			ScoreMode:     "payload",
		},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			NVRAMImage: "~/.copter/nvram.img",
		},
	}
}
