package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty parses a preset name. An empty name means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	}
	return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q", s)
}

// ApplyCopterPreset adjusts the tunnel and obstacles for a preset.
// Normal leaves the loaded config untouched.
func ApplyCopterPreset(cfg *CopterConfig, preset DifficultyPreset) {
	h := cfg.Display.Height
	switch preset {
	case DifficultyEasy:
		// Wider tunnel, calmer walls, sparser blocks.
		cfg.Terrain.Spacing = min(h, cfg.Terrain.Spacing+h/10)
		cfg.Terrain.MaxDelta = 1
		cfg.Blocks.Distance += cfg.Blocks.Distance / 2
	case DifficultyHard:
		cfg.Terrain.Spacing = max(cfg.Blocks.Height+2*cfg.Blocks.Margin, cfg.Terrain.Spacing-h/5)
		cfg.Terrain.MaxDelta++
		cfg.Blocks.Distance -= cfg.Blocks.Distance / 3
	}
}
