package core

// RuntimeConfig contains configuration passed to a game session at start.
type RuntimeConfig struct {
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game session.
type GameState struct {
	Score     uint32 // Ticks survived in the current attempt
	HighScore uint32 // Best score loaded from or written to storage
	GameOver  bool   // Whether the copter has collided
	Paused    bool   // Whether the game is paused
}

// StepResult is returned after each simulation tick.
type StepResult struct {
	State   GameState
	Redrawn bool // Whether the tick touched the display
}
