// Package session runs one player's copter game: it owns the current scene,
// the controller link state, the score counter and high score persistence.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"tinygo.org/x/drivers"

	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/link"
	"github.com/vovakirdan/copter/internal/panel"
	"github.com/vovakirdan/copter/internal/scene"
)

// DefaultScoreInterval is the number of ticks between score reports.
const DefaultScoreInterval = 20

// HighScoreStore persists the best score. Implementations are wear-limited,
// so the game only writes when the score is beaten.
type HighScoreStore interface {
	LoadHighScore() (uint32, error)
	SaveHighScore(score uint32) error
}

// RunRecorder is optionally implemented by a HighScoreStore that also keeps
// a history of finished runs.
type RunRecorder interface {
	RecordRun(score uint32) error
}

// Options configures a Game.
type Options struct {
	Display    panel.Display
	Scene      scene.Config
	Seed       int64 // 0 picks a time-based seed
	HighScores HighScoreStore

	// Controller link. Both are optional.
	Receiver    *link.Receiver
	Transmitter *link.Transmitter

	ScoreInterval int // Ticks between score reports (default 20)
	Logger        *log.Logger
}

// Game is the top-level game context. It implements link.Handler so the
// controller can drive it.
type Game struct {
	opts   Options
	logger *log.Logger
	seeds  *rand.Rand
	seed   int64

	scene *scene.Scene

	remoteButton link.ButtonState
	paused       bool
	pauseShown   bool // Whether the pause banner is on the display

	score     uint32
	highScore uint32
	over      bool
	skipped   int
}

var _ link.Handler = (*Game)(nil)

// New creates a game. Call Start before the first Step.
func New(opts Options) (*Game, error) {
	if opts.Display == nil {
		return nil, errors.New("session: nil display")
	}
	if opts.HighScores == nil {
		return nil, errors.New("session: nil high score store")
	}
	if opts.ScoreInterval <= 0 {
		opts.ScoreInterval = DefaultScoreInterval
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Game{
		opts:   opts,
		logger: logger,
		seeds:  rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Start loads the high score, builds the first scene and announces the new
// game over the link.
func (g *Game) Start() error {
	high, err := g.opts.HighScores.LoadHighScore()
	if err != nil {
		return fmt.Errorf("session: load high score: %w", err)
	}
	g.highScore = high
	g.logger.Debug("High score loaded", "score", high)
	return g.newScene()
}

// Restart replaces the scene with a fresh one.
func (g *Game) Restart() error {
	return g.newScene()
}

func (g *Game) newScene() error {
	g.seed = g.seeds.Int63()
	s, err := scene.New(g.opts.Display, g.opts.Scene, rand.New(rand.NewSource(g.seed)))
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	g.scene = s
	g.score = 0
	g.over = false
	g.paused = false
	g.pauseShown = false
	g.skipped = 0
	g.remoteButton = link.ButtonUp

	if tx := g.opts.Transmitter; tx != nil {
		g.warnLink("reset", tx.SendReset())
		g.warnLink("high score", tx.SendHighScore(g.highScore))
	}
	g.logger.Debug("Scene started", "seed", g.seed)
	return nil
}

// OnButtonState records the controller button.
func (g *Game) OnButtonState(state link.ButtonState) {
	g.remoteButton = state
}

// OnPauseToggle flips the pause state.
func (g *Game) OnPauseToggle() {
	if g.over {
		return
	}
	g.paused = !g.paused
}

// Step runs one tick: poll the link, apply input and advance the scene.
func (g *Game) Step(in core.InputFrame) (core.StepResult, error) {
	if g.scene == nil {
		return core.StepResult{}, errors.New("session: game not started")
	}

	if rx := g.opts.Receiver; rx != nil {
		if _, err := rx.Poll(g); err != nil {
			return core.StepResult{State: g.State()}, err
		}
	}

	if in.Has(core.ActionRestart) && g.over {
		if err := g.Restart(); err != nil {
			return core.StepResult{State: g.State()}, err
		}
		return core.StepResult{State: g.State(), Redrawn: true}, nil
	}
	if in.Has(core.ActionPause) {
		g.OnPauseToggle()
	}

	redrawn, err := g.syncPause()
	if err != nil {
		return core.StepResult{State: g.State()}, err
	}
	if g.paused || g.over {
		return core.StepResult{State: g.State(), Redrawn: redrawn}, nil
	}

	dir := scene.Down
	if in.Has(core.ActionBoost) || g.remoteButton == link.ButtonDown {
		dir = scene.Up
	}

	collided, err := g.scene.Tick(dir)
	if err != nil {
		err = fmt.Errorf("session: %w", err)
		if !collided {
			return core.StepResult{State: g.State()}, err
		}
	}
	if n := g.scene.SkippedSpawns(); n != g.skipped {
		g.logger.Debug("Block spawn skipped", "total", n)
		g.skipped = n
	}

	if collided {
		err = errors.Join(err, g.finish())
		return core.StepResult{State: g.State(), Redrawn: true}, err
	}

	g.score++
	if g.score%uint32(g.opts.ScoreInterval) == 0 {
		g.sendScore()
	}
	return core.StepResult{State: g.State(), Redrawn: true}, nil
}

// syncPause draws or clears the pause banner when the pause state changed.
func (g *Game) syncPause() (bool, error) {
	if g.paused == g.pauseShown {
		return false, nil
	}
	g.pauseShown = g.paused
	if g.paused {
		g.banner("PAUSED")
		return true, nil
	}
	if err := g.scene.Redraw(); err != nil {
		return true, fmt.Errorf("session: %w", err)
	}
	return true, nil
}

// warnLink logs a failed link send. Local play carries on without the
// controller.
func (g *Game) warnLink(what string, err error) {
	if err != nil {
		g.logger.Warn("Controller link send failed", "msg", what, "err", err)
	}
}

func (g *Game) sendScore() {
	if tx := g.opts.Transmitter; tx != nil {
		g.warnLink("score", tx.SendScore(g.score))
	}
}

// finish ends the attempt: persist the run and a beaten high score, report
// both over the link and show the game over banner.
func (g *Game) finish() error {
	g.over = true
	g.logger.Info("Copter crashed", "score", g.score, "high", g.highScore)

	if rec, ok := g.opts.HighScores.(RunRecorder); ok {
		if err := rec.RecordRun(g.score); err != nil {
			g.logger.Warn("Failed to record run", "err", err)
		}
	}

	var saveErr error
	beaten := g.score > g.highScore
	if beaten {
		if err := g.opts.HighScores.SaveHighScore(g.score); err != nil {
			saveErr = fmt.Errorf("session: save high score: %w", err)
		} else {
			g.highScore = g.score
			g.logger.Info("New high score", "score", g.score)
		}
	}

	g.sendScore()
	if tx := g.opts.Transmitter; tx != nil && beaten && saveErr == nil {
		g.warnLink("high score", tx.SendHighScore(g.highScore))
	}

	g.banner("GAME OVER", "SCORE "+strconv.FormatUint(uint64(g.score), 10), "BEST "+strconv.FormatUint(uint64(g.highScore), 10))
	return saveErr
}

// banner draws text over the scene when the display supports TinyGo text.
func (g *Game) banner(lines ...string) {
	d, ok := g.opts.Display.(drivers.Displayer)
	if !ok {
		return
	}
	colors := g.opts.Scene.Colors
	panel.DrawBanner(d, colors.Terrain, colors.Background, lines...)
}

// State returns a snapshot of the game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.score,
		HighScore: g.highScore,
		GameOver:  g.over,
		Paused:    g.paused,
	}
}

// Scene returns the current scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Seed returns the seed of the current scene.
func (g *Game) Seed() int64 {
	return g.seed
}

// RemoteButton returns the last button state received from the controller.
func (g *Game) RemoteButton() link.ButtonState {
	return g.remoteButton
}
