package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/link"
	"github.com/vovakirdan/copter/internal/panel"
	"github.com/vovakirdan/copter/internal/session"
)

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	overStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model that runs one copter game on an emulated
// panel.
type Model struct {
	game     *session.Game
	panel    *panel.Panel
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	boost    BoostLatch
	input    core.InputFrame
	state    core.GameState
	width    int
	height   int
	err      error
	quitting bool
}

// NewModel creates a model for a game drawing on p and starts the game.
func NewModel(game *session.Game, p *panel.Panel, cfg core.RuntimeConfig, boostHold int) (Model, error) {
	if err := game.Start(); err != nil {
		return Model{}, err
	}
	h := help.New()
	h.ShowAll = false

	return Model{
		game:   game,
		panel:  p,
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   h,
		boost:  BoostLatch{Hold: boostHold},
		input:  core.NewInputFrame(),
		state:  game.State(),
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBoost:
		m.boost.Press()
	case core.ActionNone:
	default:
		m.input.Set(action)
	}
	return m, nil
}

// handleTick advances the game by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.boost.Tick() {
		m.input.Set(core.ActionBoost)
	}
	if m.input.Has(core.ActionRestart) {
		m.boost.Release()
	}

	result, err := m.game.Step(m.input)
	m.input.Clear()
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	m.state = result.State

	return m, tickCmd(m.config.TickRate)
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.state
}

// Err returns the error that stopped the game, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the panel with a status line and help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	needW, needH := TerminalSize(m.panel)
	if m.width > 0 && (m.width < needW || m.height < needH) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", needW, needH, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(RenderPanel(m.panel))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	parts := []string{
		statusStyle.Render("SCORE " + humanize.Comma(int64(m.state.Score))),
		statusStyle.Render("BEST " + humanize.Comma(int64(m.state.HighScore))),
	}
	if m.game.RemoteButton() == link.ButtonDown {
		parts = append(parts, "remote: down")
	}
	switch {
	case m.state.GameOver:
		parts = append(parts, overStyle.Render("GAME OVER"))
	case m.state.Paused:
		parts = append(parts, pausedStyle.Render("PAUSED"))
	}
	return strings.Join(parts, "  ")
}

// Run starts the Bubble Tea program for a started game model. Canceling
// ctx ends the program without an error.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
