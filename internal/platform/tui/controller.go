package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/copter/internal/link"
)

// ErrLinkClosed is reported when the game side hangs up.
var ErrLinkClosed = errors.New("tui: link closed")

// ControllerLink is the controller's view of a byte link to the game.
type ControllerLink interface {
	io.Writer
	link.Source
	Done() <-chan struct{}
	Err() error
}

// ControllerKeyMap defines the controller key bindings.
type ControllerKeyMap struct {
	Boost key.Binding
	Pause key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ControllerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Boost, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ControllerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Boost, k.Pause, k.Quit}}
}

// DefaultControllerKeyMap returns the default controller bindings.
func DefaultControllerKeyMap() ControllerKeyMap {
	return ControllerKeyMap{
		Boost: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "button"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	controllerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	controllerBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
	buttonDownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	buttonUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ControllerModel is the remote controller: it turns key presses into
// button and pause commands and shows what the game reports back.
type ControllerModel struct {
	conn     ControllerLink
	decoder  *link.Decoder
	keys     ControllerKeyMap
	help     help.Model
	tickRate int

	latch  BoostLatch
	button link.ButtonState

	score     uint32
	highScore uint32
	games     int
	pauses    int

	err      error
	quitting bool
}

// NewControllerModel creates a controller over conn.
func NewControllerModel(conn ControllerLink, mode link.ScoreMode, tickRate, boostHold int) ControllerModel {
	return ControllerModel{
		conn:     conn,
		decoder:  link.NewDecoder(conn, mode),
		keys:     DefaultControllerKeyMap(),
		help:     help.New(),
		tickRate: tickRate,
		latch:    BoostLatch{Hold: boostHold},
		button:   link.ButtonUp,
	}
}

// Init starts the poll loop.
func (m ControllerModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Boost):
			m.latch.Press()
			if err := m.setButton(link.ButtonDown); err != nil {
				return m.fail(err)
			}
		case key.Matches(msg, m.keys.Pause):
			if _, err := m.conn.Write(link.EncodeTogglePause()); err != nil {
				return m.fail(fmt.Errorf("send pause: %w", err))
			}
			m.pauses++
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m ControllerModel) handleTick() (tea.Model, tea.Cmd) {
	select {
	case <-m.conn.Done():
		err := m.conn.Err()
		if err == nil {
			err = ErrLinkClosed
		}
		return m.fail(err)
	default:
	}

	state := link.ButtonUp
	if m.latch.Tick() {
		state = link.ButtonDown
	}
	if err := m.setButton(state); err != nil {
		return m.fail(err)
	}

	events, err := m.decoder.Poll()
	if err != nil {
		return m.fail(err)
	}
	for _, ev := range events {
		m.apply(ev)
	}
	return m, tickCmd(m.tickRate)
}

// setButton sends a button command when the state changes.
func (m *ControllerModel) setButton(state link.ButtonState) error {
	if state == m.button {
		return nil
	}
	if _, err := m.conn.Write(link.EncodeButton(state)); err != nil {
		return fmt.Errorf("send button: %w", err)
	}
	m.button = state
	return nil
}

func (m *ControllerModel) apply(ev link.Event) {
	switch ev.Kind {
	case link.EventReset:
		m.score = 0
		m.games++
	case link.EventScore:
		m.score = ev.Value
	case link.EventHighScore:
		m.highScore = ev.Value
	}
}

func (m ControllerModel) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.quitting = true
	return m, tea.Quit
}

// Score returns the last score reported by the game.
func (m ControllerModel) Score() uint32 {
	return m.score
}

// HighScore returns the last high score reported by the game.
func (m ControllerModel) HighScore() uint32 {
	return m.highScore
}

// Games returns how many resets the game has announced.
func (m ControllerModel) Games() int {
	return m.games
}

// Button returns the button state last sent.
func (m ControllerModel) Button() link.ButtonState {
	return m.button
}

// Err returns the error that stopped the controller, if any.
func (m ControllerModel) Err() error {
	return m.err
}

// View renders the controller.
func (m ControllerModel) View() string {
	if m.quitting {
		return ""
	}

	button := buttonUpStyle.Render(" UP ")
	if m.button == link.ButtonDown {
		button = buttonDownStyle.Render(" DOWN ")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Score      %s\n", humanize.Comma(int64(m.score)))
	fmt.Fprintf(&body, "High score %s\n", humanize.Comma(int64(m.highScore)))
	fmt.Fprintf(&body, "Games      %d\n", m.games)
	fmt.Fprintf(&body, "Button     %s", button)

	var b strings.Builder
	b.WriteString(controllerTitle.Render("COPTER CONTROLLER"))
	b.WriteString("\n")
	b.WriteString(controllerBox.Render(body.String()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunController runs the controller until the user quits, the link drops
// or ctx is canceled.
func RunController(ctx context.Context, m ControllerModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	if fm, ok := final.(ControllerModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
