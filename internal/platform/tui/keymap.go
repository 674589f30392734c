package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/copter/internal/core"
)

// DefaultBoostHold is how many ticks a boost key press keeps the copter
// climbing. Terminals report key presses and repeats but never releases.
const DefaultBoostHold = 6

// KeyMap defines the in-game key bindings.
type KeyMap struct {
	Boost   key.Binding
	Pause   key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Boost, k.Pause, k.Restart, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Boost, k.Pause},
		{k.Restart, k.Quit},
	}
}

// DefaultKeyMap returns the default game bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Boost: key.NewBinding(
			key.WithKeys(" ", "up", "w", "k"),
			key.WithHelp("space/up", "climb"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a game action.
func (k KeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Boost):
		return core.ActionBoost
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	return core.ActionNone
}

// BoostLatch turns discrete key presses into a held button. Each press
// re-arms the latch; it releases after the hold window runs out.
type BoostLatch struct {
	Hold      int
	remaining int
}

// Press re-arms the latch.
func (b *BoostLatch) Press() {
	hold := b.Hold
	if hold <= 0 {
		hold = DefaultBoostHold
	}
	b.remaining = hold
}

// Tick reports whether the button is held this tick and counts the
// window down.
func (b *BoostLatch) Tick() bool {
	if b.remaining == 0 {
		return false
	}
	b.remaining--
	return true
}

// Held reports whether the latch is armed without consuming a tick.
func (b *BoostLatch) Held() bool {
	return b.remaining > 0
}

// Release drops the latch immediately.
func (b *BoostLatch) Release() {
	b.remaining = 0
}
