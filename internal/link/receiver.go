package link

import (
	"errors"
	"fmt"
)

// Receiver decodes controller commands on the game side.
type Receiver struct {
	src     Source
	dropped int
}

// NewReceiver creates a receiver reading from src.
func NewReceiver(src Source) *Receiver {
	return &Receiver{src: src}
}

// Poll dispatches every complete command currently buffered and returns the
// number of commands handled. It never blocks: a partial button command is
// left in the source for the next poll.
func (r *Receiver) Poll(h Handler) (int, error) {
	handled := 0
	for r.src.Buffered() > 0 {
		head, err := r.src.Peek(1)
		if err != nil {
			return handled, fmt.Errorf("link: peek header: %w", err)
		}

		switch head[0] {
		case CmdButton:
			cmd, err := r.src.Peek(2)
			if errors.Is(err, ErrIncomplete) {
				// Wait for the state byte.
				return handled, nil
			}
			if err != nil {
				return handled, fmt.Errorf("link: peek button: %w", err)
			}
			if _, err := r.src.Discard(2); err != nil {
				return handled, fmt.Errorf("link: discard button: %w", err)
			}
			state := ButtonUp
			if cmd[1] != 0 {
				state = ButtonDown
			}
			h.OnButtonState(state)
			handled++

		case CmdTogglePause:
			if _, err := r.src.Discard(1); err != nil {
				return handled, fmt.Errorf("link: discard toggle: %w", err)
			}
			h.OnPauseToggle()
			handled++

		default:
			if _, err := r.src.Discard(1); err != nil {
				return handled, fmt.Errorf("link: discard unknown: %w", err)
			}
			r.dropped++
		}
	}
	return handled, nil
}

// Dropped returns the number of unknown header bytes discarded so far.
func (r *Receiver) Dropped() int {
	return r.dropped
}
