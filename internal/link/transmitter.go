package link

import (
	"fmt"
	"io"
)

// Transmitter sends game events to the controller.
type Transmitter struct {
	w    io.Writer
	mode ScoreMode
	sent uint32 // Score already acknowledged in increment mode
}

// NewTransmitter creates a transmitter writing to w.
func NewTransmitter(w io.Writer, mode ScoreMode) *Transmitter {
	return &Transmitter{w: w, mode: mode}
}

// Mode returns the score encoding.
func (t *Transmitter) Mode() ScoreMode {
	return t.mode
}

func (t *Transmitter) write(what string, b []byte) error {
	if _, err := t.w.Write(b); err != nil {
		return fmt.Errorf("link: send %s: %w", what, err)
	}
	return nil
}

// SendReset announces a new game.
func (t *Transmitter) SendReset() error {
	t.sent = 0
	return t.write("reset", []byte{CmdReset})
}

// SendScore reports the current score. In increment mode one bare score
// header is sent per point gained since the last report.
func (t *Transmitter) SendScore(score uint32) error {
	if t.mode == ScorePayload {
		return t.write("score", EncodeScore(score))
	}
	if score <= t.sent {
		return nil
	}
	b := make([]byte, score-t.sent)
	for i := range b {
		b[i] = CmdScore
	}
	if err := t.write("score", b); err != nil {
		return err
	}
	t.sent = score
	return nil
}

// SendHighScore reports the high score.
func (t *Transmitter) SendHighScore(score uint32) error {
	return t.write("high score", EncodeHighScore(score))
}
