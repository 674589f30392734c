// Package link implements the byte protocol spoken between the game and an
// external controller over a serial line.
//
// Every command starts with a single header byte:
//
//	controller -> game
//	  0x01 <state>   button released (0x00) or pressed (0x01)
//	  0x02           toggle pause
//	game -> controller
//	  0x03           game reset
//	  0x04 [u32]     score (legacy firmware sends a bare 0x04 as "+1")
//	  0x05 <u32>     high score
//
// Integers are little-endian. Readers never consume a command until all of
// its bytes are buffered, and silently drop headers they do not know.
package link

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Command headers.
const (
	CmdButton      byte = 0x01
	CmdTogglePause byte = 0x02
	CmdReset       byte = 0x03
	CmdScore       byte = 0x04
	CmdHighScore   byte = 0x05
)

const uint32Size = 4

// ErrIncomplete is returned when a command has not been fully buffered yet.
var ErrIncomplete = errors.New("link: incomplete command")

// ButtonState is the state of the controller button.
type ButtonState byte

const (
	ButtonUp   ButtonState = 0
	ButtonDown ButtonState = 1
)

func (s ButtonState) String() string {
	if s == ButtonDown {
		return "down"
	}
	return "up"
}

// Handler receives controller commands on the game side.
type Handler interface {
	OnButtonState(state ButtonState)
	OnPauseToggle()
}

// ScoreMode selects the encoding of score updates.
type ScoreMode int

const (
	ScorePayload   ScoreMode = iota // 0x04 followed by the u32 score
	ScoreIncrement                  // one bare 0x04 per point
)

func (m ScoreMode) String() string {
	if m == ScoreIncrement {
		return "increment"
	}
	return "payload"
}

// ParseScoreMode parses "payload" or "increment".
func ParseScoreMode(s string) (ScoreMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "payload":
		return ScorePayload, nil
	case "increment", "legacy":
		return ScoreIncrement, nil
	}
	return ScorePayload, fmt.Errorf("link: unknown score mode %q", s)
}

// Source is a non-blocking buffered byte source.
type Source interface {
	// Buffered returns the number of bytes ready to read.
	Buffered() int
	// Peek returns the next n bytes without consuming them, or ErrIncomplete
	// if fewer are buffered.
	Peek(n int) ([]byte, error)
	// Discard drops up to n buffered bytes.
	Discard(n int) (int, error)
	// ReadByte consumes one byte.
	ReadByte() (byte, error)
}

// EncodeButton returns the command for a button edge.
func EncodeButton(state ButtonState) []byte {
	return []byte{CmdButton, byte(state)}
}

// EncodeTogglePause returns the pause toggle command.
func EncodeTogglePause() []byte {
	return []byte{CmdTogglePause}
}

// appendUint32 appends the command header and a little-endian payload.
func appendUint32(dst []byte, header byte, n uint32) []byte {
	dst = append(dst, header)
	return binary.LittleEndian.AppendUint32(dst, n)
}

// EncodeScore returns the payload variant of a score update.
func EncodeScore(score uint32) []byte {
	return appendUint32(nil, CmdScore, score)
}

// EncodeHighScore returns a high score update.
func EncodeHighScore(score uint32) []byte {
	return appendUint32(nil, CmdHighScore, score)
}
