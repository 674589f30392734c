package link

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EventKind identifies a game-to-controller event.
type EventKind int

const (
	EventReset EventKind = iota
	EventScore
	EventHighScore
)

func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventScore:
		return "score"
	case EventHighScore:
		return "high score"
	default:
		return "unknown"
	}
}

// Event is a decoded game-to-controller message.
type Event struct {
	Kind  EventKind
	Value uint32
}

// Decoder decodes game events on the controller side.
type Decoder struct {
	src   Source
	mode  ScoreMode
	score uint32 // Running total in increment mode
}

// NewDecoder creates a decoder reading from src.
func NewDecoder(src Source, mode ScoreMode) *Decoder {
	return &Decoder{src: src, mode: mode}
}

// Poll decodes every complete event currently buffered. Commands with a
// payload stay buffered until the payload has arrived.
func (d *Decoder) Poll() ([]Event, error) {
	var events []Event
	for d.src.Buffered() > 0 {
		head, err := d.src.Peek(1)
		if err != nil {
			return events, fmt.Errorf("link: peek header: %w", err)
		}

		switch head[0] {
		case CmdReset:
			if _, err := d.src.Discard(1); err != nil {
				return events, err
			}
			d.score = 0
			events = append(events, Event{Kind: EventReset})

		case CmdScore:
			if d.mode == ScoreIncrement {
				if _, err := d.src.Discard(1); err != nil {
					return events, err
				}
				d.score++
				events = append(events, Event{Kind: EventScore, Value: d.score})
				continue
			}
			v, ok, err := d.readUint32()
			if err != nil {
				return events, err
			}
			if !ok {
				return events, nil
			}
			events = append(events, Event{Kind: EventScore, Value: v})

		case CmdHighScore:
			v, ok, err := d.readUint32()
			if err != nil {
				return events, err
			}
			if !ok {
				return events, nil
			}
			events = append(events, Event{Kind: EventHighScore, Value: v})

		default:
			if _, err := d.src.Discard(1); err != nil {
				return events, err
			}
		}
	}
	return events, nil
}

// readUint32 consumes a header plus a little-endian u32 if all five bytes
// are buffered.
func (d *Decoder) readUint32() (uint32, bool, error) {
	b, err := d.src.Peek(1 + uint32Size)
	if errors.Is(err, ErrIncomplete) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("link: peek payload: %w", err)
	}
	if _, err := d.src.Discard(1 + uint32Size); err != nil {
		return 0, false, fmt.Errorf("link: discard payload: %w", err)
	}
	return binary.LittleEndian.Uint32(b[1:]), true, nil
}
