package storage

import (
	"errors"
)

// Ledger binds a Store to one game and exposes it as a high score cell plus
// a run history.
type Ledger struct {
	Store  *Store
	GameID string
	Player string
}

// LoadHighScore returns the stored high score, or 0 if none was saved.
func (l Ledger) LoadHighScore() (uint32, error) {
	score, err := l.Store.HighScore(l.GameID)
	if errors.Is(err, ErrNoScore) {
		return 0, nil
	}
	return score, err
}

// SaveHighScore overwrites the high score.
func (l Ledger) SaveHighScore(score uint32) error {
	return l.Store.SetHighScore(l.GameID, score)
}

// RecordRun appends a finished run to the history.
func (l Ledger) RecordRun(score uint32) error {
	_, err := l.Store.SaveScore(l.GameID, l.Player, score)
	return err
}
