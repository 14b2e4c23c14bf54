package game

import (
	"errors"
	"time"
)

var (
	ErrAlreadyFinished    = errors.New("game already finished")
	ErrNotStarted         = errors.New("game has not started yet")
	ErrStarted            = errors.New("game has already started")
	ErrTournamentFinished = errors.New("tournament is closed for new games")
)

// Game is a single scheduled match. Team scores are placeholders until the
// game is settled; after that the whole record is immutable.
type Game struct {
	ID           int64
	TournamentID int64
	Title        string
	StartTime    time.Time
	Team1        string
	Team2        string
	Team1ID      int64 // external team id, 0 when unlinked
	Team2ID      int64
	Team1Score   int
	Team2Score   int
	DataID       int64 // external match id, 0 when unlinked
	Finished     bool
}

// CutoffAt returns the moment from which bets are locked and settlement
// becomes possible. Kickoff times are stored with a fixed lead over the
// displayed local start, hence the configurable window.
func (g Game) CutoffAt(lead time.Duration) time.Time {
	return g.StartTime.Add(-lead)
}

// BettingClosed reports whether the cutoff has passed. The boundary instant
// itself already rejects bets.
func (g Game) BettingClosed(now time.Time, lead time.Duration) bool {
	return !now.Before(g.CutoffAt(lead))
}
