package bet

import "errors"

var (
	ErrDuplicate     = errors.New("bet already placed for this game")
	ErrSettled       = errors.New("bet already settled")
	ErrBettingClosed = errors.New("betting window closed")
)

// Prediction is the score a user commits to before kickoff.
type Prediction struct {
	Team1Score int
	Team2Score int
}

// Bet is one user's prediction for one game. Points and Finished are written
// exactly once, by settlement.
type Bet struct {
	ID         int64
	GameID     int64
	OwnerID    int64
	OwnerName  string
	Team1Score int
	Team2Score int
	Points     int
	Finished   bool
	Hidden     bool
}

// Prediction returns the committed score pair.
func (b Bet) Prediction() Prediction {
	return Prediction{Team1Score: b.Team1Score, Team2Score: b.Team2Score}
}
