package bet

import "context"

// Filter narrows bet listings. Nil fields are ignored; TournamentID filters
// through the owning game.
type Filter struct {
	OwnerID      *int64
	GameID       *int64
	TournamentID *int64
}

type Repository interface {
	// Create persists a new bet and returns ErrDuplicate when the owner
	// already has a bet on the game. Uniqueness is enforced at the storage
	// level so concurrent inserts cannot both succeed.
	Create(ctx context.Context, item Bet) (Bet, error)
	GetByID(ctx context.Context, id int64) (Bet, bool, error)
	// UpdatePrediction overwrites the predicted scores only.
	UpdatePrediction(ctx context.Context, id int64, prediction Prediction) error
	List(ctx context.Context, filter Filter) ([]Bet, error)
	ListByGame(ctx context.Context, gameID int64) ([]Bet, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]Bet, error)
}
