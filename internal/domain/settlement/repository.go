package settlement

import "context"

// Repository owns the two transactional batch writes of the platform. Both
// re-check their finished guard inside the transaction so concurrent calls
// resolve to exactly one winner.
type Repository interface {
	// SettleGame marks the game finished with its final score, flips every
	// bet to finished with its points, and atomically increments each
	// owner's running total. Returns game.ErrAlreadyFinished when the game
	// was settled by a concurrent call; any storage failure rolls the whole
	// batch back.
	SettleGame(ctx context.Context, settled SettledGame) error

	// CloseTournament re-validates that the tournament is open and all its
	// games are finished, writes the prize rows and flips the finished flag,
	// all atomically. Returns tournament.ErrAlreadyFinished or
	// tournament.ErrUnfinishedGames on guard violations.
	CloseTournament(ctx context.Context, closed ClosedTournament) error
}
