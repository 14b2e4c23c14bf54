package prize

import "context"

// Repository is read-only: prizes are created inside the tournament close
// transaction, see the settlement repository.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID int64) ([]Prize, error)
	ListByUser(ctx context.Context, userID int64) ([]Prize, error)
}
