package team

import "context"

type Repository interface {
	Create(ctx context.Context, item Team) (Team, error)
	// UpsertByDataID inserts or refreshes a synced team matched on DataID.
	UpsertByDataID(ctx context.Context, item Team) (Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]Team, error)
}
