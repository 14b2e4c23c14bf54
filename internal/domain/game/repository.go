package game

import "context"

type Repository interface {
	Create(ctx context.Context, item Game) (Game, error)
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	List(ctx context.Context) ([]Game, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]Game, error)
	// ListUnfinishedTracked returns unfinished games carrying an external
	// match id, the candidates for the result poller.
	ListUnfinishedTracked(ctx context.Context) ([]Game, error)
	CountUnfinishedByTournament(ctx context.Context, tournamentID int64) (int, error)
	Update(ctx context.Context, item Game) error
	Delete(ctx context.Context, id int64) error
}
