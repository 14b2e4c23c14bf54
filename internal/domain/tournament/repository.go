package tournament

import "context"

type Repository interface {
	Create(ctx context.Context, item Tournament) (Tournament, error)
	GetByID(ctx context.Context, id int64) (Tournament, bool, error)
	GetByName(ctx context.Context, name string) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	Update(ctx context.Context, item Tournament) error
	Delete(ctx context.Context, id int64) error
	LinkTeam(ctx context.Context, tournamentID, teamID int64) error
}
