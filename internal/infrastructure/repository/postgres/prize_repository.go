package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/domain/prize"
	qb "github.com/winbetball/betball/internal/platform/querybuilder"
)

// PrizeRepository only reads; prize rows are written by the settlement
// repository inside the tournament close transaction.
type PrizeRepository struct {
	db *sqlx.DB
}

func NewPrizeRepository(db *sqlx.DB) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func (r *PrizeRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]prize.Prize, error) {
	return r.list(ctx, qb.Eq("p.tournament_id", tournamentID), "p.place")
}

func (r *PrizeRepository) ListByUser(ctx context.Context, userID int64) ([]prize.Prize, error) {
	return r.list(ctx, qb.Eq("p.user_id", userID), "p.tournament_id", "p.place")
}

func (r *PrizeRepository) list(ctx context.Context, cond qb.Condition, orderBy ...string) ([]prize.Prize, error) {
	query, args, err := qb.Select(
		"p.id AS id",
		"p.tournament_id AS tournament_id",
		"t.name AS tournament_name",
		"p.user_id AS user_id",
		"p.place AS place",
		"p.points AS points",
	).
		From("prizes p JOIN tournaments t ON t.id = p.tournament_id").
		Where(cond).
		OrderBy(orderBy...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select prizes query: %w", err)
	}

	var rows []prizeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select prizes: %w", err)
	}

	out := make([]prize.Prize, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
