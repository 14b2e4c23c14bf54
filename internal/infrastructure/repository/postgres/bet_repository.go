package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/domain/bet"
	qb "github.com/winbetball/betball/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) Create(ctx context.Context, item bet.Bet) (bet.Bet, error) {
	insert := betInsertModel{
		GameID:     item.GameID,
		OwnerID:    item.OwnerID,
		OwnerName:  item.OwnerName,
		Team1Score: item.Team1Score,
		Team2Score: item.Team2Score,
		Points:     item.Points,
		Finished:   item.Finished,
		Hidden:     item.Hidden,
	}
	query, args, err := qb.InsertModel("bets", insert, "RETURNING id")
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build insert bet query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.ID); err != nil {
		if isUniqueViolation(err, "uq_bets_game_owner") {
			return bet.Bet{}, bet.ErrDuplicate
		}
		return bet.Bet{}, fmt.Errorf("insert bet: %w", err)
	}
	return item, nil
}

func (r *BetRepository) GetByID(ctx context.Context, id int64) (bet.Bet, bool, error) {
	query, args, err := qb.Select("*").From("bets").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build select bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("select bet: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *BetRepository) UpdatePrediction(ctx context.Context, id int64, prediction bet.Prediction) error {
	query, args, err := qb.Update("bets").
		Set("team1_score", prediction.Team1Score).
		Set("team2_score", prediction.Team2Score).
		Where(qb.Eq("id", id), qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update bet prediction query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update bet prediction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bet prediction rows affected: %w", err)
	}
	if affected == 0 {
		return bet.ErrSettled
	}
	return nil
}

func (r *BetRepository) List(ctx context.Context, filter bet.Filter) ([]bet.Bet, error) {
	var conditions []qb.Condition
	if filter.OwnerID != nil {
		conditions = append(conditions, qb.Eq("owner_id", *filter.OwnerID))
	}
	if filter.GameID != nil {
		conditions = append(conditions, qb.Eq("game_id", *filter.GameID))
	}
	if filter.TournamentID != nil {
		conditions = append(conditions, qb.Expr(
			"game_id IN (SELECT id FROM games WHERE tournament_id = ?)", *filter.TournamentID))
	}
	return r.list(ctx, conditions...)
}

func (r *BetRepository) ListByGame(ctx context.Context, gameID int64) ([]bet.Bet, error) {
	return r.list(ctx, qb.Eq("game_id", gameID))
}

func (r *BetRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]bet.Bet, error) {
	return r.List(ctx, bet.Filter{TournamentID: &tournamentID})
}

func (r *BetRepository) list(ctx context.Context, conditions ...qb.Condition) ([]bet.Bet, error) {
	query, args, err := qb.Select("*").From("bets").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
