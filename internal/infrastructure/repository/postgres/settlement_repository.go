package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/settlement"
	"github.com/winbetball/betball/internal/domain/tournament"
	qb "github.com/winbetball/betball/internal/platform/querybuilder"
)

// SettlementRepository owns the two transactional batch writes. Both re-check
// their finished guard inside the transaction, so of two concurrent calls
// exactly one commits.
type SettlementRepository struct {
	db *sqlx.DB
}

func NewSettlementRepository(db *sqlx.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

func (r *SettlementRepository) SettleGame(ctx context.Context, settled settlement.SettledGame) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settle game tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The finished guard doubles as the idempotency check: the loser of a
	// concurrent settlement race matches zero rows.
	query, args, err := qb.Update("games").
		Set("team1_score", settled.Team1Score).
		Set("team2_score", settled.Team2Score).
		Set("finished", true).
		Where(qb.Eq("id", settled.GameID), qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finish game query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish game rows affected: %w", err)
	}
	if affected == 0 {
		return game.ErrAlreadyFinished
	}

	for _, b := range settled.Bets {
		betQuery, betArgs, err := qb.Update("bets").
			Set("points", b.Points).
			Set("finished", true).
			Where(qb.Eq("id", b.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build grade bet query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, betQuery, betArgs...); err != nil {
			return fmt.Errorf("grade bet %d: %w", b.ID, err)
		}
	}

	for ownerID, points := range settled.PointsByOwner {
		userQuery, userArgs, err := qb.Update("users").
			SetExpr("total_points", "total_points + ?", points).
			Where(qb.Eq("id", ownerID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build credit points query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, userQuery, userArgs...); err != nil {
			return fmt.Errorf("credit points to user %d: %w", ownerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settle game tx: %w", err)
	}
	return nil
}

func (r *SettlementRepository) CloseTournament(ctx context.Context, closed settlement.ClosedTournament) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin close tournament tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Lock the tournament row so two closes serialize on the guard.
	var finished bool
	if err := tx.GetContext(ctx, &finished,
		`SELECT finished FROM tournaments WHERE id = $1 FOR UPDATE`, closed.TournamentID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("close tournament %d: %w", closed.TournamentID, err)
		}
		return fmt.Errorf("lock tournament: %w", err)
	}
	if finished {
		return tournament.ErrAlreadyFinished
	}

	// Recount inside the transaction: a game created after the caller's
	// pre-check must still block the close.
	var unfinished int
	countQuery, countArgs, err := qb.Select("COUNT(*)").From("games").
		Where(qb.Eq("tournament_id", closed.TournamentID), qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build count unfinished games query: %w", err)
	}
	if err := tx.GetContext(ctx, &unfinished, countQuery, countArgs...); err != nil {
		return fmt.Errorf("count unfinished games: %w", err)
	}
	if unfinished > 0 {
		return tournament.ErrUnfinishedGames
	}

	if len(closed.Prizes) > 0 {
		builder := qb.InsertInto("prizes").Columns("tournament_id", "user_id", "place", "points")
		for _, p := range closed.Prizes {
			builder = builder.Values(closed.TournamentID, p.UserID, p.Place, p.Points)
		}
		prizeQuery, prizeArgs, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert prizes query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, prizeQuery, prizeArgs...); err != nil {
			return fmt.Errorf("insert prizes: %w", err)
		}
	}

	finishQuery, finishArgs, err := qb.Update("tournaments").
		Set("finished", true).
		Where(qb.Eq("id", closed.TournamentID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finish tournament query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, finishQuery, finishArgs...); err != nil {
		return fmt.Errorf("finish tournament: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit close tournament tx: %w", err)
	}
	return nil
}
