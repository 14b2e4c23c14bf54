package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/domain/game"
	qb "github.com/winbetball/betball/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) (game.Game, error) {
	insert := gameInsertModel{
		TournamentID: item.TournamentID,
		Title:        item.Title,
		StartTime:    item.StartTime.UTC(),
		Team1:        item.Team1,
		Team2:        item.Team2,
		Team1ID:      item.Team1ID,
		Team2ID:      item.Team2ID,
		Team1Score:   item.Team1Score,
		Team2Score:   item.Team2Score,
		DataID:       item.DataID,
		Finished:     item.Finished,
	}
	query, args, err := qb.InsertModel("games", insert, "RETURNING id")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return item, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	return r.list(ctx)
}

func (r *GameRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]game.Game, error) {
	return r.list(ctx, qb.Eq("tournament_id", tournamentID))
}

func (r *GameRepository) ListUnfinishedTracked(ctx context.Context) ([]game.Game, error) {
	return r.list(ctx, qb.Eq("finished", false), qb.Expr("data_id <> 0"))
}

func (r *GameRepository) list(ctx context.Context, conditions ...qb.Condition) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(conditions...).
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) CountUnfinishedByTournament(ctx context.Context, tournamentID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("games").
		Where(qb.Eq("tournament_id", tournamentID), qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count unfinished games query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count unfinished games: %w", err)
	}
	return count, nil
}

func (r *GameRepository) Update(ctx context.Context, item game.Game) error {
	// Scores and the finished flag are owned by settlement, not here.
	query, args, err := qb.Update("games").
		Set("title", item.Title).
		Set("start_time", item.StartTime.UTC()).
		Set("team1", item.Team1).
		Set("team2", item.Team2).
		Set("team1_id", item.Team1ID).
		Set("team2_id", item.Team2ID).
		Set("data_id", item.DataID).
		Where(qb.Eq("id", item.ID), qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game rows affected: %w", err)
	}
	if affected == 0 {
		return game.ErrAlreadyFinished
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("games").
		Where(qb.Eq("id", id), qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game rows affected: %w", err)
	}
	if affected == 0 {
		return game.ErrAlreadyFinished
	}
	return nil
}
