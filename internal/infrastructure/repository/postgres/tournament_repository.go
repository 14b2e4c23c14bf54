package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/domain/tournament"
	qb "github.com/winbetball/betball/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) Create(ctx context.Context, item tournament.Tournament) (tournament.Tournament, error) {
	insert := tournamentInsertModel{
		Name:      item.Name,
		Logo:      item.Logo,
		DataID:    item.DataID,
		SeasonID:  item.SeasonID,
		Finished:  item.Finished,
		CreatedAt: item.CreatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("tournaments", insert, "RETURNING id")
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("build insert tournament query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.ID); err != nil {
		if isUniqueViolation(err, "uq_tournaments_name") {
			return tournament.Tournament{}, tournament.ErrNameTaken
		}
		return tournament.Tournament{}, fmt.Errorf("insert tournament: %w", err)
	}
	return item, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TournamentRepository) GetByName(ctx context.Context, name string) (tournament.Tournament, bool, error) {
	return r.getOne(ctx, qb.Expr("lower(name) = lower(?)", name))
}

func (r *TournamentRepository) getOne(ctx context.Context, cond qb.Condition) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select tournament: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TournamentRepository) Update(ctx context.Context, item tournament.Tournament) error {
	query, args, err := qb.Update("tournaments").
		Set("name", item.Name).
		Set("logo", item.Logo).
		Set("data_id", item.DataID).
		Set("season_id", item.SeasonID).
		Set("finished", item.Finished).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "uq_tournaments_name") {
			return tournament.ErrNameTaken
		}
		return fmt.Errorf("update tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) Delete(ctx context.Context, id int64) error {
	// Games, bets and team links go with it via FK cascades.
	query, args, err := qb.DeleteFrom("tournaments").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete tournament query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) LinkTeam(ctx context.Context, tournamentID, teamID int64) error {
	query, args, err := qb.InsertInto("tournament_teams").
		Columns("tournament_id", "team_id").
		Values(tournamentID, teamID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build link team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link team to tournament: %w", err)
	}
	return nil
}
