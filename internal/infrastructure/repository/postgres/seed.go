package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads demo tournaments, teams and games into an empty
// database. A non-empty tournaments table means the instance has real data
// and the seed is skipped.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM tournaments`); err != nil {
		return fmt.Errorf("count tournaments for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTournaments() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO tournaments (id, name, logo, data_id, season_id, finished)
VALUES (:id, :name, :logo, :data_id, :season_id, FALSE)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":        t.ID,
			"name":      t.Name,
			"logo":      t.Logo,
			"data_id":   t.DataID,
			"season_id": t.SeasonID,
		})
		if err != nil {
			return fmt.Errorf("bind seed tournament %q query: %w", t.Name, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed tournament %q: %w", t.Name, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (id, name, emblem, area, data_id)
VALUES (:id, :name, :emblem, :area, :data_id)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":      t.ID,
			"name":    t.Name,
			"emblem":  t.Emblem,
			"area":    t.Area,
			"data_id": t.DataID,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %q query: %w", t.Name, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %q: %w", t.Name, err)
		}
	}

	for _, g := range memory.SeedGames() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO games (id, tournament_id, title, start_time, team1, team2, team1_id, team2_id, team1_score, team2_score, data_id, finished)
VALUES (:id, :tournament_id, :title, :start_time, :team1, :team2, :team1_id, :team2_id, 0, 0, :data_id, FALSE)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":            g.ID,
			"tournament_id": g.TournamentID,
			"title":         g.Title,
			"start_time":    g.StartTime.UTC(),
			"team1":         g.Team1,
			"team2":         g.Team2,
			"team1_id":      g.Team1ID,
			"team2_id":      g.Team2ID,
			"data_id":       g.DataID,
		})
		if err != nil {
			return fmt.Errorf("bind seed game %q query: %w", g.Title, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed game %q: %w", g.Title, err)
		}
	}

	// Seeded rows carry fixed ids; move the sequences past them.
	for _, seq := range []string{"tournaments", "teams", "games"} {
		stmt := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM %s), 1))`,
			seq, seq)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("advance %s id sequence: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
