package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/winbetball/betball/internal/domain/notification"
	qb "github.com/winbetball/betball/internal/platform/querybuilder"
)

// NotificationRepository persists the announcement watermark in a single-row
// table. The watermark only moves forward.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) LastNotifiedGameID(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("last_game_id").From("notification_watermark").
		Where(qb.Eq("id", 1)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select watermark query: %w", err)
	}

	var lastGameID int64
	if err := r.db.GetContext(ctx, &lastGameID, query, args...); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("select watermark: %w", err)
	}
	return lastGameID, nil
}

func (r *NotificationRepository) SetLastNotifiedGameID(ctx context.Context, gameID int64) error {
	query, args, err := qb.InsertInto("notification_watermark").
		Columns("id", "last_game_id").
		Values(1, gameID).
		Suffix(`ON CONFLICT (id)
DO UPDATE SET last_game_id = GREATEST(notification_watermark.last_game_id, EXCLUDED.last_game_id)`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert watermark query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert watermark: %w", err)
	}
	return nil
}

type announcementTableModel struct {
	GameID         int64     `db:"game_id"`
	Title          string    `db:"title"`
	Team1          string    `db:"team1"`
	Team2          string    `db:"team2"`
	StartTime      time.Time `db:"start_time"`
	TournamentName string    `db:"tournament_name"`
}

func (r *NotificationRepository) ListUnannounced(ctx context.Context, afterGameID int64) ([]notification.Announcement, error) {
	query, args, err := qb.Select(
		"g.id AS game_id",
		"g.title AS title",
		"g.team1 AS team1",
		"g.team2 AS team2",
		"g.start_time AS start_time",
		"t.name AS tournament_name",
	).
		From("games g JOIN tournaments t ON t.id = g.tournament_id").
		Where(qb.Expr("g.id > ?", afterGameID)).
		OrderBy("g.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select unannounced games query: %w", err)
	}

	var rows []announcementTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select unannounced games: %w", err)
	}

	out := make([]notification.Announcement, 0, len(rows))
	for _, row := range rows {
		out = append(out, notification.Announcement{
			GameID:         row.GameID,
			Title:          row.Title,
			Team1:          row.Team1,
			Team2:          row.Team2,
			StartTime:      row.StartTime,
			TournamentName: row.TournamentName,
		})
	}
	return out, nil
}
