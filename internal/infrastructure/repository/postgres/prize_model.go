package postgres

import "github.com/winbetball/betball/internal/domain/prize"

type prizeTableModel struct {
	ID             int64  `db:"id"`
	TournamentID   int64  `db:"tournament_id"`
	TournamentName string `db:"tournament_name"`
	UserID         int64  `db:"user_id"`
	Place          int    `db:"place"`
	Points         int    `db:"points"`
}

func (m prizeTableModel) toDomain() prize.Prize {
	return prize.Prize{
		ID:             m.ID,
		TournamentID:   m.TournamentID,
		TournamentName: m.TournamentName,
		UserID:         m.UserID,
		Place:          m.Place,
		Points:         m.Points,
	}
}
