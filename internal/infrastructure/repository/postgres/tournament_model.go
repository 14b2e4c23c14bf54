package postgres

import (
	"time"

	"github.com/winbetball/betball/internal/domain/tournament"
)

type tournamentTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Logo      string    `db:"logo"`
	DataID    int64     `db:"data_id"`
	SeasonID  int64     `db:"season_id"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
}

type tournamentInsertModel struct {
	Name      string    `db:"name"`
	Logo      string    `db:"logo"`
	DataID    int64     `db:"data_id"`
	SeasonID  int64     `db:"season_id"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
}

func (m tournamentTableModel) toDomain() tournament.Tournament {
	return tournament.Tournament{
		ID:        m.ID,
		Name:      m.Name,
		Logo:      m.Logo,
		DataID:    m.DataID,
		SeasonID:  m.SeasonID,
		Finished:  m.Finished,
		CreatedAt: m.CreatedAt,
	}
}
