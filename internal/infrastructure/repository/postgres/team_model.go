package postgres

import "github.com/winbetball/betball/internal/domain/team"

type teamTableModel struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Emblem string `db:"emblem"`
	Area   string `db:"area"`
	DataID int64  `db:"data_id"`
}

type teamInsertModel struct {
	Name   string `db:"name"`
	Emblem string `db:"emblem"`
	Area   string `db:"area"`
	DataID int64  `db:"data_id"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:     m.ID,
		Name:   m.Name,
		Emblem: m.Emblem,
		Area:   m.Area,
		DataID: m.DataID,
	}
}
