package postgres

import "github.com/winbetball/betball/internal/domain/bet"

type betTableModel struct {
	ID         int64  `db:"id"`
	GameID     int64  `db:"game_id"`
	OwnerID    int64  `db:"owner_id"`
	OwnerName  string `db:"owner_name"`
	Team1Score int    `db:"team1_score"`
	Team2Score int    `db:"team2_score"`
	Points     int    `db:"points"`
	Finished   bool   `db:"finished"`
	Hidden     bool   `db:"hidden"`
}

type betInsertModel struct {
	GameID     int64  `db:"game_id"`
	OwnerID    int64  `db:"owner_id"`
	OwnerName  string `db:"owner_name"`
	Team1Score int    `db:"team1_score"`
	Team2Score int    `db:"team2_score"`
	Points     int    `db:"points"`
	Finished   bool   `db:"finished"`
	Hidden     bool   `db:"hidden"`
}

func (m betTableModel) toDomain() bet.Bet {
	return bet.Bet{
		ID:         m.ID,
		GameID:     m.GameID,
		OwnerID:    m.OwnerID,
		OwnerName:  m.OwnerName,
		Team1Score: m.Team1Score,
		Team2Score: m.Team2Score,
		Points:     m.Points,
		Finished:   m.Finished,
		Hidden:     m.Hidden,
	}
}
