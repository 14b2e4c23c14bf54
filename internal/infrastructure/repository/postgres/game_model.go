package postgres

import (
	"time"

	"github.com/winbetball/betball/internal/domain/game"
)

type gameTableModel struct {
	ID           int64     `db:"id"`
	TournamentID int64     `db:"tournament_id"`
	Title        string    `db:"title"`
	StartTime    time.Time `db:"start_time"`
	Team1        string    `db:"team1"`
	Team2        string    `db:"team2"`
	Team1ID      int64     `db:"team1_id"`
	Team2ID      int64     `db:"team2_id"`
	Team1Score   int       `db:"team1_score"`
	Team2Score   int       `db:"team2_score"`
	DataID       int64     `db:"data_id"`
	Finished     bool      `db:"finished"`
}

type gameInsertModel struct {
	TournamentID int64     `db:"tournament_id"`
	Title        string    `db:"title"`
	StartTime    time.Time `db:"start_time"`
	Team1        string    `db:"team1"`
	Team2        string    `db:"team2"`
	Team1ID      int64     `db:"team1_id"`
	Team2ID      int64     `db:"team2_id"`
	Team1Score   int       `db:"team1_score"`
	Team2Score   int       `db:"team2_score"`
	DataID       int64     `db:"data_id"`
	Finished     bool      `db:"finished"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		Title:        m.Title,
		StartTime:    m.StartTime,
		Team1:        m.Team1,
		Team2:        m.Team2,
		Team1ID:      m.Team1ID,
		Team2ID:      m.Team2ID,
		Team1Score:   m.Team1Score,
		Team2Score:   m.Team2Score,
		DataID:       m.DataID,
		Finished:     m.Finished,
	}
}
