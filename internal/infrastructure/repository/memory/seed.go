package memory

import (
	"time"

	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
)

const (
	SeedTournamentLiga1  = "Liga 1 Indonesia 2026"
	SeedTournamentFriend = "Weekend Friendlies"
)

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{ID: 1, Name: SeedTournamentLiga1, DataID: 2030, SeasonID: 2026},
		{ID: 2, Name: SeedTournamentFriend},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 1, Name: "Persija Jakarta", Area: "Indonesia", DataID: 9101},
		{ID: 2, Name: "Persib Bandung", Area: "Indonesia", DataID: 9102},
		{ID: 3, Name: "Persebaya Surabaya", Area: "Indonesia", DataID: 9103},
		{ID: 4, Name: "Bali United", Area: "Indonesia", DataID: 9104},
	}
}

func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:           1,
			TournamentID: 1,
			Title:        "Persija Jakarta - Persib Bandung",
			StartTime:    time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC),
			Team1:        "Persija Jakarta",
			Team2:        "Persib Bandung",
			Team1ID:      9101,
			Team2ID:      9102,
			DataID:       55001,
		},
		{
			ID:           2,
			TournamentID: 1,
			Title:        "Persebaya Surabaya - Bali United",
			StartTime:    time.Date(2026, 2, 15, 12, 30, 0, 0, time.UTC),
			Team1:        "Persebaya Surabaya",
			Team2:        "Bali United",
			Team1ID:      9103,
			Team2ID:      9104,
			DataID:       55002,
		},
		{
			ID:           3,
			TournamentID: 2,
			Title:        "Persib Bandung - Persebaya Surabaya",
			StartTime:    time.Date(2026, 2, 21, 12, 30, 0, 0, time.UTC),
			Team1:        "Persib Bandung",
			Team2:        "Persebaya Surabaya",
		},
	}
}
