package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
)

func TestGameService_Create(t *testing.T) {
	tournaments := memory.NewTournamentRepository(
		tournament.Tournament{ID: 1, Name: "Open Cup"},
		tournament.Tournament{ID: 2, Name: "Closed Cup", Finished: true},
	)
	games := memory.NewGameRepository()
	service := NewGameService(games, tournaments)

	kickoff := time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)

	created, err := service.Create(t.Context(), CreateGameInput{
		TournamentID: 1,
		StartTime:    kickoff,
		Team1:        "Ajax",
		Team2:        "PSV",
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if created.Title != "Ajax - PSV" {
		t.Fatalf("title must default to the pairing, got %q", created.Title)
	}
	if created.Finished {
		t.Fatalf("new games start open")
	}

	t.Run("closed tournament rejects new games", func(t *testing.T) {
		_, err := service.Create(t.Context(), CreateGameInput{
			TournamentID: 2,
			StartTime:    kickoff,
			Team1:        "A",
			Team2:        "B",
		})
		if !errors.Is(err, game.ErrTournamentFinished) {
			t.Fatalf("expected tournament finished, got %v", err)
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := service.Create(t.Context(), CreateGameInput{
			TournamentID: 77,
			StartTime:    kickoff,
			Team1:        "A",
			Team2:        "B",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("missing team names", func(t *testing.T) {
		_, err := service.Create(t.Context(), CreateGameInput{TournamentID: 1, StartTime: kickoff, Team1: "A"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})
}

func TestGameService_UpdateAndDeleteRespectSettlement(t *testing.T) {
	tournaments := memory.NewTournamentRepository(tournament.Tournament{ID: 1, Name: "Cup"})
	games := memory.NewGameRepository(
		game.Game{ID: 1, TournamentID: 1, Team1: "A", Team2: "B", StartTime: time.Now()},
		game.Game{ID: 2, TournamentID: 1, Team1: "C", Team2: "D", StartTime: time.Now(), Finished: true},
	)
	service := NewGameService(games, tournaments)

	updated, err := service.Update(t.Context(), 1, UpdateGameInput{Title: "Derby"})
	if err != nil {
		t.Fatalf("update open game: %v", err)
	}
	if updated.Title != "Derby" {
		t.Fatalf("title not applied: %+v", updated)
	}

	if _, err := service.Update(t.Context(), 2, UpdateGameInput{Title: "x"}); !errors.Is(err, game.ErrAlreadyFinished) {
		t.Fatalf("settled game must be immutable, got %v", err)
	}
	if err := service.Delete(t.Context(), 2); !errors.Is(err, game.ErrAlreadyFinished) {
		t.Fatalf("settled game must not be deletable, got %v", err)
	}
	if err := service.Delete(t.Context(), 1); err != nil {
		t.Fatalf("delete open game: %v", err)
	}
}

func TestTournamentService_CreateAndLink(t *testing.T) {
	tournaments := memory.NewTournamentRepository()
	teams := memory.NewTeamRepository(tournaments)
	service := NewTournamentService(tournaments, teams)

	created, err := service.Create(t.Context(), CreateTournamentInput{Name: "Serie A"})
	if err != nil {
		t.Fatalf("create tournament: %v", err)
	}

	if _, err := service.Create(t.Context(), CreateTournamentInput{Name: "serie a"}); !errors.Is(err, tournament.ErrNameTaken) {
		t.Fatalf("expected name taken, got %v", err)
	}

	club, err := teams.Create(t.Context(), team.Team{Name: "Juventus", Area: "Italy"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if err := service.LinkTeam(t.Context(), created.ID, club.ID); err != nil {
		t.Fatalf("link team: %v", err)
	}

	linked, err := service.ListTeams(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(linked) != 1 || linked[0].Name != "Juventus" {
		t.Fatalf("unexpected linked teams: %+v", linked)
	}
}
