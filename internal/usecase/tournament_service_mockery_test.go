package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
	teammock "github.com/winbetball/betball/internal/mocks/domain/team"
	tournamentmock "github.com/winbetball/betball/internal/mocks/domain/tournament"
)

func TestTournamentService_ListTeams_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewTournamentService(tournamentRepo, teamRepo)
	tournamentID := int64(42)
	expectedTeams := []team.Team{
		{ID: 1, Name: "Persija Jakarta", Area: "Indonesia"},
		{ID: 2, Name: "Persib Bandung", Area: "Indonesia"},
	}

	tournamentRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), tournamentID).
		Return(tournament.Tournament{ID: tournamentID, Name: "Liga 1"}, true, nil).
		Once()
	teamRepo.
		On("ListByTournament", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), tournamentID).
		Return(expectedTeams, nil).
		Once()

	got, err := service.ListTeams(ctx, tournamentID)
	if err != nil {
		t.Fatalf("list tournament teams: %v", err)
	}
	if len(got) != len(expectedTeams) {
		t.Fatalf("unexpected team count: got=%d want=%d", len(got), len(expectedTeams))
	}
	if got[0].Name != expectedTeams[0].Name {
		t.Fatalf("unexpected team name: got=%s want=%s", got[0].Name, expectedTeams[0].Name)
	}
}

func TestTournamentService_ListTeams_TournamentNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewTournamentService(tournamentRepo, teamRepo)
	tournamentID := int64(404)

	tournamentRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), tournamentID).
		Return(tournament.Tournament{}, false, nil).
		Once()

	_, err := service.ListTeams(ctx, tournamentID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTournamentService_LinkTeam_MissingTeamUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewTournamentService(tournamentRepo, teamRepo)

	tournamentRepo.
		On("GetByID", mock.Anything, int64(7)).
		Return(tournament.Tournament{ID: 7, Name: "Copa"}, true, nil).
		Once()
	teamRepo.
		On("GetByID", mock.Anything, int64(99)).
		Return(team.Team{}, false, nil).
		Once()

	err := service.LinkTeam(ctx, 7, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
