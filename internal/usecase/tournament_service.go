package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/winbetball/betball/internal/domain/team"
	"github.com/winbetball/betball/internal/domain/tournament"
)

type CreateTournamentInput struct {
	Name     string
	Logo     string
	DataID   int64
	SeasonID int64
}

type TournamentService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	now            func() time.Time
}

func NewTournamentService(tournamentRepo tournament.Repository, teamRepo team.Repository) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		now:            time.Now,
	}
}

func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament name is required", ErrInvalidInput)
	}

	if _, exists, err := s.tournamentRepo.GetByName(ctx, input.Name); err != nil {
		return tournament.Tournament{}, fmt.Errorf("check tournament name: %w", err)
	} else if exists {
		return tournament.Tournament{}, tournament.ErrNameTaken
	}

	created, err := s.tournamentRepo.Create(ctx, tournament.Tournament{
		Name:      input.Name,
		Logo:      strings.TrimSpace(input.Logo),
		DataID:    input.DataID,
		SeasonID:  input.SeasonID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}

	return created, nil
}

func (s *TournamentService) GetByID(ctx context.Context, id int64) (tournament.Tournament, error) {
	if id <= 0 {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	item, exists, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%d", ErrNotFound, id)
	}

	return item, nil
}

func (s *TournamentService) List(ctx context.Context) ([]tournament.Tournament, error) {
	items, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tournament: %w", err)
	}
	return nil
}

// LinkTeam attaches an existing team to the tournament roster.
func (s *TournamentService) LinkTeam(ctx context.Context, tournamentID, teamID int64) error {
	item, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if item.Finished {
		return tournament.ErrAlreadyFinished
	}

	if _, exists, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return fmt.Errorf("get team: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}

	if err := s.tournamentRepo.LinkTeam(ctx, tournamentID, teamID); err != nil {
		return fmt.Errorf("link team: %w", err)
	}
	return nil
}

func (s *TournamentService) ListAllTeams(ctx context.Context) ([]team.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TournamentService) ListTeams(ctx context.Context, tournamentID int64) ([]team.Team, error) {
	if _, err := s.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list tournament teams: %w", err)
	}
	return teams, nil
}
