package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/tournament"
)

type CreateGameInput struct {
	TournamentID int64
	Title        string
	StartTime    time.Time
	Team1        string
	Team2        string
	Team1ID      int64
	Team2ID      int64
	DataID       int64
}

type UpdateGameInput struct {
	Title     string
	StartTime time.Time
	Team1     string
	Team2     string
}

type GameService struct {
	gameRepo       game.Repository
	tournamentRepo tournament.Repository
}

func NewGameService(gameRepo game.Repository, tournamentRepo tournament.Repository) *GameService {
	return &GameService{
		gameRepo:       gameRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *GameService) Create(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "GameService.Create")
	defer span.End()

	input.Title = strings.TrimSpace(input.Title)
	input.Team1 = strings.TrimSpace(input.Team1)
	input.Team2 = strings.TrimSpace(input.Team2)

	if input.TournamentID <= 0 {
		return game.Game{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if input.Team1 == "" || input.Team2 == "" {
		return game.Game{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if input.StartTime.IsZero() {
		return game.Game{}, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if input.Title == "" {
		input.Title = input.Team1 + " - " + input.Team2
	}

	owner, exists, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: tournament=%d", ErrNotFound, input.TournamentID)
	}
	if !owner.IsOpen() {
		return game.Game{}, game.ErrTournamentFinished
	}

	created, err := s.gameRepo.Create(ctx, game.Game{
		TournamentID: input.TournamentID,
		Title:        input.Title,
		StartTime:    input.StartTime.UTC(),
		Team1:        input.Team1,
		Team2:        input.Team2,
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		DataID:       input.DataID,
	})
	if err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return created, nil
}

func (s *GameService) GetByID(ctx context.Context, id int64) (game.Game, error) {
	if id <= 0 {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, id)
	}

	return item, nil
}

func (s *GameService) List(ctx context.Context) ([]game.Game, error) {
	items, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return items, nil
}

func (s *GameService) ListByTournament(ctx context.Context, tournamentID int64) ([]game.Game, error) {
	if tournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	if _, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, fmt.Errorf("get tournament: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: tournament=%d", ErrNotFound, tournamentID)
	}

	items, err := s.gameRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list games by tournament: %w", err)
	}
	return items, nil
}

// Update edits schedule fields of an unfinished game. Settled games are
// immutable.
func (s *GameService) Update(ctx context.Context, id int64, input UpdateGameInput) (game.Game, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if item.Finished {
		return game.Game{}, game.ErrAlreadyFinished
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		item.Title = title
	}
	if !input.StartTime.IsZero() {
		item.StartTime = input.StartTime.UTC()
	}
	if name := strings.TrimSpace(input.Team1); name != "" {
		item.Team1 = name
	}
	if name := strings.TrimSpace(input.Team2); name != "" {
		item.Team2 = name
	}

	if err := s.gameRepo.Update(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}
	return item, nil
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Finished {
		return game.ErrAlreadyFinished
	}

	if err := s.gameRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
