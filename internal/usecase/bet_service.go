package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/user"
)

const maxPredictedScore = 99

type PlaceBetInput struct {
	GameID     int64
	OwnerID    int64
	Team1Score int
	Team2Score int
	Hidden     bool
}

type BetService struct {
	betRepo    bet.Repository
	gameRepo   game.Repository
	userRepo   user.Repository
	cutoffLead time.Duration
	now        func() time.Time
}

func NewBetService(betRepo bet.Repository, gameRepo game.Repository, userRepo user.Repository, cutoffLead time.Duration) *BetService {
	if cutoffLead <= 0 {
		cutoffLead = 3 * time.Hour
	}

	return &BetService{
		betRepo:    betRepo,
		gameRepo:   gameRepo,
		userRepo:   userRepo,
		cutoffLead: cutoffLead,
		now:        time.Now,
	}
}

// Place records a prediction. The storage-level uniqueness constraint backs
// the duplicate check, so two concurrent placements cannot both land.
func (s *BetService) Place(ctx context.Context, input PlaceBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "BetService.Place")
	defer span.End()

	if err := validatePrediction(input.Team1Score, input.Team2Score); err != nil {
		return bet.Bet{}, err
	}

	target, err := s.openGame(ctx, input.GameID)
	if err != nil {
		return bet.Bet{}, err
	}

	owner, exists, err := s.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get owner: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: user=%d", ErrNotFound, input.OwnerID)
	}

	created, err := s.betRepo.Create(ctx, bet.Bet{
		GameID:     target.ID,
		OwnerID:    owner.ID,
		OwnerName:  owner.Username,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
		Hidden:     input.Hidden,
	})
	if err != nil {
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}

	return created, nil
}

// UpdatePrediction rewrites an unsettled bet while the window is still open.
// Only the owner may edit.
func (s *BetService) UpdatePrediction(ctx context.Context, betID, ownerID int64, prediction bet.Prediction) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "BetService.UpdatePrediction")
	defer span.End()

	if err := validatePrediction(prediction.Team1Score, prediction.Team2Score); err != nil {
		return bet.Bet{}, err
	}

	item, exists, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: bet=%d", ErrNotFound, betID)
	}
	if item.OwnerID != ownerID {
		return bet.Bet{}, fmt.Errorf("%w: bet belongs to another user", ErrPermissionDenied)
	}
	if item.Finished {
		return bet.Bet{}, bet.ErrSettled
	}

	if _, err := s.openGame(ctx, item.GameID); err != nil {
		return bet.Bet{}, err
	}

	if err := s.betRepo.UpdatePrediction(ctx, betID, prediction); err != nil {
		return bet.Bet{}, fmt.Errorf("update bet: %w", err)
	}

	item.Team1Score = prediction.Team1Score
	item.Team2Score = prediction.Team2Score
	return item, nil
}

// ListForGame returns the game's bets as visible to viewer. Until the window
// closes only the viewer's own bets are exposed; admins always see all.
// Hidden bets stay masked for everyone but their owner until settlement.
func (s *BetService) ListForGame(ctx context.Context, gameID int64, viewer user.Principal) ([]bet.Bet, error) {
	target, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	items, err := s.betRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}

	windowOpen := !target.BettingClosed(s.now(), s.cutoffLead)
	out := make([]bet.Bet, 0, len(items))
	for _, item := range items {
		if item.OwnerID == viewer.UserID || viewer.IsAdmin {
			out = append(out, item)
			continue
		}
		if windowOpen {
			continue
		}
		if item.Hidden && !target.Finished {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

// GetByID returns a single bet under the same visibility policy as
// ListForGame: foreign bets resolve as not found while the window is open,
// and hidden ones stay that way until settlement.
func (s *BetService) GetByID(ctx context.Context, betID int64, viewer user.Principal) (bet.Bet, error) {
	if betID <= 0 {
		return bet.Bet{}, fmt.Errorf("%w: bet id is required", ErrInvalidInput)
	}

	item, exists, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: bet=%d", ErrNotFound, betID)
	}
	if item.OwnerID == viewer.UserID || viewer.IsAdmin {
		return item, nil
	}

	target, exists, err := s.gameRepo.GetByID(ctx, item.GameID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: game=%d", ErrNotFound, item.GameID)
	}
	if !target.BettingClosed(s.now(), s.cutoffLead) {
		return bet.Bet{}, fmt.Errorf("%w: bet=%d", ErrNotFound, betID)
	}
	if item.Hidden && !target.Finished {
		return bet.Bet{}, fmt.Errorf("%w: bet=%d", ErrNotFound, betID)
	}

	return item, nil
}

func (s *BetService) ListMine(ctx context.Context, ownerID int64, tournamentID *int64) ([]bet.Bet, error) {
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	items, err := s.betRepo.List(ctx, bet.Filter{OwnerID: &ownerID, TournamentID: tournamentID})
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	return items, nil
}

func (s *BetService) openGame(ctx context.Context, gameID int64) (game.Game, error) {
	if gameID <= 0 {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	target, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}
	if target.Finished {
		return game.Game{}, game.ErrAlreadyFinished
	}
	if target.BettingClosed(s.now(), s.cutoffLead) {
		return game.Game{}, bet.ErrBettingClosed
	}

	return target, nil
}

func validatePrediction(team1Score, team2Score int) error {
	if team1Score < 0 || team2Score < 0 {
		return fmt.Errorf("%w: predicted scores must be >= 0", ErrInvalidInput)
	}
	if team1Score > maxPredictedScore || team2Score > maxPredictedScore {
		return fmt.Errorf("%w: predicted scores must be <= %d", ErrInvalidInput, maxPredictedScore)
	}
	return nil
}
