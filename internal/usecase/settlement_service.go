package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/settlement"
	"github.com/winbetball/betball/internal/platform/logging"
)

type FinishGameInput struct {
	GameID     int64
	Team1Score int
	Team2Score int
}

// SettlementService grades and finalizes games. The repository applies the
// whole outcome in one transaction, so a crash mid-settlement leaves no
// partial state behind.
type SettlementService struct {
	gameRepo       game.Repository
	betRepo        bet.Repository
	settlementRepo settlement.Repository
	cutoffLead     time.Duration
	logger         *logging.Logger
	now            func() time.Time
}

func NewSettlementService(
	gameRepo game.Repository,
	betRepo bet.Repository,
	settlementRepo settlement.Repository,
	cutoffLead time.Duration,
	logger *logging.Logger,
) *SettlementService {
	if cutoffLead <= 0 {
		cutoffLead = 3 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SettlementService{
		gameRepo:       gameRepo,
		betRepo:        betRepo,
		settlementRepo: settlementRepo,
		cutoffLead:     cutoffLead,
		logger:         logger,
		now:            time.Now,
	}
}

// FinishGame records the final score, grades every bet on the game and
// credits the owners' running totals. Calling it twice settles once: the
// repository re-checks the finished flag inside the transaction and the
// second call gets game.ErrAlreadyFinished.
func (s *SettlementService) FinishGame(ctx context.Context, input FinishGameInput) (settlement.SettledGame, error) {
	ctx, span := startUsecaseSpan(ctx, "SettlementService.FinishGame")
	defer span.End()

	if input.Team1Score < 0 || input.Team2Score < 0 {
		return settlement.SettledGame{}, fmt.Errorf("%w: final scores must be >= 0", ErrInvalidInput)
	}

	target, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return settlement.SettledGame{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return settlement.SettledGame{}, fmt.Errorf("%w: game=%d", ErrNotFound, input.GameID)
	}
	if target.Finished {
		return settlement.SettledGame{}, game.ErrAlreadyFinished
	}
	// Stored kickoffs carry the cutoff lead over the real start, so a match
	// becomes settleable once its betting cutoff has passed.
	if s.now().Before(target.CutoffAt(s.cutoffLead)) {
		return settlement.SettledGame{}, game.ErrNotStarted
	}

	bets, err := s.betRepo.ListByGame(ctx, input.GameID)
	if err != nil {
		return settlement.SettledGame{}, fmt.Errorf("list bets: %w", err)
	}

	settled := settlement.SettledGame{
		GameID:        target.ID,
		Team1Score:    input.Team1Score,
		Team2Score:    input.Team2Score,
		Bets:          make([]bet.Bet, 0, len(bets)),
		PointsByOwner: make(map[int64]int),
	}
	for _, item := range bets {
		item.Points = bet.Score(item.Prediction(), input.Team1Score, input.Team2Score)
		item.Finished = true
		settled.Bets = append(settled.Bets, item)
		if item.Points > 0 {
			settled.PointsByOwner[item.OwnerID] += item.Points
		}
	}

	if err := s.settlementRepo.SettleGame(ctx, settled); err != nil {
		return settlement.SettledGame{}, fmt.Errorf("settle game: %w", err)
	}

	s.logger.InfoContext(ctx, "game settled",
		"game_id", target.ID,
		"score", fmt.Sprintf("%d-%d", input.Team1Score, input.Team2Score),
		"bets", len(settled.Bets),
	)

	return settled, nil
}
