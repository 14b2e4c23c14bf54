package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/platform/logging"
)

type PollResultsSummary struct {
	Checked int
	Settled int
	Failed  int
}

// ResultPollerService walks the unfinished games that track an external
// match and settles the ones the provider reports as finished. A failure on
// one game never blocks the rest of the sweep.
type ResultPollerService struct {
	provider   MatchDataProvider
	gameRepo   game.Repository
	settlement *SettlementService
	logger     *logging.Logger
}

func NewResultPollerService(
	provider MatchDataProvider,
	gameRepo game.Repository,
	settlement *SettlementService,
	logger *logging.Logger,
) *ResultPollerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResultPollerService{
		provider:   provider,
		gameRepo:   gameRepo,
		settlement: settlement,
		logger:     logger,
	}
}

func (s *ResultPollerService) PollResults(ctx context.Context) (PollResultsSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "ResultPollerService.PollResults")
	defer span.End()

	if s.provider == nil {
		return PollResultsSummary{}, fmt.Errorf("%w: football data provider is not configured", ErrDependencyUnavailable)
	}

	candidates, err := s.gameRepo.ListUnfinishedTracked(ctx)
	if err != nil {
		return PollResultsSummary{}, fmt.Errorf("list tracked games: %w", err)
	}

	summary := PollResultsSummary{Checked: len(candidates)}
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		match, err := s.provider.FetchMatch(ctx, candidate.DataID)
		if err != nil {
			summary.Failed++
			s.logger.WarnContext(ctx, "fetch match result failed",
				"game_id", candidate.ID,
				"match_id", candidate.DataID,
				"error", err,
			)
			continue
		}

		if match.Status != ExternalMatchFinished || match.HomeScore == nil || match.AwayScore == nil {
			continue
		}

		_, err = s.settlement.FinishGame(ctx, FinishGameInput{
			GameID:     candidate.ID,
			Team1Score: *match.HomeScore,
			Team2Score: *match.AwayScore,
		})
		switch {
		case err == nil:
			summary.Settled++
		case errors.Is(err, game.ErrAlreadyFinished):
			// lost a race with a manual finish, nothing to do
		default:
			summary.Failed++
			s.logger.ErrorContext(ctx, "settle polled game failed",
				"game_id", candidate.ID,
				"error", err,
			)
		}
	}

	return summary, nil
}
