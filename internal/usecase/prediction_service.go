package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/domain/user"
	"github.com/winbetball/betball/internal/platform/logging"
)

// MatchContext is what the score predictor gets to reason about.
type MatchContext struct {
	Team1          string
	Team2          string
	TournamentName string
	Title          string
}

// ScorePredictor produces a score prediction for an upcoming match.
type ScorePredictor interface {
	PredictScore(ctx context.Context, match MatchContext) (bet.Prediction, error)
}

// PredictionService places bets on behalf of the house bot. Bot bets are
// hidden until the game settles so they cannot anchor other bettors.
type PredictionService struct {
	predictor      ScorePredictor
	gameService    *GameService
	betService     *BetService
	tournamentRepo tournament.Repository
	userRepo       user.Repository
	botUsername    string
	logger         *logging.Logger
}

func NewPredictionService(
	predictor ScorePredictor,
	gameService *GameService,
	betService *BetService,
	tournamentRepo tournament.Repository,
	userRepo user.Repository,
	botUsername string,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		predictor:      predictor,
		gameService:    gameService,
		betService:     betService,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		botUsername:    strings.TrimSpace(botUsername),
		logger:         logger,
	}
}

func (s *PredictionService) PlaceBotBet(ctx context.Context, gameID int64) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PlaceBotBet")
	defer span.End()

	if s.predictor == nil {
		return bet.Bet{}, fmt.Errorf("%w: score predictor is not configured", ErrDependencyUnavailable)
	}
	if s.botUsername == "" {
		return bet.Bet{}, fmt.Errorf("%w: bot username is not configured", ErrDependencyUnavailable)
	}

	bot, exists, err := s.userRepo.GetByUsername(ctx, s.botUsername)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bot user: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: bot user %q", ErrNotFound, s.botUsername)
	}

	target, err := s.gameService.GetByID(ctx, gameID)
	if err != nil {
		return bet.Bet{}, err
	}

	match := MatchContext{
		Team1: target.Team1,
		Team2: target.Team2,
		Title: target.Title,
	}
	if owner, ok, err := s.tournamentRepo.GetByID(ctx, target.TournamentID); err == nil && ok {
		match.TournamentName = owner.Name
	}

	prediction, err := s.predictor.PredictScore(ctx, match)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("%w: predict score: %w", ErrDependencyUnavailable, err)
	}

	placed, err := s.betService.Place(ctx, PlaceBetInput{
		GameID:     target.ID,
		OwnerID:    bot.ID,
		Team1Score: prediction.Team1Score,
		Team2Score: prediction.Team2Score,
		Hidden:     true,
	})
	if err != nil {
		return bet.Bet{}, err
	}

	s.logger.InfoContext(ctx, "bot bet placed",
		"game_id", target.ID,
		"prediction", fmt.Sprintf("%d-%d", prediction.Team1Score, prediction.Team2Score),
	)

	return placed, nil
}
