package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/prize"
	"github.com/winbetball/betball/internal/domain/settlement"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/platform/logging"
)

// Standing is one leaderboard row for a tournament, recomputed from settled
// bets rather than read off the users' running totals.
type Standing struct {
	Place        int
	UserID       int64
	Username     string
	Points       int
	ExactCount   int
	DiffCount    int
	OutcomeCount int
}

type RankingService struct {
	tournamentRepo tournament.Repository
	gameRepo       game.Repository
	betRepo        bet.Repository
	prizeRepo      prize.Repository
	settlementRepo settlement.Repository
	logger         *logging.Logger
}

func NewRankingService(
	tournamentRepo tournament.Repository,
	gameRepo game.Repository,
	betRepo bet.Repository,
	prizeRepo prize.Repository,
	settlementRepo settlement.Repository,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RankingService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		betRepo:        betRepo,
		prizeRepo:      prizeRepo,
		settlementRepo: settlementRepo,
		logger:         logger,
	}
}

// Standings ranks every bettor of the tournament. Ties break on exact hits,
// then goal-difference hits, then outcome hits; a remaining tie goes to the
// lower user id so the order is total and reproducible.
func (s *RankingService) Standings(ctx context.Context, tournamentID int64) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "RankingService.Standings")
	defer span.End()

	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	bets, err := s.betRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list tournament bets: %w", err)
	}

	byUser := make(map[int64]*Standing)
	for _, item := range bets {
		if !item.Finished {
			continue
		}

		row, ok := byUser[item.OwnerID]
		if !ok {
			row = &Standing{UserID: item.OwnerID, Username: item.OwnerName}
			byUser[item.OwnerID] = row
		}

		row.Points += item.Points
		switch item.Points {
		case bet.PointsExact:
			row.ExactCount++
		case bet.PointsDifference:
			row.DiffCount++
		case bet.PointsOutcome:
			row.OutcomeCount++
		}
	}

	out := make([]Standing, 0, len(byUser))
	for _, row := range byUser {
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.ExactCount != b.ExactCount {
			return a.ExactCount > b.ExactCount
		}
		if a.DiffCount != b.DiffCount {
			return a.DiffCount > b.DiffCount
		}
		if a.OutcomeCount != b.OutcomeCount {
			return a.OutcomeCount > b.OutcomeCount
		}
		return a.UserID < b.UserID
	})

	for i := range out {
		out[i].Place = i + 1
	}

	return out, nil
}

// FinishTournament closes the tournament and persists the complete final
// ranking as prize rows. Every game must already be settled; the repository
// re-validates both guards inside the closing transaction.
func (s *RankingService) FinishTournament(ctx context.Context, tournamentID int64) ([]prize.Prize, error) {
	ctx, span := startUsecaseSpan(ctx, "RankingService.FinishTournament")
	defer span.End()

	item, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if item.Finished {
		return nil, tournament.ErrAlreadyFinished
	}

	unfinished, err := s.gameRepo.CountUnfinishedByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("count unfinished games: %w", err)
	}
	if unfinished > 0 {
		return nil, tournament.ErrUnfinishedGames
	}

	standings, err := s.Standings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	prizes := make([]prize.Prize, 0, len(standings))
	for _, row := range standings {
		prizes = append(prizes, prize.Prize{
			TournamentID:   item.ID,
			TournamentName: item.Name,
			UserID:         row.UserID,
			Place:          row.Place,
			Points:         row.Points,
		})
	}

	if err := s.settlementRepo.CloseTournament(ctx, settlement.ClosedTournament{
		TournamentID: item.ID,
		Prizes:       prizes,
	}); err != nil {
		return nil, fmt.Errorf("close tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament closed",
		"tournament_id", item.ID,
		"ranked_users", len(prizes),
	)

	return prizes, nil
}

func (s *RankingService) Prizes(ctx context.Context, tournamentID int64) ([]prize.Prize, error) {
	item, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !item.Finished {
		return nil, tournament.ErrUnfinishedGames
	}

	prizes, err := s.prizeRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	return prizes, nil
}

func (s *RankingService) UserPrizes(ctx context.Context, userID int64) ([]prize.Prize, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	prizes, err := s.prizeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user prizes: %w", err)
	}
	return prizes, nil
}

func (s *RankingService) getTournament(ctx context.Context, tournamentID int64) (tournament.Tournament, error) {
	if tournamentID <= 0 {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	item, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%d", ErrNotFound, tournamentID)
	}
	return item, nil
}
