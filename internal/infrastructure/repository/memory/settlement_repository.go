package memory

import (
	"context"
	"fmt"

	"github.com/winbetball/betball/internal/domain/settlement"
	"github.com/winbetball/betball/internal/domain/tournament"
)

// SettlementRepository applies settlement batches against the in-memory
// repositories. Validation and the optional failure hooks run before any
// write, so a failed batch leaves no partial state, matching the
// transactional guarantee of the SQL implementation.
type SettlementRepository struct {
	users       *UserRepository
	games       *GameRepository
	bets        *BetRepository
	tournaments *TournamentRepository
	prizes      *PrizeRepository

	// SettleGameHook and CloseTournamentHook run after guard checks and
	// before any mutation; returning an error aborts the batch. Tests use
	// them to prove nothing is written on failure.
	SettleGameHook      func() error
	CloseTournamentHook func() error
}

func NewSettlementRepository(
	users *UserRepository,
	games *GameRepository,
	bets *BetRepository,
	tournaments *TournamentRepository,
	prizes *PrizeRepository,
) *SettlementRepository {
	return &SettlementRepository{
		users:       users,
		games:       games,
		bets:        bets,
		tournaments: tournaments,
		prizes:      prizes,
	}
}

func (r *SettlementRepository) SettleGame(_ context.Context, settled settlement.SettledGame) error {
	if hook := r.SettleGameHook; hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}

	// The finished guard flips first; everything after it belongs to the
	// single winner of a concurrent settlement race.
	if err := r.games.finish(settled.GameID, settled.Team1Score, settled.Team2Score); err != nil {
		return err
	}

	r.bets.applyGrades(settled.Bets)
	for ownerID, points := range settled.PointsByOwner {
		r.users.addPoints(ownerID, points)
	}

	return nil
}

func (r *SettlementRepository) CloseTournament(ctx context.Context, closed settlement.ClosedTournament) error {
	item, ok, err := r.tournaments.GetByID(ctx, closed.TournamentID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("tournament %d not found", closed.TournamentID)
	}
	if item.Finished {
		return tournament.ErrAlreadyFinished
	}

	unfinished, err := r.games.CountUnfinishedByTournament(ctx, closed.TournamentID)
	if err != nil {
		return err
	}
	if unfinished > 0 {
		return tournament.ErrUnfinishedGames
	}

	if hook := r.CloseTournamentHook; hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}

	r.tournaments.markFinished(closed.TournamentID)
	r.prizes.insert(closed.Prizes)
	return nil
}
