package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/winbetball/betball/internal/domain/bet"
)

type BetRepository struct {
	mu      sync.RWMutex
	seq     int64
	bets    map[int64]bet.Bet
	byOwner map[string]int64
	games   *GameRepository
}

func NewBetRepository(games *GameRepository) *BetRepository {
	return &BetRepository{
		bets:    make(map[int64]bet.Bet),
		byOwner: make(map[string]int64),
		games:   games,
	}
}

func betKey(gameID, ownerID int64) string {
	return fmt.Sprintf("%d/%d", gameID, ownerID)
}

func (r *BetRepository) Create(_ context.Context, item bet.Bet) (bet.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := betKey(item.GameID, item.OwnerID)
	if _, exists := r.byOwner[key]; exists {
		return bet.Bet{}, bet.ErrDuplicate
	}

	r.seq++
	item.ID = r.seq
	r.bets[item.ID] = item
	r.byOwner[key] = item.ID
	return item, nil
}

func (r *BetRepository) GetByID(_ context.Context, id int64) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.bets[id]
	return item, ok, nil
}

func (r *BetRepository) UpdatePrediction(_ context.Context, id int64, prediction bet.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.bets[id]
	if !ok {
		return nil
	}
	item.Team1Score = prediction.Team1Score
	item.Team2Score = prediction.Team2Score
	r.bets[id] = item
	return nil
}

func (r *BetRepository) List(_ context.Context, filter bet.Filter) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(item bet.Bet) bool {
		if filter.OwnerID != nil && item.OwnerID != *filter.OwnerID {
			return false
		}
		if filter.GameID != nil && item.GameID != *filter.GameID {
			return false
		}
		if filter.TournamentID != nil {
			tournamentID, ok := r.games.tournamentOf(item.GameID)
			if !ok || tournamentID != *filter.TournamentID {
				return false
			}
		}
		return true
	}), nil
}

func (r *BetRepository) ListByGame(_ context.Context, gameID int64) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(item bet.Bet) bool { return item.GameID == gameID }), nil
}

func (r *BetRepository) ListByTournament(_ context.Context, tournamentID int64) ([]bet.Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(item bet.Bet) bool {
		id, ok := r.games.tournamentOf(item.GameID)
		return ok && id == tournamentID
	}), nil
}

func (r *BetRepository) sortedLocked(keep func(bet.Bet) bool) []bet.Bet {
	out := make([]bet.Bet, 0, len(r.bets))
	for _, item := range r.bets {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// applyGrades writes settlement results for a batch of bets.
func (r *BetRepository) applyGrades(graded []bet.Bet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range graded {
		if _, ok := r.bets[item.ID]; !ok {
			continue
		}
		r.bets[item.ID] = item
	}
}
