package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/winbetball/betball/internal/domain/prize"
)

type PrizeRepository struct {
	mu   sync.RWMutex
	seq  int64
	rows []prize.Prize
}

func NewPrizeRepository() *PrizeRepository {
	return &PrizeRepository{}
}

func (r *PrizeRepository) ListByTournament(_ context.Context, tournamentID int64) ([]prize.Prize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prize.Prize, 0)
	for _, item := range r.rows {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Place < out[j].Place })
	return out, nil
}

func (r *PrizeRepository) ListByUser(_ context.Context, userID int64) ([]prize.Prize, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prize.Prize, 0)
	for _, item := range r.rows {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TournamentID != out[j].TournamentID {
			return out[i].TournamentID < out[j].TournamentID
		}
		return out[i].Place < out[j].Place
	})
	return out, nil
}

func (r *PrizeRepository) insert(items []prize.Prize) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.seq++
		item.ID = r.seq
		r.rows = append(r.rows, item)
	}
}
