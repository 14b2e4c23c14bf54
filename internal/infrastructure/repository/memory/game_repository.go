package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/winbetball/betball/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	seq   int64
	games map[int64]game.Game
}

func NewGameRepository(seed ...game.Game) *GameRepository {
	r := &GameRepository{games: make(map[int64]game.Game)}
	for _, item := range seed {
		r.seq++
		if item.ID == 0 {
			item.ID = r.seq
		} else if item.ID > r.seq {
			r.seq = item.ID
		}
		r.games[item.ID] = item
	}
	return r
}

func (r *GameRepository) Create(_ context.Context, item game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	item.ID = r.seq
	r.games[item.ID] = item
	return item, nil
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[id]
	return item, ok, nil
}

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(game.Game) bool { return true }), nil
}

func (r *GameRepository) ListByTournament(_ context.Context, tournamentID int64) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(g game.Game) bool { return g.TournamentID == tournamentID }), nil
}

func (r *GameRepository) ListUnfinishedTracked(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(g game.Game) bool { return !g.Finished && g.DataID != 0 }), nil
}

func (r *GameRepository) CountUnfinishedByTournament(_ context.Context, tournamentID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.games {
		if item.TournamentID == tournamentID && !item.Finished {
			count++
		}
	}
	return count, nil
}

func (r *GameRepository) Update(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[item.ID]; !ok {
		return nil
	}
	r.games[item.ID] = item
	return nil
}

func (r *GameRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.games, id)
	return nil
}

func (r *GameRepository) sortedLocked(keep func(game.Game) bool) []game.Game {
	out := make([]game.Game, 0, len(r.games))
	for _, item := range r.games {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *GameRepository) tournamentOf(gameID int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[gameID]
	return item.TournamentID, ok
}

// finish flips the finished guard with the final score. Settling an already
// finished game fails, which is what makes concurrent settlement safe.
func (r *GameRepository) finish(gameID int64, team1Score, team2Score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game %d not found", gameID)
	}
	if item.Finished {
		return game.ErrAlreadyFinished
	}

	item.Team1Score = team1Score
	item.Team2Score = team2Score
	item.Finished = true
	r.games[item.ID] = item
	return nil
}
