package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/winbetball/betball/internal/domain/tournament"
)

type TournamentRepository struct {
	mu          sync.RWMutex
	seq         int64
	tournaments map[int64]tournament.Tournament
	teamLinks   map[int64][]int64
}

func NewTournamentRepository(seed ...tournament.Tournament) *TournamentRepository {
	r := &TournamentRepository{
		tournaments: make(map[int64]tournament.Tournament),
		teamLinks:   make(map[int64][]int64),
	}
	for _, item := range seed {
		r.seq++
		if item.ID == 0 {
			item.ID = r.seq
		} else if item.ID > r.seq {
			r.seq = item.ID
		}
		r.tournaments[item.ID] = item
	}
	return r
}

func (r *TournamentRepository) Create(_ context.Context, item tournament.Tournament) (tournament.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tournaments {
		if strings.EqualFold(existing.Name, item.Name) {
			return tournament.Tournament{}, tournament.ErrNameTaken
		}
	}

	r.seq++
	item.ID = r.seq
	r.tournaments[item.ID] = item
	return item, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, id int64) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.tournaments[id]
	return item, ok, nil
}

func (r *TournamentRepository) GetByName(_ context.Context, name string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.tournaments {
		if strings.EqualFold(item.Name, name) {
			return item, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, item := range r.tournaments {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TournamentRepository) Update(_ context.Context, item tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tournaments[item.ID]; !ok {
		return nil
	}
	r.tournaments[item.ID] = item
	return nil
}

func (r *TournamentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tournaments, id)
	delete(r.teamLinks, id)
	return nil
}

func (r *TournamentRepository) LinkTeam(_ context.Context, tournamentID, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, linked := range r.teamLinks[tournamentID] {
		if linked == teamID {
			return nil
		}
	}
	r.teamLinks[tournamentID] = append(r.teamLinks[tournamentID], teamID)
	return nil
}

func (r *TournamentRepository) linkedTeamIDs(tournamentID int64) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, len(r.teamLinks[tournamentID]))
	copy(out, r.teamLinks[tournamentID])
	return out
}

func (r *TournamentRepository) markFinished(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.tournaments[id]
	if !ok {
		return
	}
	item.Finished = true
	r.tournaments[id] = item
}
