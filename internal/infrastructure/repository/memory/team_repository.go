package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/winbetball/betball/internal/domain/team"
)

type TeamRepository struct {
	mu          sync.RWMutex
	seq         int64
	teams       map[int64]team.Team
	tournaments *TournamentRepository
}

func NewTeamRepository(tournaments *TournamentRepository, seed ...team.Team) *TeamRepository {
	r := &TeamRepository{
		teams:       make(map[int64]team.Team),
		tournaments: tournaments,
	}
	for _, item := range seed {
		r.seq++
		if item.ID == 0 {
			item.ID = r.seq
		} else if item.ID > r.seq {
			r.seq = item.ID
		}
		r.teams[item.ID] = item
	}
	return r
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.teams {
		if strings.EqualFold(existing.Name, item.Name) {
			return team.Team{}, team.ErrNameTaken
		}
	}

	r.seq++
	item.ID = r.seq
	r.teams[item.ID] = item
	return item, nil
}

func (r *TeamRepository) UpsertByDataID(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.DataID != 0 {
		for id, existing := range r.teams {
			if existing.DataID == item.DataID {
				item.ID = id
				r.teams[id] = item
				return item, nil
			}
		}
	}

	r.seq++
	item.ID = r.seq
	r.teams[item.ID] = item
	return item, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID int64) ([]team.Team, error) {
	if r.tournaments == nil {
		return nil, nil
	}

	ids := r.tournaments.linkedTeamIDs(tournamentID)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.teams[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
