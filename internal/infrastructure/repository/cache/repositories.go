package cache

import (
	"context"
	"strconv"

	"github.com/winbetball/betball/internal/domain/team"
	basecache "github.com/winbetball/betball/internal/platform/cache"
)

// TeamRepository is a read-through cache in front of a team.Repository.
// Team rows change only on admin creates and roster syncs, so reads from
// game detail and leaderboard pages are served from memory between writes.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return team.Team{}, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *TeamRepository) UpsertByDataID(ctx context.Context, item team.Team) (team.Team, error) {
	upserted, err := r.next.UpsertByDataID(ctx, item)
	if err != nil {
		return team.Team{}, err
	}
	r.invalidate(ctx)
	return upserted, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	key := "team:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]team.Team, error) {
	key := "team:tournament:" + strconv.FormatInt(tournamentID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

// invalidate drops every team entry. Writes are rare enough that a full
// flush beats tracking which tournament lists a team belongs to.
func (r *TeamRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, "team:")
}

type cachedTeam struct {
	value  team.Team
	exists bool
}
