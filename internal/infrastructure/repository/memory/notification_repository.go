package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/winbetball/betball/internal/domain/notification"
)

type NotificationRepository struct {
	mu          sync.RWMutex
	watermark   int64
	games       *GameRepository
	tournaments *TournamentRepository
}

func NewNotificationRepository(games *GameRepository, tournaments *TournamentRepository) *NotificationRepository {
	return &NotificationRepository{
		games:       games,
		tournaments: tournaments,
	}
}

func (r *NotificationRepository) LastNotifiedGameID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.watermark, nil
}

func (r *NotificationRepository) SetLastNotifiedGameID(_ context.Context, gameID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gameID > r.watermark {
		r.watermark = gameID
	}
	return nil
}

func (r *NotificationRepository) ListUnannounced(ctx context.Context, afterGameID int64) ([]notification.Announcement, error) {
	games, err := r.games.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]notification.Announcement, 0)
	for _, item := range games {
		if item.ID <= afterGameID {
			continue
		}

		announcement := notification.Announcement{
			GameID:    item.ID,
			Title:     item.Title,
			Team1:     item.Team1,
			Team2:     item.Team2,
			StartTime: item.StartTime,
		}
		if owner, ok, err := r.tournaments.GetByID(ctx, item.TournamentID); err == nil && ok {
			announcement.TournamentName = owner.Name
		}
		out = append(out, announcement)
	}

	// List sorts by kickoff; announcements go out in id order instead.
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })

	return out, nil
}
