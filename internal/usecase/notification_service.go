package usecase

import (
	"context"
	"fmt"

	"github.com/winbetball/betball/internal/domain/notification"
	"github.com/winbetball/betball/internal/platform/logging"
)

// Messenger delivers game announcements over one channel (Telegram, email).
type Messenger interface {
	Name() string
	SendAnnouncements(ctx context.Context, items []notification.Announcement) error
}

type NotifyResult struct {
	Announced int
	Channels  int
}

// NotificationService announces newly created games. A watermark of the last
// announced game id keeps repeated runs from re-sending; the watermark only
// advances after at least one channel accepted the batch.
type NotificationService struct {
	repo       notification.Repository
	messengers []Messenger
	logger     *logging.Logger
}

func NewNotificationService(repo notification.Repository, messengers []Messenger, logger *logging.Logger) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &NotificationService{
		repo:       repo,
		messengers: messengers,
		logger:     logger,
	}
}

func (s *NotificationService) NotifyNewGames(ctx context.Context) (NotifyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "NotificationService.NotifyNewGames")
	defer span.End()

	watermark, err := s.repo.LastNotifiedGameID(ctx)
	if err != nil {
		return NotifyResult{}, fmt.Errorf("read notification watermark: %w", err)
	}

	items, err := s.repo.ListUnannounced(ctx, watermark)
	if err != nil {
		return NotifyResult{}, fmt.Errorf("list unannounced games: %w", err)
	}
	if len(items) == 0 {
		return NotifyResult{}, nil
	}

	delivered := 0
	for _, messenger := range s.messengers {
		if err := messenger.SendAnnouncements(ctx, items); err != nil {
			s.logger.WarnContext(ctx, "announcement delivery failed",
				"channel", messenger.Name(),
				"games", len(items),
				"error", err,
			)
			continue
		}
		delivered++
	}

	if len(s.messengers) > 0 && delivered == 0 {
		return NotifyResult{}, fmt.Errorf("%w: no channel accepted the announcements", ErrDependencyUnavailable)
	}

	maxID := watermark
	for _, item := range items {
		if item.GameID > maxID {
			maxID = item.GameID
		}
	}
	if err := s.repo.SetLastNotifiedGameID(ctx, maxID); err != nil {
		return NotifyResult{}, fmt.Errorf("advance notification watermark: %w", err)
	}

	s.logger.InfoContext(ctx, "new games announced",
		"games", len(items),
		"channels", delivered,
	)

	return NotifyResult{Announced: len(items), Channels: delivered}, nil
}
