package notification

import "context"

// Repository tracks the notification watermark: the highest game id that has
// already been announced.
type Repository interface {
	LastNotifiedGameID(ctx context.Context) (int64, error)
	SetLastNotifiedGameID(ctx context.Context, gameID int64) error
	// ListUnannounced returns games created after the watermark, joined with
	// their tournament names, ordered by game id.
	ListUnannounced(ctx context.Context, afterGameID int64) ([]Announcement, error)
}
