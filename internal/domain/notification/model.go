package notification

import "time"

// Announcement is one game worth telling users about, enriched with its
// tournament name for message rendering.
type Announcement struct {
	GameID         int64
	Title          string
	Team1          string
	Team2          string
	StartTime      time.Time
	TournamentName string
}
