package tournament

import (
	"errors"
	"time"
)

var (
	ErrNameTaken       = errors.New("tournament name already exists")
	ErrAlreadyFinished = errors.New("tournament already finished")
	ErrUnfinishedGames = errors.New("tournament has unfinished games")
)

// Tournament groups games and, once every game is finished, can be closed
// exactly once to produce a final ranking with prizes.
type Tournament struct {
	ID        int64
	Name      string
	Logo      string
	DataID    int64 // external competition id, 0 when unlinked
	SeasonID  int64
	Finished  bool
	CreatedAt time.Time
}

// IsOpen reports whether new games may still be created under the tournament.
func (t Tournament) IsOpen() bool {
	return !t.Finished
}
