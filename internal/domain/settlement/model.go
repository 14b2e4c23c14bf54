package settlement

import (
	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/prize"
)

// SettledGame is the full outcome of settling one game: the final score, the
// graded bets and the per-owner point deltas. The repository applies it as
// one transaction.
type SettledGame struct {
	GameID        int64
	Team1Score    int
	Team2Score    int
	Bets          []bet.Bet
	PointsByOwner map[int64]int
}

// ClosedTournament carries the final ranking written when a tournament is
// closed. Prizes cover every ranked participant; presentation layers pick
// their own top-N cut.
type ClosedTournament struct {
	TournamentID int64
	Prizes       []prize.Prize
}
