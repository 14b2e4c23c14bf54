package prize

// Prize is one row of a closed tournament's final ranking. Written once by
// tournament close, never mutated.
type Prize struct {
	ID             int64
	TournamentID   int64
	TournamentName string
	UserID         int64
	Place          int
	Points         int
}
