package bet

// Point values awarded per prediction accuracy class, best match first.
const (
	PointsExact      = 5
	PointsDifference = 3
	PointsOutcome    = 1
	PointsMiss       = 0
)

// Score grades a prediction against the final result. The rules are checked
// in strict precedence order: exact scoreline, then correct goal difference
// (covers draws predicted with a different scoreline), then correct winner.
// Total over all integer pairs; input validation belongs to the callers.
func Score(predicted Prediction, actualTeam1, actualTeam2 int) int {
	switch {
	case predicted.Team1Score == actualTeam1 && predicted.Team2Score == actualTeam2:
		return PointsExact
	case predicted.Team1Score-predicted.Team2Score == actualTeam1-actualTeam2:
		return PointsDifference
	case predicted.Team1Score > predicted.Team2Score && actualTeam1 > actualTeam2:
		return PointsOutcome
	case predicted.Team1Score < predicted.Team2Score && actualTeam1 < actualTeam2:
		return PointsOutcome
	default:
		return PointsMiss
	}
}
