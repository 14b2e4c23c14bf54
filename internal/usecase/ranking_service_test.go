package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/domain/user"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
)

type rankingFixture struct {
	users       *memory.UserRepository
	tournaments *memory.TournamentRepository
	games       *memory.GameRepository
	bets        *memory.BetRepository
	prizes      *memory.PrizeRepository
	settlement  *memory.SettlementRepository
	ranking     *RankingService
	settle      *SettlementService
}

func newRankingFixture(t *testing.T) *rankingFixture {
	t.Helper()

	kickoff := time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)

	users := memory.NewUserRepository(
		user.User{ID: 1, Username: "alice", Email: "a@example.com", IsActive: true},
		user.User{ID: 2, Username: "bob", Email: "b@example.com", IsActive: true},
		user.User{ID: 3, Username: "carol", Email: "c@example.com", IsActive: true},
	)
	tournaments := memory.NewTournamentRepository(tournament.Tournament{ID: 1, Name: "World Cup"})
	games := memory.NewGameRepository(
		game.Game{ID: 1, TournamentID: 1, Team1: "France", Team2: "Brazil", StartTime: kickoff},
		game.Game{ID: 2, TournamentID: 1, Team1: "Spain", Team2: "Italy", StartTime: kickoff.Add(24 * time.Hour)},
	)
	bets := memory.NewBetRepository(games)
	prizes := memory.NewPrizeRepository()
	settlementRepo := memory.NewSettlementRepository(users, games, bets, tournaments, prizes)

	settle := NewSettlementService(games, bets, settlementRepo, testCutoffLead, nil)
	settle.now = func() time.Time { return kickoff.Add(72 * time.Hour) }

	ranking := NewRankingService(tournaments, games, bets, prizes, settlementRepo, nil)

	return &rankingFixture{
		users:       users,
		tournaments: tournaments,
		games:       games,
		bets:        bets,
		prizes:      prizes,
		settlement:  settlementRepo,
		ranking:     ranking,
		settle:      settle,
	}
}

func (f *rankingFixture) bet(t *testing.T, gameID, ownerID int64, team1Score, team2Score int) {
	t.Helper()

	owner, _, _ := f.users.GetByID(t.Context(), ownerID)
	if _, err := f.bets.Create(t.Context(), bet.Bet{
		GameID:     gameID,
		OwnerID:    ownerID,
		OwnerName:  owner.Username,
		Team1Score: team1Score,
		Team2Score: team2Score,
	}); err != nil {
		t.Fatalf("create bet: %v", err)
	}
}

func (f *rankingFixture) finishGame(t *testing.T, gameID int64, team1Score, team2Score int) {
	t.Helper()

	if _, err := f.settle.FinishGame(t.Context(), FinishGameInput{
		GameID:     gameID,
		Team1Score: team1Score,
		Team2Score: team2Score,
	}); err != nil {
		t.Fatalf("finish game %d: %v", gameID, err)
	}
}

func TestRankingService_Standings_TieBreaksByHitQuality(t *testing.T) {
	f := newRankingFixture(t)

	// Game 1 ends 2-0, game 2 ends 1-1.
	// alice: exact (5) + miss   (0) = 5 with one exact hit
	// bob:   diff  (3) + miss   (0) = 3
	// carol: miss  (0) + exact  (5) = 5 with one exact hit -> id decides
	f.bet(t, 1, 1, 2, 0)
	f.bet(t, 1, 2, 3, 1)
	f.bet(t, 1, 3, 0, 2)
	f.bet(t, 2, 1, 2, 0)
	f.bet(t, 2, 2, 2, 0)
	f.bet(t, 2, 3, 1, 1)

	f.finishGame(t, 1, 2, 0)
	f.finishGame(t, 2, 1, 1)

	standings, err := f.ranking.Standings(t.Context(), 1)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if len(standings) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(standings))
	}

	// alice and carol both hold 5 points and one exact hit; the lower user
	// id ranks first.
	if standings[0].UserID != 1 || standings[0].Place != 1 {
		t.Fatalf("unexpected first place: %+v", standings[0])
	}
	if standings[1].UserID != 3 || standings[1].Place != 2 {
		t.Fatalf("unexpected second place: %+v", standings[1])
	}
	if standings[2].UserID != 2 || standings[2].Points != 3 {
		t.Fatalf("unexpected third place: %+v", standings[2])
	}
}

func TestRankingService_Standings_TracksHitCategories(t *testing.T) {
	f := newRankingFixture(t)

	f.bet(t, 1, 1, 2, 0) // exact
	f.bet(t, 1, 2, 1, 0) // outcome only
	f.finishGame(t, 1, 2, 0)
	f.finishGame(t, 2, 0, 0)

	standings, err := f.ranking.Standings(t.Context(), 1)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	if standings[0].ExactCount != 1 || standings[0].DiffCount != 0 {
		t.Fatalf("unexpected category counts for leader: %+v", standings[0])
	}
	if standings[1].OutcomeCount != 1 || standings[1].Points != bet.PointsOutcome {
		t.Fatalf("unexpected category counts for runner-up: %+v", standings[1])
	}
}

func TestRankingService_FinishTournament_PersistsFullRanking(t *testing.T) {
	f := newRankingFixture(t)

	f.bet(t, 1, 1, 2, 0)
	f.bet(t, 1, 2, 1, 0)
	f.bet(t, 2, 3, 1, 1)
	f.finishGame(t, 1, 2, 0)
	f.finishGame(t, 2, 1, 1)

	prizes, err := f.ranking.FinishTournament(t.Context(), 1)
	if err != nil {
		t.Fatalf("finish tournament: %v", err)
	}

	if len(prizes) != 3 {
		t.Fatalf("expected a prize row per ranked user, got %d", len(prizes))
	}
	for i, row := range prizes {
		if row.Place != i+1 {
			t.Fatalf("places must be contiguous from 1: %+v", prizes)
		}
		if row.TournamentName != "World Cup" {
			t.Fatalf("prize must carry the tournament name: %+v", row)
		}
	}

	closed, _, _ := f.tournaments.GetByID(t.Context(), 1)
	if !closed.Finished {
		t.Fatalf("tournament must be finished after closing")
	}

	stored, err := f.prizes.ListByTournament(t.Context(), 1)
	if err != nil {
		t.Fatalf("list prizes: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 persisted prizes, got %d", len(stored))
	}
}

func TestRankingService_FinishTournament_RequiresAllGamesFinished(t *testing.T) {
	f := newRankingFixture(t)

	f.finishGame(t, 1, 1, 0)

	_, err := f.ranking.FinishTournament(t.Context(), 1)
	if !errors.Is(err, tournament.ErrUnfinishedGames) {
		t.Fatalf("expected unfinished games guard, got %v", err)
	}

	open, _, _ := f.tournaments.GetByID(t.Context(), 1)
	if open.Finished {
		t.Fatalf("tournament must stay open when the guard fires")
	}
}

func TestRankingService_FinishTournament_ClosesExactlyOnce(t *testing.T) {
	f := newRankingFixture(t)

	f.finishGame(t, 1, 1, 0)
	f.finishGame(t, 2, 2, 2)

	if _, err := f.ranking.FinishTournament(t.Context(), 1); err != nil {
		t.Fatalf("first close: %v", err)
	}

	_, err := f.ranking.FinishTournament(t.Context(), 1)
	if !errors.Is(err, tournament.ErrAlreadyFinished) {
		t.Fatalf("expected already finished, got %v", err)
	}
}

func TestRankingService_FinishTournament_FailureRollsBack(t *testing.T) {
	f := newRankingFixture(t)

	f.bet(t, 1, 1, 1, 0)
	f.finishGame(t, 1, 1, 0)
	f.finishGame(t, 2, 0, 0)

	boom := errors.New("write failed")
	f.settlement.CloseTournamentHook = func() error { return boom }

	if _, err := f.ranking.FinishTournament(t.Context(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	open, _, _ := f.tournaments.GetByID(t.Context(), 1)
	if open.Finished {
		t.Fatalf("tournament must stay open after a failed close")
	}
	stored, _ := f.prizes.ListByTournament(t.Context(), 1)
	if len(stored) != 0 {
		t.Fatalf("no prizes may be written on failure, got %d", len(stored))
	}
}

func TestRankingService_Prizes_RequireFinishedTournament(t *testing.T) {
	f := newRankingFixture(t)

	if _, err := f.ranking.Prizes(t.Context(), 1); err == nil {
		t.Fatalf("expected error reading prizes of an open tournament")
	}
}
