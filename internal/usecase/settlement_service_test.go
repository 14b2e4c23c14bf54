package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/tournament"
	"github.com/winbetball/betball/internal/domain/user"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
)

type settlementFixture struct {
	users      *memory.UserRepository
	games      *memory.GameRepository
	bets       *memory.BetRepository
	settlement *memory.SettlementRepository
	service    *SettlementService
	kickoff    time.Time
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	kickoff := time.Date(2026, 8, 22, 18, 0, 0, 0, time.UTC)

	users := memory.NewUserRepository(
		user.User{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true},
		user.User{ID: 2, Username: "bob", Email: "bob@example.com", IsActive: true},
		user.User{ID: 3, Username: "carol", Email: "carol@example.com", IsActive: true},
	)
	tournaments := memory.NewTournamentRepository(tournament.Tournament{ID: 1, Name: "Premier League"})
	games := memory.NewGameRepository(game.Game{
		ID: 1, TournamentID: 1, Title: "Arsenal - Chelsea",
		Team1: "Arsenal", Team2: "Chelsea", StartTime: kickoff,
	})
	bets := memory.NewBetRepository(games)
	prizes := memory.NewPrizeRepository()
	settlementRepo := memory.NewSettlementRepository(users, games, bets, tournaments, prizes)

	service := NewSettlementService(games, bets, settlementRepo, testCutoffLead, nil)
	service.now = func() time.Time { return kickoff.Add(2 * time.Hour) }

	return &settlementFixture{
		users:      users,
		games:      games,
		bets:       bets,
		settlement: settlementRepo,
		service:    service,
		kickoff:    kickoff,
	}
}

func (f *settlementFixture) placeBet(t *testing.T, ownerID int64, team1Score, team2Score int) bet.Bet {
	t.Helper()

	placed, err := f.bets.Create(t.Context(), bet.Bet{
		GameID:     1,
		OwnerID:    ownerID,
		Team1Score: team1Score,
		Team2Score: team2Score,
	})
	if err != nil {
		t.Fatalf("place bet for user %d: %v", ownerID, err)
	}
	return placed
}

func TestSettlementService_FinishGame_GradesAndCredits(t *testing.T) {
	f := newSettlementFixture(t)
	f.placeBet(t, 1, 2, 1) // exact
	f.placeBet(t, 2, 3, 2) // same goal difference
	f.placeBet(t, 3, 1, 1) // miss: draw vs home win

	settled, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 2, Team2Score: 1})
	if err != nil {
		t.Fatalf("finish game: %v", err)
	}

	if len(settled.Bets) != 3 {
		t.Fatalf("expected 3 graded bets, got %d", len(settled.Bets))
	}
	wantPoints := map[int64]int{1: bet.PointsExact, 2: bet.PointsDifference}
	for owner, points := range wantPoints {
		if settled.PointsByOwner[owner] != points {
			t.Fatalf("user %d: expected %d points, got %d", owner, points, settled.PointsByOwner[owner])
		}
	}
	if _, ok := settled.PointsByOwner[3]; ok {
		t.Fatalf("zero-point owner should not appear in the credit map")
	}

	settledGame, _, _ := f.games.GetByID(t.Context(), 1)
	if !settledGame.Finished || settledGame.Team1Score != 2 || settledGame.Team2Score != 1 {
		t.Fatalf("game was not finalized: %+v", settledGame)
	}

	alice, _, _ := f.users.GetByID(t.Context(), 1)
	if alice.TotalPoints != bet.PointsExact {
		t.Fatalf("expected alice total %d, got %d", bet.PointsExact, alice.TotalPoints)
	}

	gameBets, _ := f.bets.ListByGame(t.Context(), 1)
	for _, item := range gameBets {
		if !item.Finished {
			t.Fatalf("bet %d left unsettled", item.ID)
		}
	}
}

func TestSettlementService_FinishGame_SettlesExactlyOnce(t *testing.T) {
	f := newSettlementFixture(t)
	f.placeBet(t, 1, 1, 0)

	if _, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 1, Team2Score: 0}); err != nil {
		t.Fatalf("first finish: %v", err)
	}

	_, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 4, Team2Score: 0})
	if !errors.Is(err, game.ErrAlreadyFinished) {
		t.Fatalf("expected already finished, got %v", err)
	}

	alice, _, _ := f.users.GetByID(t.Context(), 1)
	if alice.TotalPoints != bet.PointsExact {
		t.Fatalf("repeat settlement must not double-credit: total=%d", alice.TotalPoints)
	}
}

func TestSettlementService_FinishGame_StartsAtCutoff(t *testing.T) {
	f := newSettlementFixture(t)
	cutoff := f.kickoff.Add(-testCutoffLead)

	t.Run("before cutoff", func(t *testing.T) {
		f.service.now = func() time.Time { return cutoff.Add(-time.Minute) }
		_, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 1, Team2Score: 0})
		if !errors.Is(err, game.ErrNotStarted) {
			t.Fatalf("expected not started, got %v", err)
		}
	})

	// Stored kickoffs sit a lead window after the real start, so settlement
	// must already be possible between cutoff and the stored StartTime.
	t.Run("inside lead window", func(t *testing.T) {
		f.service.now = func() time.Time { return f.kickoff.Add(-time.Hour) }
		if _, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 1, Team2Score: 0}); err != nil {
			t.Fatalf("settlement inside the lead window must pass: %v", err)
		}
	})
}

func TestSettlementService_FinishGame_FailureLeavesNoPartialState(t *testing.T) {
	f := newSettlementFixture(t)
	f.placeBet(t, 1, 2, 0)

	boom := errors.New("storage down")
	f.settlement.SettleGameHook = func() error { return boom }

	if _, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 2, Team2Score: 0}); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	item, _, _ := f.games.GetByID(t.Context(), 1)
	if item.Finished {
		t.Fatalf("game must stay open after a failed settlement")
	}
	alice, _, _ := f.users.GetByID(t.Context(), 1)
	if alice.TotalPoints != 0 {
		t.Fatalf("no points may be credited on failure, got %d", alice.TotalPoints)
	}
	gameBets, _ := f.bets.ListByGame(t.Context(), 1)
	if gameBets[0].Finished || gameBets[0].Points != 0 {
		t.Fatalf("bets must stay unsettled on failure: %+v", gameBets[0])
	}

	// Retrying after the fault clears succeeds.
	f.settlement.SettleGameHook = nil
	if _, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: 2, Team2Score: 0}); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	alice, _, _ = f.users.GetByID(t.Context(), 1)
	if alice.TotalPoints != bet.PointsExact {
		t.Fatalf("retry should credit once, got %d", alice.TotalPoints)
	}
}

func TestSettlementService_FinishGame_NegativeScoreRejected(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.service.FinishGame(t.Context(), FinishGameInput{GameID: 1, Team1Score: -1, Team2Score: 0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSettlementService_FinishGame_UnknownGame(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.service.FinishGame(context.Background(), FinishGameInput{GameID: 99, Team1Score: 1, Team2Score: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
