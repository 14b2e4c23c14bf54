package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/winbetball/betball/internal/domain/bet"
	"github.com/winbetball/betball/internal/domain/game"
	"github.com/winbetball/betball/internal/domain/user"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
)

const testCutoffLead = 3 * time.Hour

type betFixture struct {
	users   *memory.UserRepository
	games   *memory.GameRepository
	bets    *memory.BetRepository
	service *BetService
	kickoff time.Time
}

func newBetFixture(t *testing.T) *betFixture {
	t.Helper()

	kickoff := time.Date(2026, 9, 5, 20, 0, 0, 0, time.UTC)

	users := memory.NewUserRepository(
		user.User{ID: 1, Username: "alice", Email: "a@example.com", IsActive: true},
		user.User{ID: 2, Username: "bob", Email: "b@example.com", IsActive: true},
	)
	games := memory.NewGameRepository(game.Game{
		ID: 1, TournamentID: 1, Team1: "Ajax", Team2: "PSV", StartTime: kickoff,
	})
	bets := memory.NewBetRepository(games)

	service := NewBetService(bets, games, users, testCutoffLead)
	service.now = func() time.Time { return kickoff.Add(-24 * time.Hour) }

	return &betFixture{users: users, games: games, bets: bets, service: service, kickoff: kickoff}
}

func TestBetService_Place(t *testing.T) {
	f := newBetFixture(t)

	placed, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 2, Team2Score: 1})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if placed.OwnerName != "alice" {
		t.Fatalf("owner name must be resolved, got %q", placed.OwnerName)
	}
	if placed.Finished || placed.Points != 0 {
		t.Fatalf("new bet must be unsettled: %+v", placed)
	}
}

func TestBetService_Place_OneBetPerGame(t *testing.T) {
	f := newBetFixture(t)

	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 2, Team2Score: 1}); err != nil {
		t.Fatalf("first bet: %v", err)
	}

	_, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 0, Team2Score: 0})
	if !errors.Is(err, bet.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	// A second user on the same game is fine.
	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 2, Team1Score: 1, Team2Score: 1}); err != nil {
		t.Fatalf("second user's bet: %v", err)
	}
}

func TestBetService_Place_ConcurrentDuplicates(t *testing.T) {
	f := newBetFixture(t)

	const attempts = 16
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func(score int) {
			_, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: score, Team2Score: 0})
			errs <- err
		}(i % 5)
	}

	var placed, duplicates int
	for i := 0; i < attempts; i++ {
		switch err := <-errs; {
		case err == nil:
			placed++
		case errors.Is(err, bet.ErrDuplicate):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if placed != 1 || duplicates != attempts-1 {
		t.Fatalf("exactly one racing bet may win: placed=%d duplicates=%d", placed, duplicates)
	}
}

func TestBetService_Place_CutoffBoundary(t *testing.T) {
	f := newBetFixture(t)
	cutoff := f.kickoff.Add(-testCutoffLead)

	t.Run("just before cutoff", func(t *testing.T) {
		f.service.now = func() time.Time { return cutoff.Add(-time.Second) }
		if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 1, Team2Score: 0}); err != nil {
			t.Fatalf("bet before cutoff must pass: %v", err)
		}
	})

	t.Run("exactly at cutoff", func(t *testing.T) {
		f.service.now = func() time.Time { return cutoff }
		_, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 2, Team1Score: 1, Team2Score: 0})
		if !errors.Is(err, bet.ErrBettingClosed) {
			t.Fatalf("the cutoff instant itself must reject, got %v", err)
		}
	})

	t.Run("after cutoff", func(t *testing.T) {
		f.service.now = func() time.Time { return cutoff.Add(time.Minute) }
		_, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 2, Team1Score: 1, Team2Score: 0})
		if !errors.Is(err, bet.ErrBettingClosed) {
			t.Fatalf("expected betting closed, got %v", err)
		}
	})
}

func TestBetService_Place_Validation(t *testing.T) {
	f := newBetFixture(t)

	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: -1, Team2Score: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative score must be rejected, got %v", err)
	}
	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 42, OwnerID: 1, Team1Score: 1, Team2Score: 0}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown game must be rejected, got %v", err)
	}
	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 42, Team1Score: 1, Team2Score: 0}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown owner must be rejected, got %v", err)
	}
}

func TestBetService_UpdatePrediction(t *testing.T) {
	f := newBetFixture(t)

	placed, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 2, Team2Score: 1})
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	updated, err := f.service.UpdatePrediction(t.Context(), placed.ID, 1, bet.Prediction{Team1Score: 0, Team2Score: 0})
	if err != nil {
		t.Fatalf("update bet: %v", err)
	}
	if updated.Team1Score != 0 || updated.Team2Score != 0 {
		t.Fatalf("prediction not updated: %+v", updated)
	}

	t.Run("only the owner can edit", func(t *testing.T) {
		_, err := f.service.UpdatePrediction(t.Context(), placed.ID, 2, bet.Prediction{Team1Score: 3, Team2Score: 0})
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected permission denied, got %v", err)
		}
	})

	t.Run("window close locks edits too", func(t *testing.T) {
		f.service.now = func() time.Time { return f.kickoff }
		_, err := f.service.UpdatePrediction(t.Context(), placed.ID, 1, bet.Prediction{Team1Score: 3, Team2Score: 0})
		if !errors.Is(err, bet.ErrBettingClosed) {
			t.Fatalf("expected betting closed, got %v", err)
		}
	})
}

func TestBetService_ListForGame_Visibility(t *testing.T) {
	f := newBetFixture(t)

	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 2, Team2Score: 1}); err != nil {
		t.Fatalf("alice's bet: %v", err)
	}
	if _, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 2, Team1Score: 1, Team2Score: 1, Hidden: true}); err != nil {
		t.Fatalf("bob's hidden bet: %v", err)
	}

	alice := user.Principal{UserID: 1, Username: "alice"}
	admin := user.Principal{UserID: 99, Username: "root", IsAdmin: true}

	t.Run("before cutoff only own bets show", func(t *testing.T) {
		visible, err := f.service.ListForGame(t.Context(), 1, alice)
		if err != nil {
			t.Fatalf("list bets: %v", err)
		}
		if len(visible) != 1 || visible[0].OwnerID != 1 {
			t.Fatalf("expected only alice's bet, got %+v", visible)
		}
	})

	t.Run("admin sees everything", func(t *testing.T) {
		visible, err := f.service.ListForGame(t.Context(), 1, admin)
		if err != nil {
			t.Fatalf("list bets: %v", err)
		}
		if len(visible) != 2 {
			t.Fatalf("expected both bets for admin, got %d", len(visible))
		}
	})

	t.Run("after cutoff plain bets open up, hidden stay masked", func(t *testing.T) {
		f.service.now = func() time.Time { return f.kickoff }
		visible, err := f.service.ListForGame(t.Context(), 1, user.Principal{UserID: 3})
		if err != nil {
			t.Fatalf("list bets: %v", err)
		}
		if len(visible) != 1 || visible[0].OwnerID != 1 {
			t.Fatalf("hidden bet must stay masked until settlement, got %+v", visible)
		}
	})
}

func TestBetService_GetByID_Visibility(t *testing.T) {
	f := newBetFixture(t)

	plain, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 1, Team1Score: 2, Team2Score: 1})
	if err != nil {
		t.Fatalf("alice's bet: %v", err)
	}
	hidden, err := f.service.Place(t.Context(), PlaceBetInput{GameID: 1, OwnerID: 2, Team1Score: 1, Team2Score: 1, Hidden: true})
	if err != nil {
		t.Fatalf("bob's hidden bet: %v", err)
	}

	alice := user.Principal{UserID: 1, Username: "alice"}
	bob := user.Principal{UserID: 2, Username: "bob"}
	admin := user.Principal{UserID: 99, Username: "root", IsAdmin: true}

	t.Run("owner reads own bet before cutoff", func(t *testing.T) {
		got, err := f.service.GetByID(t.Context(), plain.ID, alice)
		if err != nil {
			t.Fatalf("get bet: %v", err)
		}
		if got.ID != plain.ID {
			t.Fatalf("unexpected bet: %+v", got)
		}
	})

	t.Run("foreign bet resolves as not found before cutoff", func(t *testing.T) {
		if _, err := f.service.GetByID(t.Context(), plain.ID, bob); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("admin always reads", func(t *testing.T) {
		if _, err := f.service.GetByID(t.Context(), hidden.ID, admin); err != nil {
			t.Fatalf("admin get bet: %v", err)
		}
	})

	t.Run("after cutoff plain opens, hidden stays masked", func(t *testing.T) {
		f.service.now = func() time.Time { return f.kickoff }
		if _, err := f.service.GetByID(t.Context(), plain.ID, bob); err != nil {
			t.Fatalf("plain bet must open after cutoff: %v", err)
		}
		if _, err := f.service.GetByID(t.Context(), hidden.ID, alice); !errors.Is(err, ErrNotFound) {
			t.Fatalf("hidden bet must stay masked until settlement, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := f.service.GetByID(t.Context(), 404, admin); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
