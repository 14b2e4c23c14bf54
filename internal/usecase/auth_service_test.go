package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/winbetball/betball/internal/domain/user"
	"github.com/winbetball/betball/internal/infrastructure/repository/memory"
)

func newAuthService() (*AuthService, *memory.UserRepository) {
	users := memory.NewUserRepository()
	service := NewAuthService(users, "test-secret", time.Hour, 4)
	return service, users
}

func TestAuthService_RegisterLoginVerify(t *testing.T) {
	service, users := newAuthService()

	created, err := service.Register(t.Context(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("email must be normalized, got %q", created.Email)
	}
	if created.PasswordHash == "correct horse" || created.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if created.IsActive {
		t.Fatalf("new users must await activation")
	}

	if err := users.SetActive(t.Context(), created.ID, true); err != nil {
		t.Fatalf("activate: %v", err)
	}

	token, loggedIn, err := service.Login(t.Context(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != created.ID {
		t.Fatalf("login returned wrong user: %+v", loggedIn)
	}

	principal, err := service.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if principal.UserID != created.ID || principal.Username != "alice" || principal.IsAdmin {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	service, _ := newAuthService()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Email: "a@b.c", Password: "long enough pw"}},
		{"bad email", RegisterInput{Username: "alice", Email: "nope", Password: "long enough pw"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@b.c", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Register(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_UniqueIdentity(t *testing.T) {
	service, _ := newAuthService()

	if _, err := service.Register(t.Context(), RegisterInput{Username: "alice", Email: "a@example.com", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.Register(t.Context(), RegisterInput{Username: "Alice", Email: "other@example.com", Password: "password1"}); !errors.Is(err, user.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	if _, err := service.Register(t.Context(), RegisterInput{Username: "bob", Email: "A@Example.com", Password: "password1"}); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	service, users := newAuthService()

	created, err := service.Register(t.Context(), RegisterInput{Username: "alice", Email: "a@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Freshly registered and still inactive: correct credentials are not enough.
	if _, _, err := service.Login(t.Context(), "alice", "password1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unactivated user: expected unauthorized, got %v", err)
	}

	if err := users.SetActive(t.Context(), created.ID, true); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, _, err := service.Login(t.Context(), "alice", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong password: expected unauthorized, got %v", err)
	}
	if _, _, err := service.Login(t.Context(), "nobody", "password1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown user: expected unauthorized, got %v", err)
	}

	if err := users.SetActive(t.Context(), created.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, _, err := service.Login(t.Context(), "alice", "password1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deactivated user: expected unauthorized, got %v", err)
	}
}

func TestAuthService_VerifyToken_Expiry(t *testing.T) {
	service, users := newAuthService()

	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issuedAt }

	created, err := service.Register(t.Context(), RegisterInput{Username: "alice", Email: "a@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := users.SetActive(t.Context(), created.ID, true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	token, _, err := service.Login(t.Context(), "alice", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	service.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := service.VerifyToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired token: expected unauthorized, got %v", err)
	}

	if _, err := service.VerifyToken("not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token: expected unauthorized, got %v", err)
	}
}
