package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/winbetball/betball/internal/domain/user"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService struct {
	userRepo   user.Repository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(userRepo user.Repository, secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo:   userRepo,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Register")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if len(input.Username) < 3 || len(input.Username) > 32 {
		return user.User{}, fmt.Errorf("%w: username must be 3-32 characters", ErrInvalidInput)
	}
	if !strings.Contains(input.Email, "@") {
		return user.User{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return user.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	if _, exists, err := s.userRepo.GetByUsername(ctx, input.Username); err != nil {
		return user.User{}, fmt.Errorf("check username: %w", err)
	} else if exists {
		return user.User{}, user.ErrUsernameTaken
	}
	if _, exists, err := s.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return user.User{}, fmt.Errorf("check email: %w", err)
	} else if exists {
		return user.User{}, user.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	// Self-registered accounts stay inactive until an admin activates them.
	created, err := s.userRepo.Create(ctx, user.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     false,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", user.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists || !item.IsActive {
		return "", user.User{}, fmt.Errorf("%w: unknown or inactive user", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(item.PasswordHash), []byte(password)); err != nil {
		return "", user.User{}, fmt.Errorf("%w: wrong credentials", ErrUnauthorized)
	}

	token, err := s.issueToken(item)
	if err != nil {
		return "", user.User{}, fmt.Errorf("issue token: %w", err)
	}

	return token, item, nil
}

// VerifyToken validates a bearer token and returns the principal baked into
// its claims.
func (s *AuthService) VerifyToken(tokenString string) (user.Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return user.Principal{}, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	return user.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
	}, nil
}

type tokenClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(item user.User) (string, error) {
	now := s.now().UTC()
	claims := tokenClaims{
		UserID:   item.ID,
		Username: item.Username,
		IsAdmin:  item.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", item.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
