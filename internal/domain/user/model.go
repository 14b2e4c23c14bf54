package user

import (
	"errors"
	"time"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// User is a registered bettor. TotalPoints is a running aggregate that is
// mutated only by game settlement, never recomputed in place.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	TotalPoints  int
	CreatedAt    time.Time
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
}
