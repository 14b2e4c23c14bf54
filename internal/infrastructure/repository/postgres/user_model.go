package postgres

import (
	"time"

	"github.com/winbetball/betball/internal/domain/user"
)

type userTableModel struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsAdmin      bool      `db:"is_admin"`
	TotalPoints  int       `db:"total_points"`
	CreatedAt    time.Time `db:"created_at"`
}

type userInsertModel struct {
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsAdmin      bool      `db:"is_admin"`
	TotalPoints  int       `db:"total_points"`
	CreatedAt    time.Time `db:"created_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		IsAdmin:      m.IsAdmin,
		TotalPoints:  m.TotalPoints,
		CreatedAt:    m.CreatedAt,
	}
}
