package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/winbetball/betball/internal/domain/user"
)

type UserService struct {
	userRepo user.Repository
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (user.User, error) {
	if id <= 0 {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%d", ErrNotFound, id)
	}

	return item, nil
}

// List returns every user ordered by running total, highest first, with the
// lower id winning ties.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	items, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].TotalPoints != items[j].TotalPoints {
			return items[i].TotalPoints > items[j].TotalPoints
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get user: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: user=%d", ErrNotFound, id)
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}
