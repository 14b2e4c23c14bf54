package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/winbetball/betball/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	seq   int64
	users map[int64]user.User
}

func NewUserRepository(seed ...user.User) *UserRepository {
	r := &UserRepository{users: make(map[int64]user.User)}
	for _, item := range seed {
		r.seq++
		if item.ID == 0 {
			item.ID = r.seq
		} else if item.ID > r.seq {
			r.seq = item.ID
		}
		r.users[item.ID] = item
	}
	return r
}

func (r *UserRepository) Create(_ context.Context, item user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, item.Username) {
			return user.User{}, user.ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, item.Email) {
			return user.User{}, user.ErrEmailTaken
		}
	}

	r.seq++
	item.ID = r.seq
	r.users[item.ID] = item
	return item, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.users[id]
	return item, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.users {
		if strings.EqualFold(item.Username, username) {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.users {
		if strings.EqualFold(item.Email, email) {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.users))
	for _, item := range r.users {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.users[id]
	if !ok {
		return nil
	}
	item.IsActive = active
	r.users[id] = item
	return nil
}

// addPoints is used by the settlement repository under its own guard.
func (r *UserRepository) addPoints(id int64, points int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.users[id]
	if !ok {
		return
	}
	item.TotalPoints += points
	r.users[id] = item
}
