package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	items  map[int64]user.User
	nextID int64
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[int64]user.User, len(users))
	var maxID int64
	for _, u := range users {
		items[u.ID] = u
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return &UserRepository{items: items, nextID: maxID + 1}
}

func (r *UserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Username == u.Username || existing.Email == u.Email {
			return user.User{}, user.ErrDuplicate
		}
	}

	u.ID = r.nextID
	r.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.items[u.ID] = u
	return u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	return u, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == username {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByUsernameAndEmail(_ context.Context, username, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == username && u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) ListPickers(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		if u.MakePicks {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.items[id]; ok {
		u.PasswordHash = passwordHash
		r.items[id] = u
	}
	return nil
}

func (r *UserRepository) SetAdmin(_ context.Context, id int64, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.items[id]; ok {
		u.Admin = admin
		r.items[id] = u
	}
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}
