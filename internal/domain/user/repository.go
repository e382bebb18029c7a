package user

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Create when the username or email is already
// registered.
var ErrDuplicate = errors.New("username or email already registered")

// Repository exposes user persistence operations.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByUsernameAndEmail(ctx context.Context, username, email string) (User, bool, error)
	ListPickers(ctx context.Context) ([]User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
	Delete(ctx context.Context, id int64) error
}
