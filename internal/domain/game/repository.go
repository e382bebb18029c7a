package game

import (
	"context"
	"time"
)

// Repository exposes game persistence operations.
type Repository interface {
	Create(ctx context.Context, g Game) (Game, error)
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	List(ctx context.Context) ([]Game, error)
	ListStarted(ctx context.Context, now time.Time) ([]Game, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]Game, error)
	Update(ctx context.Context, g Game) (Game, error)
	SetWinner(ctx context.Context, id int64, winner *string) error
	Delete(ctx context.Context, id int64) error
}
