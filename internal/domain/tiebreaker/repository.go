package tiebreaker

import (
	"context"
	"time"
)

// Repository exposes tiebreaker persistence operations.
type Repository interface {
	Create(ctx context.Context, t Tiebreaker) (Tiebreaker, error)
	GetByID(ctx context.Context, id int64) (Tiebreaker, bool, error)
	List(ctx context.Context) ([]Tiebreaker, error)
	ListActive(ctx context.Context) ([]Tiebreaker, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]Tiebreaker, error)
	Update(ctx context.Context, t Tiebreaker) (Tiebreaker, error)
	Delete(ctx context.Context, id int64) error
}

// PickRepository exposes tiebreaker answer persistence operations.
type PickRepository interface {
	Upsert(ctx context.Context, p Pick) (Pick, error)
	GetByUserAndTiebreaker(ctx context.Context, userID, tiebreakerID int64) (Pick, bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Pick, error)
	ListByTiebreaker(ctx context.Context, tiebreakerID int64) ([]Pick, error)
	SetPoints(ctx context.Context, userID, tiebreakerID int64, points float64) (Pick, bool, error)
}
