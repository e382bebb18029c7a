package pick

import (
	"context"
	"time"
)

// Result is a pick joined with the grading state of its game, used for
// standings computation.
type Result struct {
	UserID        int64
	GameID        int64
	Locked        bool
	PointsAwarded int
	Graded        bool
	GameStartsAt  time.Time
}

// Repository exposes pick persistence operations.
type Repository interface {
	Upsert(ctx context.Context, p Pick) (Pick, error)
	GetByUserAndGame(ctx context.Context, userID, gameID int64) (Pick, bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Pick, error)
	ListByGame(ctx context.Context, gameID int64) ([]Pick, error)
	ListLockedByUser(ctx context.Context, userID int64) ([]Pick, error)
	SetLocked(ctx context.Context, id int64, locked bool) error
	SetPoints(ctx context.Context, id int64, points int) error
	// ListResults returns picks joined with game start and grading state.
	// Zero start/end bounds mean unbounded.
	ListResults(ctx context.Context, start, end time.Time) ([]Result, error)
}
