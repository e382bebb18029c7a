package leaderboard

import "context"

// Repository maintains the derived points cache.
type Repository interface {
	Ensure(ctx context.Context, userID int64) error
	Get(ctx context.Context, userID int64) (Entry, bool, error)
	// LockUser takes a row-level lock on the user's entry for the duration
	// of the surrounding transaction, serializing concurrent pick
	// submissions for that user.
	LockUser(ctx context.Context, userID int64) error
	// ResyncUsers rewrites total_points for the given users from the pick
	// tables. Missing entries are created.
	ResyncUsers(ctx context.Context, userIDs []int64) error
	ResyncAll(ctx context.Context) error
	Delete(ctx context.Context, userID int64) error
}
