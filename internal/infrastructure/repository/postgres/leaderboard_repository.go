package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/spreadpools/pickem-backend/internal/domain/leaderboard"
	qb "github.com/spreadpools/pickem-backend/internal/platform/querybuilder"
)

// resyncTotalsExpr rewrites a user's cached total from the pick tables, so
// repeated runs always converge on the same value.
const resyncTotalsExpr = `(
    SELECT COALESCE(SUM(points_awarded), 0)
    FROM picks
    WHERE picks.user_id = leaderboard.user_id
) + (
    SELECT COALESCE(SUM(points_awarded), 0)::int
    FROM tiebreaker_picks
    WHERE tiebreaker_picks.user_id = leaderboard.user_id
)`

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) Ensure(ctx context.Context, userID int64) error {
	query, args, err := qb.InsertInto("leaderboard").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build ensure leaderboard entry query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure leaderboard entry: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) Get(ctx context.Context, userID int64) (leaderboard.Entry, bool, error) {
	query, args, err := qb.Select("user_id", "total_points", "last_updated").
		From("leaderboard").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return leaderboard.Entry{}, false, fmt.Errorf("build select leaderboard entry query: %w", err)
	}

	var row struct {
		UserID      int64     `db:"user_id"`
		TotalPoints int       `db:"total_points"`
		LastUpdated time.Time `db:"last_updated"`
	}
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return leaderboard.Entry{}, false, nil
		}
		return leaderboard.Entry{}, false, fmt.Errorf("select leaderboard entry: %w", err)
	}
	return leaderboard.Entry{UserID: row.UserID, TotalPoints: row.TotalPoints, LastUpdated: row.LastUpdated}, true, nil
}

// LockUser serializes pick submissions for one user. It only has teeth when
// a transaction is open in the context; the row is held until commit.
func (r *LeaderboardRepository) LockUser(ctx context.Context, userID int64) error {
	if err := r.Ensure(ctx, userID); err != nil {
		return err
	}
	var locked int64
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &locked,
		"SELECT user_id FROM leaderboard WHERE user_id = $1 FOR UPDATE", userID)
	if err != nil {
		return fmt.Errorf("lock leaderboard entry: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ResyncUsers(ctx context.Context, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	for _, userID := range userIDs {
		if err := r.Ensure(ctx, userID); err != nil {
			return err
		}
	}

	query, args, err := qb.Update("leaderboard").
		SetExpr("total_points", resyncTotalsExpr).
		SetExpr("last_updated", "NOW()").
		Where(qb.Expr("user_id = ANY(?)", pq.Array(userIDs))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build resync leaderboard users query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("resync leaderboard users: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) ResyncAll(ctx context.Context) error {
	insert := `INSERT INTO leaderboard (user_id)
SELECT id FROM users
ON CONFLICT (user_id) DO NOTHING`
	if _, err := ext(ctx, r.db).ExecContext(ctx, insert); err != nil {
		return fmt.Errorf("backfill leaderboard entries: %w", err)
	}

	query, args, err := qb.Update("leaderboard").
		SetExpr("total_points", resyncTotalsExpr).
		SetExpr("last_updated", "NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build resync leaderboard query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("resync leaderboard: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) Delete(ctx context.Context, userID int64) error {
	query, args, err := qb.DeleteFrom("leaderboard").Where(qb.Eq("user_id", userID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete leaderboard entry query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete leaderboard entry: %w", err)
	}
	return nil
}
