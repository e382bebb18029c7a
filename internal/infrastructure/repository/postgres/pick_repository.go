package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	qb "github.com/spreadpools/pickem-backend/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) Upsert(ctx context.Context, p pick.Pick) (pick.Pick, error) {
	insertModel := pickInsertModel{
		UserID:     p.UserID,
		GameID:     p.GameID,
		PickedTeam: p.PickedTeam,
		Locked:     p.Locked,
	}
	query, args, err := qb.InsertModel("picks", insertModel, `ON CONFLICT (user_id, game_id)
DO UPDATE SET
    picked_team = EXCLUDED.picked_team,
    lock = EXCLUDED.lock,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("build upsert pick query: %w", err)
	}

	var row pickTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		return pick.Pick{}, fmt.Errorf("upsert pick: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PickRepository) GetByUserAndGame(ctx context.Context, userID, gameID int64) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("user_id", userID), qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build select pick query: %w", err)
	}

	var row pickTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("select pick: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PickRepository) ListByUser(ctx context.Context, userID int64) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *PickRepository) ListByGame(ctx context.Context, gameID int64) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("game_id", gameID))
}

func (r *PickRepository) ListLockedByUser(ctx context.Context, userID int64) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID), qb.Eq("lock", true))
}

func (r *PickRepository) list(ctx context.Context, conditions ...qb.Condition) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) SetLocked(ctx context.Context, id int64, locked bool) error {
	query, args, err := qb.Update("picks").
		Set("lock", locked).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set lock query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set lock: %w", err)
	}
	return nil
}

func (r *PickRepository) SetPoints(ctx context.Context, id int64, points int) error {
	query, args, err := qb.Update("picks").
		Set("points_awarded", points).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set points query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}

func (r *PickRepository) ListResults(ctx context.Context, start, end time.Time) ([]pick.Result, error) {
	conditions := make([]qb.Condition, 0, 2)
	if !start.IsZero() {
		conditions = append(conditions, qb.Expr("g.game_date >= ?", start))
	}
	if !end.IsZero() {
		conditions = append(conditions, qb.Expr("g.game_date <= ?", end))
	}

	builder := qb.Select(
		"p.user_id",
		"p.game_id",
		"p.lock",
		"p.points_awarded",
		"(g.winning_team IS NOT NULL AND g.winning_team <> '') AS graded",
		"g.game_date",
	).From("picks p JOIN games g ON g.id = p.game_id").
		OrderBy("g.game_date", "p.id")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pick results query: %w", err)
	}

	var rows []pickResultModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pick results: %w", err)
	}

	out := make([]pick.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.Result{
			UserID:        row.UserID,
			GameID:        row.GameID,
			Locked:        row.Locked,
			PointsAwarded: row.PointsAwarded,
			Graded:        row.Graded,
			GameStartsAt:  row.GameStartsAt,
		})
	}
	return out, nil
}
