package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	qb "github.com/spreadpools/pickem-backend/internal/platform/querybuilder"
)

type TiebreakerRepository struct {
	db *sqlx.DB
}

func NewTiebreakerRepository(db *sqlx.DB) *TiebreakerRepository {
	return &TiebreakerRepository{db: db}
}

func (r *TiebreakerRepository) Create(ctx context.Context, t tiebreaker.Tiebreaker) (tiebreaker.Tiebreaker, error) {
	insertModel := tiebreakerInsertModel{
		Question:  t.Question,
		StartTime: t.StartsAt,
		IsActive:  t.Active,
	}
	query, args, err := qb.InsertModel("tiebreakers", insertModel, "RETURNING *")
	if err != nil {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("build insert tiebreaker query: %w", err)
	}

	var row tiebreakerTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("insert tiebreaker: %w", err)
	}
	return row.toDomain(), nil
}

func (r *TiebreakerRepository) GetByID(ctx context.Context, id int64) (tiebreaker.Tiebreaker, bool, error) {
	query, args, err := qb.Select("*").From("tiebreakers").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return tiebreaker.Tiebreaker{}, false, fmt.Errorf("build select tiebreaker query: %w", err)
	}

	var row tiebreakerTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return tiebreaker.Tiebreaker{}, false, nil
		}
		return tiebreaker.Tiebreaker{}, false, fmt.Errorf("select tiebreaker: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TiebreakerRepository) List(ctx context.Context) ([]tiebreaker.Tiebreaker, error) {
	return r.list(ctx)
}

func (r *TiebreakerRepository) ListActive(ctx context.Context) ([]tiebreaker.Tiebreaker, error) {
	return r.list(ctx, qb.Eq("is_active", true))
}

func (r *TiebreakerRepository) ListInRange(ctx context.Context, start, end time.Time) ([]tiebreaker.Tiebreaker, error) {
	conditions := make([]qb.Condition, 0, 2)
	if !start.IsZero() {
		conditions = append(conditions, qb.Expr("start_time >= ?", start))
	}
	if !end.IsZero() {
		conditions = append(conditions, qb.Expr("start_time <= ?", end))
	}
	return r.list(ctx, conditions...)
}

func (r *TiebreakerRepository) list(ctx context.Context, conditions ...qb.Condition) ([]tiebreaker.Tiebreaker, error) {
	builder := qb.Select("*").From("tiebreakers").OrderBy("start_time", "id")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tiebreakers query: %w", err)
	}

	var rows []tiebreakerTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tiebreakers: %w", err)
	}

	out := make([]tiebreaker.Tiebreaker, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TiebreakerRepository) Update(ctx context.Context, t tiebreaker.Tiebreaker) (tiebreaker.Tiebreaker, error) {
	query, args, err := qb.Update("tiebreakers").
		Set("question", t.Question).
		Set("start_time", t.StartsAt).
		Set("answer", ptrToNullString(t.Answer)).
		Set("is_active", t.Active).
		Where(qb.Eq("id", t.ID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("build update tiebreaker query: %w", err)
	}

	var row tiebreakerTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("update tiebreaker: %w", err)
	}
	return row.toDomain(), nil
}

func (r *TiebreakerRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("tiebreakers").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete tiebreaker query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete tiebreaker: %w", err)
	}
	return nil
}

type TiebreakerPickRepository struct {
	db *sqlx.DB
}

func NewTiebreakerPickRepository(db *sqlx.DB) *TiebreakerPickRepository {
	return &TiebreakerPickRepository{db: db}
}

func (r *TiebreakerPickRepository) Upsert(ctx context.Context, p tiebreaker.Pick) (tiebreaker.Pick, error) {
	insertModel := tiebreakerPickInsertModel{
		UserID:       p.UserID,
		TiebreakerID: p.TiebreakerID,
		Answer:       p.Answer,
	}
	query, args, err := qb.InsertModel("tiebreaker_picks", insertModel, `ON CONFLICT (user_id, tiebreaker_id)
DO UPDATE SET
    answer = EXCLUDED.answer,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return tiebreaker.Pick{}, fmt.Errorf("build upsert tiebreaker pick query: %w", err)
	}

	var row tiebreakerPickTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		return tiebreaker.Pick{}, fmt.Errorf("upsert tiebreaker pick: %w", err)
	}
	return row.toDomain(), nil
}

func (r *TiebreakerPickRepository) GetByUserAndTiebreaker(ctx context.Context, userID, tiebreakerID int64) (tiebreaker.Pick, bool, error) {
	query, args, err := qb.Select("*").From("tiebreaker_picks").
		Where(qb.Eq("user_id", userID), qb.Eq("tiebreaker_id", tiebreakerID)).
		ToSQL()
	if err != nil {
		return tiebreaker.Pick{}, false, fmt.Errorf("build select tiebreaker pick query: %w", err)
	}

	var row tiebreakerPickTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return tiebreaker.Pick{}, false, nil
		}
		return tiebreaker.Pick{}, false, fmt.Errorf("select tiebreaker pick: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TiebreakerPickRepository) ListByUser(ctx context.Context, userID int64) ([]tiebreaker.Pick, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *TiebreakerPickRepository) ListByTiebreaker(ctx context.Context, tiebreakerID int64) ([]tiebreaker.Pick, error) {
	return r.list(ctx, qb.Eq("tiebreaker_id", tiebreakerID))
}

func (r *TiebreakerPickRepository) list(ctx context.Context, conditions ...qb.Condition) ([]tiebreaker.Pick, error) {
	query, args, err := qb.Select("*").From("tiebreaker_picks").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tiebreaker picks query: %w", err)
	}

	var rows []tiebreakerPickTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tiebreaker picks: %w", err)
	}

	out := make([]tiebreaker.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TiebreakerPickRepository) SetPoints(ctx context.Context, userID, tiebreakerID int64, points float64) (tiebreaker.Pick, bool, error) {
	query, args, err := qb.Update("tiebreaker_picks").
		Set("points_awarded", points).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("user_id", userID), qb.Eq("tiebreaker_id", tiebreakerID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return tiebreaker.Pick{}, false, fmt.Errorf("build set tiebreaker points query: %w", err)
	}

	var row tiebreakerPickTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return tiebreaker.Pick{}, false, nil
		}
		return tiebreaker.Pick{}, false, fmt.Errorf("set tiebreaker points: %w", err)
	}
	return row.toDomain(), true, nil
}
