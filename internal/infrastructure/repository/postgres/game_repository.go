package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spreadpools/pickem-backend/internal/domain/game"
	qb "github.com/spreadpools/pickem-backend/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) (game.Game, error) {
	insertModel := gameInsertModel{
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
		Spread:   g.Spread,
		GameDate: g.StartsAt,
	}
	query, args, err := qb.InsertModel("games", insertModel, "RETURNING *")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return row.toDomain(), nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	return r.list(ctx)
}

func (r *GameRepository) ListStarted(ctx context.Context, now time.Time) ([]game.Game, error) {
	return r.list(ctx, qb.Expr("game_date <= ?", now))
}

func (r *GameRepository) ListInRange(ctx context.Context, start, end time.Time) ([]game.Game, error) {
	conditions := make([]qb.Condition, 0, 2)
	if !start.IsZero() {
		conditions = append(conditions, qb.Expr("game_date >= ?", start))
	}
	if !end.IsZero() {
		conditions = append(conditions, qb.Expr("game_date <= ?", end))
	}
	return r.list(ctx, conditions...)
}

func (r *GameRepository) list(ctx context.Context, conditions ...qb.Condition) ([]game.Game, error) {
	builder := qb.Select("*").From("games").OrderBy("game_date", "id")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) Update(ctx context.Context, g game.Game) (game.Game, error) {
	query, args, err := qb.Update("games").
		Set("home_team", g.HomeTeam).
		Set("away_team", g.AwayTeam).
		Set("spread", g.Spread).
		Set("game_date", g.StartsAt).
		Set("winning_team", ptrToNullString(g.WinningTeam)).
		Where(qb.Eq("id", g.ID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return game.Game{}, fmt.Errorf("build update game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}
	return row.toDomain(), nil
}

func (r *GameRepository) SetWinner(ctx context.Context, id int64, winner *string) error {
	query, args, err := qb.Update("games").
		Set("winning_team", ptrToNullString(winner)).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set winner query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set winner: %w", err)
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("games").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
