package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	qb "github.com/spreadpools/pickem-backend/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	insertModel := userInsertModel{
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		LeagueID:     u.LeagueID,
		PasswordHash: u.PasswordHash,
		Admin:        u.Admin,
		MakePicks:    u.MakePicks,
	}
	query, args, err := qb.InsertModel("users", insertModel, "RETURNING *")
	if err != nil {
		return user.User{}, fmt.Errorf("build insert user query: %w", err)
	}

	var row userTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, fmt.Errorf("insert user: %w", user.ErrDuplicate)
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("username", username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("email", email))
}

func (r *UserRepository) GetByUsernameAndEmail(ctx context.Context, username, email string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("username", username), qb.Eq("email", email))
}

func (r *UserRepository) getOne(ctx context.Context, conditions ...qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(conditions...).Limit(1).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user query: %w", err)
	}

	var row userTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) ListPickers(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("make_picks", true)).
		OrderBy("username").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pickers query: %w", err)
	}

	var rows []userTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pickers: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	query, args, err := qb.Update("users").
		Set("password_hash", passwordHash).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update password query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	query, args, err := qb.Update("users").
		Set("admin", admin).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set admin query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("users").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete user query: %w", err)
	}
	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
