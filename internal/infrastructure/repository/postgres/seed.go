package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo pool into an empty database. A database with
// any registered member is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return fmt.Errorf("count users for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (username, full_name, email, league_id, password_hash, admin, make_picks)
VALUES (:username, :full_name, :email, :league_id, :password_hash, :admin, :make_picks)
ON CONFLICT (username) DO NOTHING`, map[string]any{
			"username":      u.Username,
			"full_name":     u.FullName,
			"email":         u.Email,
			"league_id":     u.LeagueID,
			"password_hash": u.PasswordHash,
			"admin":         u.Admin,
			"make_picks":    u.MakePicks,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.Username, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO leaderboard (user_id)
SELECT id FROM users
ON CONFLICT (user_id) DO NOTHING`); err != nil {
		return fmt.Errorf("seed leaderboard entries: %w", err)
	}

	for _, g := range memory.SeedGames() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO games (home_team, away_team, spread, game_date)
VALUES (:home_team, :away_team, :spread, :game_date)`, map[string]any{
			"home_team": g.HomeTeam,
			"away_team": g.AwayTeam,
			"spread":    g.Spread,
			"game_date": g.StartsAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("bind seed game %s at %s query: %w", g.AwayTeam, g.HomeTeam, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed game %s at %s: %w", g.AwayTeam, g.HomeTeam, err)
		}
	}

	for _, tb := range memory.SeedTiebreakers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO tiebreakers (question, start_time, is_active)
VALUES (:question, :start_time, :is_active)`, map[string]any{
			"question":   tb.Question,
			"start_time": tb.StartsAt.UTC(),
			"is_active":  tb.Active,
		})
		if err != nil {
			return fmt.Errorf("bind seed tiebreaker query: %w", err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed tiebreaker %q: %w", tb.Question, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
