package postgres

import (
	"database/sql"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
)

type gameTableModel struct {
	ID          int64          `db:"id"`
	HomeTeam    string         `db:"home_team"`
	AwayTeam    string         `db:"away_team"`
	Spread      float64        `db:"spread"`
	GameDate    time.Time      `db:"game_date"`
	WinningTeam sql.NullString `db:"winning_team"`
	CreatedAt   time.Time      `db:"created_at"`
}

type gameInsertModel struct {
	HomeTeam string    `db:"home_team"`
	AwayTeam string    `db:"away_team"`
	Spread   float64   `db:"spread"`
	GameDate time.Time `db:"game_date"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:          m.ID,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		Spread:      m.Spread,
		StartsAt:    m.GameDate,
		WinningTeam: nullStringToPtr(m.WinningTeam),
		CreatedAt:   m.CreatedAt,
	}
}

func nullStringToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func ptrToNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
