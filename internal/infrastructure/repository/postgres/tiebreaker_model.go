package postgres

import (
	"database/sql"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
)

type tiebreakerTableModel struct {
	ID        int64          `db:"id"`
	Question  string         `db:"question"`
	StartTime time.Time      `db:"start_time"`
	Answer    sql.NullString `db:"answer"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
}

type tiebreakerInsertModel struct {
	Question  string    `db:"question"`
	StartTime time.Time `db:"start_time"`
	IsActive  bool      `db:"is_active"`
}

type tiebreakerPickTableModel struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	TiebreakerID  int64     `db:"tiebreaker_id"`
	Answer        string    `db:"answer"`
	PointsAwarded float64   `db:"points_awarded"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type tiebreakerPickInsertModel struct {
	UserID       int64  `db:"user_id"`
	TiebreakerID int64  `db:"tiebreaker_id"`
	Answer       string `db:"answer"`
}

func (m tiebreakerTableModel) toDomain() tiebreaker.Tiebreaker {
	return tiebreaker.Tiebreaker{
		ID:        m.ID,
		Question:  m.Question,
		StartsAt:  m.StartTime,
		Answer:    nullStringToPtr(m.Answer),
		Active:    m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

func (m tiebreakerPickTableModel) toDomain() tiebreaker.Pick {
	return tiebreaker.Pick{
		ID:            m.ID,
		UserID:        m.UserID,
		TiebreakerID:  m.TiebreakerID,
		Answer:        m.Answer,
		PointsAwarded: m.PointsAwarded,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
