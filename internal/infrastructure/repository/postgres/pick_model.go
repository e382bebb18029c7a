package postgres

import (
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/pick"
)

type pickTableModel struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	GameID        int64     `db:"game_id"`
	PickedTeam    string    `db:"picked_team"`
	Locked        bool      `db:"lock"`
	PointsAwarded int       `db:"points_awarded"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type pickInsertModel struct {
	UserID     int64  `db:"user_id"`
	GameID     int64  `db:"game_id"`
	PickedTeam string `db:"picked_team"`
	Locked     bool   `db:"lock"`
}

type pickResultModel struct {
	UserID        int64     `db:"user_id"`
	GameID        int64     `db:"game_id"`
	Locked        bool      `db:"lock"`
	PointsAwarded int       `db:"points_awarded"`
	Graded        bool      `db:"graded"`
	GameStartsAt  time.Time `db:"game_date"`
}

func (m pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:            m.ID,
		UserID:        m.UserID,
		GameID:        m.GameID,
		PickedTeam:    m.PickedTeam,
		Locked:        m.Locked,
		PointsAwarded: m.PointsAwarded,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
