package postgres

import (
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/user"
)

type userTableModel struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	LeagueID     string    `db:"league_id"`
	PasswordHash string    `db:"password_hash"`
	Admin        bool      `db:"admin"`
	MakePicks    bool      `db:"make_picks"`
	CreatedAt    time.Time `db:"created_at"`
}

type userInsertModel struct {
	Username     string `db:"username"`
	FullName     string `db:"full_name"`
	Email        string `db:"email"`
	LeagueID     string `db:"league_id"`
	PasswordHash string `db:"password_hash"`
	Admin        bool   `db:"admin"`
	MakePicks    bool   `db:"make_picks"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Username:     m.Username,
		FullName:     m.FullName,
		Email:        m.Email,
		LeagueID:     m.LeagueID,
		PasswordHash: m.PasswordHash,
		Admin:        m.Admin,
		MakePicks:    m.MakePicks,
		CreatedAt:    m.CreatedAt,
	}
}
