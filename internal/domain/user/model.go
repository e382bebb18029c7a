package user

import "time"

// User is a registered pool member.
type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	LeagueID     string
	PasswordHash string
	Admin        bool
	MakePicks    bool
	CreatedAt    time.Time
}

// Principal identifies the authenticated caller on a request.
type Principal struct {
	UserID    int64
	Username  string
	Admin     bool
	MakePicks bool
}
