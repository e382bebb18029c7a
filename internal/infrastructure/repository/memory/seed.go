package memory

import (
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
)

// Seed data backs the in-memory storage mode used for local development.
// Every seed password is "changeme".
const seedPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func SeedUsers() []user.User {
	return []user.User{
		{ID: 1, Username: "commish", FullName: "Pool Commissioner", Email: "commish@example.com", LeagueID: "main", PasswordHash: seedPasswordHash, Admin: true, MakePicks: true},
		{ID: 2, Username: "sarah", FullName: "Sarah Miller", Email: "sarah@example.com", LeagueID: "main", PasswordHash: seedPasswordHash, MakePicks: true},
		{ID: 3, Username: "deacon", FullName: "Deacon Hayes", Email: "deacon@example.com", LeagueID: "main", PasswordHash: seedPasswordHash, MakePicks: true},
	}
}

func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:       1,
			HomeTeam: "Georgia *",
			AwayTeam: "Clemson",
			Spread:   2.5,
			StartsAt: time.Date(2025, 8, 30, 19, 30, 0, 0, time.UTC),
		},
		{
			ID:       2,
			HomeTeam: "Ohio State",
			AwayTeam: "Texas *",
			Spread:   1.5,
			StartsAt: time.Date(2025, 8, 30, 16, 0, 0, 0, time.UTC),
		},
		{
			ID:       3,
			HomeTeam: "Eagles *",
			AwayTeam: "Cowboys",
			Spread:   6.5,
			StartsAt: time.Date(2025, 9, 5, 0, 20, 0, 0, time.UTC),
		},
	}
}

func SeedTiebreakers() []tiebreaker.Tiebreaker {
	return []tiebreaker.Tiebreaker{
		{
			ID:       1,
			Question: "Total points in Georgia vs Clemson?",
			StartsAt: time.Date(2025, 8, 30, 19, 30, 0, 0, time.UTC),
			Active:   true,
		},
	}
}
