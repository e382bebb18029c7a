package game

import (
	"strings"
	"time"
)

// ResultPush marks a game that landed exactly on the spread. Every pick on
// a pushed game scores zero.
const ResultPush = "PUSH"

// Game is one matchup offered for picking, with the spread folded into the
// team names as published.
type Game struct {
	ID          int64
	HomeTeam    string
	AwayTeam    string
	Spread      float64
	StartsAt    time.Time
	WinningTeam *string
	CreatedAt   time.Time
}

// Started reports whether picks against this game are closed.
func (g Game) Started(now time.Time) bool {
	return !g.StartsAt.After(now)
}

// Graded reports whether a winner (or push) has been recorded.
func (g Game) Graded() bool {
	return g.WinningTeam != nil && strings.TrimSpace(*g.WinningTeam) != ""
}

// NormalizeTeam canonicalizes a team name for comparison. Display names may
// carry a trailing " *" favorite marker which never participates in matching.
func NormalizeTeam(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), " *")
}

// ValidWinner reports whether winner is an acceptable grading value for the
// game: one of the two teams, PUSH, or empty to clear the result.
func (g Game) ValidWinner(winner string) bool {
	normalized := NormalizeTeam(winner)
	if normalized == "" || strings.EqualFold(normalized, ResultPush) {
		return true
	}
	return normalized == NormalizeTeam(g.HomeTeam) || normalized == NormalizeTeam(g.AwayTeam)
}

// HasTeam reports whether the picked team names one of the game's sides.
func (g Game) HasTeam(team string) bool {
	normalized := NormalizeTeam(team)
	return normalized == NormalizeTeam(g.HomeTeam) || normalized == NormalizeTeam(g.AwayTeam)
}
