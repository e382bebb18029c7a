package tiebreaker

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MissingAnswerDiff is the accuracy sentinel for users with no answer,
// or answers that do not parse as numbers. It sorts behind every real diff.
const MissingAnswerDiff = 999999

// Tiebreaker is a free-form question used to break leaderboard ties,
// typically a score or stat prediction tied to one game.
type Tiebreaker struct {
	ID        int64
	Question  string
	StartsAt  time.Time
	Answer    *string
	Active    bool
	CreatedAt time.Time
}

// Pick is a user's answer to a tiebreaker question. Points are assigned
// manually by an admin, never derived from the answer.
type Pick struct {
	ID            int64
	UserID        int64
	TiebreakerID  int64
	Answer        string
	PointsAwarded float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Started reports whether answers for this tiebreaker are closed.
func (t Tiebreaker) Started(now time.Time) bool {
	return !t.StartsAt.After(now)
}

// Graded reports whether the real answer has been recorded.
func (t Tiebreaker) Graded() bool {
	return t.Answer != nil && strings.TrimSpace(*t.Answer) != ""
}

// AccuracyDiff measures how far a user's answer landed from the recorded
// one. Both values must parse as numbers; anything else yields the sentinel.
func AccuracyDiff(userAnswer, actualAnswer string) float64 {
	actual, err := strconv.ParseFloat(strings.TrimSpace(actualAnswer), 64)
	if err != nil {
		return MissingAnswerDiff
	}
	answered, err := strconv.ParseFloat(strings.TrimSpace(userAnswer), 64)
	if err != nil {
		return MissingAnswerDiff
	}
	return math.Abs(answered - actual)
}
