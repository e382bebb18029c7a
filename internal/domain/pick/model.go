package pick

import (
	"strings"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
)

// Pick is one user's selection against a game's spread.
type Pick struct {
	ID            int64
	UserID        int64
	GameID        int64
	PickedTeam    string
	Locked        bool
	PointsAwarded int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Score awards points for a pick once a game is graded. A push zeroes every
// pick on the game regardless of lock state. A correct pick is worth 1 point,
// or 2 when locked. Regrading always starts from the current winner, so the
// function is safe to apply repeatedly.
func Score(pickedTeam, winningTeam string, locked bool) int {
	winner := game.NormalizeTeam(winningTeam)
	if winner == "" || strings.EqualFold(winner, game.ResultPush) {
		return 0
	}
	if game.NormalizeTeam(pickedTeam) != winner {
		return 0
	}
	if locked {
		return 2
	}
	return 1
}

// Correct reports whether the pick matched the recorded winner.
func (p Pick) Correct() bool {
	return p.PointsAwarded > 0
}
