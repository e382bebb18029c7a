package leaderboard

import "time"

// Entry is the persisted per-user points cache. It is derived state: any
// mutation that touches points rewrites it from the pick tables, so a stale
// or missing row heals on the next resync.
type Entry struct {
	UserID      int64
	TotalPoints int
	LastUpdated time.Time
}

// Standing is one ranked leaderboard row.
type Standing struct {
	Rank            int       `json:"rank"`
	UserID          int64     `json:"user_id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	TotalPoints     float64   `json:"total_points"`
	CorrectLocks    int       `json:"correct_locks"`
	TiebreakerDiffs []float64 `json:"tiebreaker_diffs"`
}
