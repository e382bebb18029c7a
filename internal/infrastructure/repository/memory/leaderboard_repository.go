package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/leaderboard"
)

// LeaderboardRepository recomputes cached totals from the pick repositories
// on every resync, the same contract the SQL implementation honors.
type LeaderboardRepository struct {
	mu      sync.RWMutex
	items   map[int64]leaderboard.Entry
	picks   *PickRepository
	tbPicks *TiebreakerPickRepository
	users   *UserRepository
}

func NewLeaderboardRepository(users *UserRepository, picks *PickRepository, tbPicks *TiebreakerPickRepository) *LeaderboardRepository {
	return &LeaderboardRepository{
		items:   make(map[int64]leaderboard.Entry),
		picks:   picks,
		tbPicks: tbPicks,
		users:   users,
	}
}

func (r *LeaderboardRepository) Ensure(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[userID]; !ok {
		r.items[userID] = leaderboard.Entry{UserID: userID, LastUpdated: time.Now().UTC()}
	}
	return nil
}

func (r *LeaderboardRepository) Get(_ context.Context, userID int64) (leaderboard.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[userID]
	return e, ok, nil
}

func (r *LeaderboardRepository) LockUser(ctx context.Context, userID int64) error {
	return r.Ensure(ctx, userID)
}

func (r *LeaderboardRepository) ResyncUsers(ctx context.Context, userIDs []int64) error {
	for _, userID := range userIDs {
		if err := r.resyncUser(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *LeaderboardRepository) ResyncAll(ctx context.Context) error {
	users, err := r.users.ListPickers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := r.resyncUser(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *LeaderboardRepository) resyncUser(ctx context.Context, userID int64) error {
	total := 0
	picks, err := r.picks.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, p := range picks {
		total += p.PointsAwarded
	}

	var tbTotal float64
	tbPicks, err := r.tbPicks.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, p := range tbPicks {
		tbTotal += p.PointsAwarded
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID] = leaderboard.Entry{
		UserID:      userID,
		TotalPoints: total + int(tbTotal),
		LastUpdated: time.Now().UTC(),
	}
	return nil
}

func (r *LeaderboardRepository) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, userID)
	return nil
}
