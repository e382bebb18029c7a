package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/pick"
)

// PickRepository keeps picks in memory. It joins against the game
// repository the way the SQL implementation joins against the games table,
// so picks whose game was deleted drop out of every read.
type PickRepository struct {
	mu     sync.RWMutex
	items  map[int64]pick.Pick
	nextID int64
	games  *GameRepository
}

func NewPickRepository(games *GameRepository) *PickRepository {
	return &PickRepository{items: make(map[int64]pick.Pick), nextID: 1, games: games}
}

func (r *PickRepository) Upsert(_ context.Context, p pick.Pick) (pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.items {
		if existing.UserID == p.UserID && existing.GameID == p.GameID {
			existing.PickedTeam = p.PickedTeam
			existing.Locked = p.Locked
			existing.UpdatedAt = now
			r.items[id] = existing
			return existing, nil
		}
	}

	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	r.items[p.ID] = p
	return p, nil
}

func (r *PickRepository) GetByUserAndGame(_ context.Context, userID, gameID int64) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.UserID == userID && p.GameID == gameID {
			return p, true, nil
		}
	}
	return pick.Pick{}, false, nil
}

func (r *PickRepository) ListByUser(_ context.Context, userID int64) ([]pick.Pick, error) {
	return r.filtered(func(p pick.Pick) bool { return p.UserID == userID }), nil
}

func (r *PickRepository) ListByGame(_ context.Context, gameID int64) ([]pick.Pick, error) {
	return r.filtered(func(p pick.Pick) bool { return p.GameID == gameID }), nil
}

func (r *PickRepository) ListLockedByUser(_ context.Context, userID int64) ([]pick.Pick, error) {
	return r.filtered(func(p pick.Pick) bool { return p.UserID == userID && p.Locked }), nil
}

func (r *PickRepository) filtered(keep func(pick.Pick) bool) []pick.Pick {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.items))
	for _, p := range r.items {
		if keep(p) && r.gameExists(p.GameID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *PickRepository) gameExists(gameID int64) bool {
	if r.games == nil {
		return true
	}
	_, ok, _ := r.games.GetByID(context.Background(), gameID)
	return ok
}

func (r *PickRepository) SetLocked(_ context.Context, id int64, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.items[id]; ok {
		p.Locked = locked
		p.UpdatedAt = time.Now().UTC()
		r.items[id] = p
	}
	return nil
}

func (r *PickRepository) SetPoints(_ context.Context, id int64, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.items[id]; ok {
		p.PointsAwarded = points
		p.UpdatedAt = time.Now().UTC()
		r.items[id] = p
	}
	return nil
}

func (r *PickRepository) ListResults(ctx context.Context, start, end time.Time) ([]pick.Result, error) {
	picks := r.filtered(func(pick.Pick) bool { return true })

	out := make([]pick.Result, 0, len(picks))
	for _, p := range picks {
		g, ok, err := r.games.GetByID(ctx, p.GameID)
		if err != nil || !ok {
			continue
		}
		if !start.IsZero() && g.StartsAt.Before(start) {
			continue
		}
		if !end.IsZero() && g.StartsAt.After(end) {
			continue
		}
		out = append(out, pick.Result{
			UserID:        p.UserID,
			GameID:        p.GameID,
			Locked:        p.Locked,
			PointsAwarded: p.PointsAwarded,
			Graded:        g.Graded(),
			GameStartsAt:  g.StartsAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GameStartsAt.Equal(out[j].GameStartsAt) {
			return out[i].GameStartsAt.Before(out[j].GameStartsAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
