package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
)

type TiebreakerRepository struct {
	mu     sync.RWMutex
	items  map[int64]tiebreaker.Tiebreaker
	nextID int64
}

func NewTiebreakerRepository(tiebreakers []tiebreaker.Tiebreaker) *TiebreakerRepository {
	items := make(map[int64]tiebreaker.Tiebreaker, len(tiebreakers))
	var maxID int64
	for _, t := range tiebreakers {
		items[t.ID] = t
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return &TiebreakerRepository{items: items, nextID: maxID + 1}
}

func (r *TiebreakerRepository) Create(_ context.Context, t tiebreaker.Tiebreaker) (tiebreaker.Tiebreaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	r.nextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.items[t.ID] = t
	return t, nil
}

func (r *TiebreakerRepository) GetByID(_ context.Context, id int64) (tiebreaker.Tiebreaker, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	return t, ok, nil
}

func (r *TiebreakerRepository) List(_ context.Context) ([]tiebreaker.Tiebreaker, error) {
	return r.filtered(func(tiebreaker.Tiebreaker) bool { return true }), nil
}

func (r *TiebreakerRepository) ListActive(_ context.Context) ([]tiebreaker.Tiebreaker, error) {
	return r.filtered(func(t tiebreaker.Tiebreaker) bool { return t.Active }), nil
}

func (r *TiebreakerRepository) ListInRange(_ context.Context, start, end time.Time) ([]tiebreaker.Tiebreaker, error) {
	return r.filtered(func(t tiebreaker.Tiebreaker) bool {
		if !start.IsZero() && t.StartsAt.Before(start) {
			return false
		}
		if !end.IsZero() && t.StartsAt.After(end) {
			return false
		}
		return true
	}), nil
}

func (r *TiebreakerRepository) filtered(keep func(tiebreaker.Tiebreaker) bool) []tiebreaker.Tiebreaker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tiebreaker.Tiebreaker, 0, len(r.items))
	for _, t := range r.items {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *TiebreakerRepository) Update(_ context.Context, t tiebreaker.Tiebreaker) (tiebreaker.Tiebreaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[t.ID]
	if !ok {
		return tiebreaker.Tiebreaker{}, nil
	}
	t.CreatedAt = existing.CreatedAt
	r.items[t.ID] = t
	return t, nil
}

func (r *TiebreakerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

// TiebreakerPickRepository joins against the tiebreaker repository so
// answers to deleted tiebreakers drop out of reads, mirroring the SQL
// cascade.
type TiebreakerPickRepository struct {
	mu          sync.RWMutex
	items       map[int64]tiebreaker.Pick
	nextID      int64
	tiebreakers *TiebreakerRepository
}

func NewTiebreakerPickRepository(tiebreakers *TiebreakerRepository) *TiebreakerPickRepository {
	return &TiebreakerPickRepository{
		items:       make(map[int64]tiebreaker.Pick),
		nextID:      1,
		tiebreakers: tiebreakers,
	}
}

func (r *TiebreakerPickRepository) Upsert(_ context.Context, p tiebreaker.Pick) (tiebreaker.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range r.items {
		if existing.UserID == p.UserID && existing.TiebreakerID == p.TiebreakerID {
			existing.Answer = p.Answer
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

func (r *TiebreakerPickRepository) GetByUserAndTiebreaker(_ context.Context, userID, tiebreakerID int64) (tiebreaker.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.UserID == userID && p.TiebreakerID == tiebreakerID {
			return p, true, nil
		}
	}
	return tiebreaker.Pick{}, false, nil
}

func (r *TiebreakerPickRepository) ListByUser(_ context.Context, userID int64) ([]tiebreaker.Pick, error) {
	return r.filtered(func(p tiebreaker.Pick) bool { return p.UserID == userID }), nil
}

func (r *TiebreakerPickRepository) ListByTiebreaker(_ context.Context, tiebreakerID int64) ([]tiebreaker.Pick, error) {
	return r.filtered(func(p tiebreaker.Pick) bool { return p.TiebreakerID == tiebreakerID }), nil
}

func (r *TiebreakerPickRepository) filtered(keep func(tiebreaker.Pick) bool) []tiebreaker.Pick {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tiebreaker.Pick, 0, len(r.items))
	for _, p := range r.items {
		if keep(p) && r.tiebreakerExists(p.TiebreakerID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *TiebreakerPickRepository) tiebreakerExists(id int64) bool {
	if r.tiebreakers == nil {
		return true
	}
	_, ok, _ := r.tiebreakers.GetByID(context.Background(), id)
	return ok
}

func (r *TiebreakerPickRepository) SetPoints(_ context.Context, userID, tiebreakerID int64, points float64) (tiebreaker.Pick, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.items {
		if p.UserID == userID && p.TiebreakerID == tiebreakerID {
			p.PointsAwarded = points
			p.UpdatedAt = time.Now().UTC()
			r.items[id] = p
			return p, true, nil
		}
	}
	return tiebreaker.Pick{}, false, nil
}
