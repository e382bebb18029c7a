package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
)

type GameRepository struct {
	mu     sync.RWMutex
	items  map[int64]game.Game
	nextID int64
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[int64]game.Game, len(games))
	var maxID int64
	for _, g := range games {
		items[g.ID] = g
		if g.ID > maxID {
			maxID = g.ID
		}
	}
	return &GameRepository{items: items, nextID: maxID + 1}
}

func (r *GameRepository) Create(_ context.Context, g game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g.ID = r.nextID
	r.nextID++
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	r.items[g.ID] = g
	return g, nil
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[id]
	return g, ok, nil
}

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	return r.filtered(func(game.Game) bool { return true }), nil
}

func (r *GameRepository) ListStarted(_ context.Context, now time.Time) ([]game.Game, error) {
	return r.filtered(func(g game.Game) bool { return g.Started(now) }), nil
}

func (r *GameRepository) ListInRange(_ context.Context, start, end time.Time) ([]game.Game, error) {
	return r.filtered(func(g game.Game) bool {
		if !start.IsZero() && g.StartsAt.Before(start) {
			return false
		}
		if !end.IsZero() && g.StartsAt.After(end) {
			return false
		}
		return true
	}), nil
}

func (r *GameRepository) filtered(keep func(game.Game) bool) []game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, g := range r.items {
		if keep(g) {
			out = append(out, g)
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

func (r *GameRepository) Update(_ context.Context, g game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[g.ID]
	if !ok {
		return game.Game{}, nil
	}
	g.CreatedAt = existing.CreatedAt
	r.items[g.ID] = g
	return g, nil
}

func (r *GameRepository) SetWinner(_ context.Context, id int64, winner *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.items[id]; ok {
		g.WinningTeam = winner
		r.items[id] = g
	}
	return nil
}

func (r *GameRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}
