package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
)

type GameService struct {
	gameRepo game.Repository
	now      func() time.Time
}

func NewGameService(gameRepo game.Repository) *GameService {
	return &GameService{
		gameRepo: gameRepo,
		now:      time.Now,
	}
}

type CreateGameInput struct {
	HomeTeam string
	AwayTeam string
	Spread   float64
	StartsAt time.Time
}

// maxFutureSchedule bounds how far out a game can be scheduled. A date past
// this is almost always a typo in the year.
const maxFutureSchedule = 365 * 24 * time.Hour

func (s *GameService) Create(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer span.End()

	g := game.Game{
		HomeTeam: strings.TrimSpace(input.HomeTeam),
		AwayTeam: strings.TrimSpace(input.AwayTeam),
		Spread:   input.Spread,
		StartsAt: input.StartsAt.UTC(),
	}
	if err := s.validate(g); err != nil {
		return game.Game{}, err
	}
	return s.gameRepo.Create(ctx, g)
}

func (s *GameService) validate(g game.Game) error {
	if g.HomeTeam == "" || g.AwayTeam == "" {
		return fmt.Errorf("%w: both teams are required", ErrInvalidInput)
	}
	if game.NormalizeTeam(g.HomeTeam) == game.NormalizeTeam(g.AwayTeam) {
		return fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if g.Spread < 0 {
		return fmt.Errorf("%w: spread must not be negative", ErrInvalidInput)
	}
	if g.StartsAt.IsZero() {
		return fmt.Errorf("%w: game date is required", ErrInvalidInput)
	}
	if g.StartsAt.After(s.now().UTC().Add(maxFutureSchedule)) {
		return fmt.Errorf("%w: game date is more than a year away", ErrInvalidInput)
	}
	return nil
}

func (s *GameService) List(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	return s.gameRepo.List(ctx)
}

// ListStarted returns games that have kicked off, graded or not.
func (s *GameService) ListStarted(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListStarted")
	defer span.End()

	return s.gameRepo.ListStarted(ctx, s.now().UTC())
}

func (s *GameService) Get(ctx context.Context, id int64) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get")
	defer span.End()

	g, found, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if !found {
		return game.Game{}, fmt.Errorf("%w: game %d", ErrNotFound, id)
	}
	return g, nil
}
