package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/leaderboard"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/domain/season"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/platform/cache"
)

// maxTiebreakerDiffs caps how many tiebreaker questions feed the ranking.
// The earliest questions in the window count, which rewards answering the
// season-opening ones.
const maxTiebreakerDiffs = 3

const standingsCachePrefix = "standings:"

type LeaderboardService struct {
	userRepo   user.Repository
	gameRepo   game.Repository
	pickRepo   pick.Repository
	tbRepo     tiebreaker.Repository
	tbPickRepo tiebreaker.PickRepository
	cache      *cache.Store
	now        func() time.Time
}

func NewLeaderboardService(
	userRepo user.Repository,
	gameRepo game.Repository,
	pickRepo pick.Repository,
	tbRepo tiebreaker.Repository,
	tbPickRepo tiebreaker.PickRepository,
	store *cache.Store,
) *LeaderboardService {
	return &LeaderboardService{
		userRepo:   userRepo,
		gameRepo:   gameRepo,
		pickRepo:   pickRepo,
		tbRepo:     tbRepo,
		tbPickRepo: tbPickRepo,
		cache:      store,
		now:        time.Now,
	}
}

// Standings ranks every picking member within a season filter. Rank order
// is total points, then correct locked picks, then tiebreaker accuracy
// diffs compared position by position, closest first.
func (s *LeaderboardService) Standings(ctx context.Context, filterKey string) ([]leaderboard.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	if filterKey == "" {
		filterKey = season.FilterOverall
	}
	filter, ok := season.Current().Lookup(filterKey)
	if !ok {
		return nil, fmt.Errorf("%w: unknown season filter %q", ErrInvalidInput, filterKey)
	}

	if s.cache == nil {
		return s.computeStandings(ctx, filter)
	}

	v, err := s.cache.GetOrLoad(ctx, standingsCachePrefix+filter.Key, func(ctx context.Context) (any, error) {
		standings, err := s.computeStandings(ctx, filter)
		if err != nil {
			return nil, err
		}
		return standings, nil
	})
	if err != nil {
		return nil, err
	}
	standings, _ := v.([]leaderboard.Standing)
	return append([]leaderboard.Standing(nil), standings...), nil
}

// Invalidate drops every cached standings view. Admin mutations that touch
// scores call this so the next read recomputes.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.DeletePrefix(ctx, standingsCachePrefix)
	}
}

// Weeks lists the season filters that actually contain scheduled games, so
// clients only offer weeks worth looking at.
func (s *LeaderboardService) Weeks(ctx context.Context) ([]season.Filter, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Weeks")
	defer span.End()

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	current := season.Current()
	out := make([]season.Filter, 0, len(current.Filters))
	for _, f := range current.Filters {
		if !f.Bounded() {
			out = append(out, f)
			continue
		}
		for _, g := range games {
			if f.Contains(g.StartsAt) {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (s *LeaderboardService) computeStandings(ctx context.Context, filter season.Filter) ([]leaderboard.Standing, error) {
	members, err := s.userRepo.ListPickers(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.pickRepo.ListResults(ctx, filter.Start, filter.End)
	if err != nil {
		return nil, err
	}

	type tally struct {
		points       float64
		correctLocks int
	}
	tallies := make(map[int64]*tally, len(members))
	for _, m := range members {
		tallies[m.ID] = &tally{}
	}

	for _, r := range results {
		t, ok := tallies[r.UserID]
		if !ok || !r.Graded {
			continue
		}
		t.points += float64(r.PointsAwarded)
		if r.Locked && r.PointsAwarded > 0 {
			t.correctLocks++
		}
	}

	diffs, tbPoints, err := s.tiebreakerTallies(ctx, filter, members)
	if err != nil {
		return nil, err
	}
	for userID, pts := range tbPoints {
		if t, ok := tallies[userID]; ok {
			t.points += pts
		}
	}

	standings := make([]leaderboard.Standing, 0, len(members))
	for _, m := range members {
		t := tallies[m.ID]
		standings = append(standings, leaderboard.Standing{
			UserID:          m.ID,
			Username:        m.Username,
			FullName:        m.FullName,
			TotalPoints:     t.points,
			CorrectLocks:    t.correctLocks,
			TiebreakerDiffs: diffs[m.ID],
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.CorrectLocks != b.CorrectLocks {
			return a.CorrectLocks > b.CorrectLocks
		}
		if c := compareDiffs(a.TiebreakerDiffs, b.TiebreakerDiffs); c != 0 {
			return c < 0
		}
		return a.Username < b.Username
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}

// tiebreakerTallies returns, per user, accuracy diffs against the graded
// tiebreakers in the window plus any points awarded on the window's
// tiebreakers. Points count whether or not the question is graded, since
// admins can hand them out ahead of the answer. Only the earliest few
// graded questions count toward diffs; a user with no answer on one of
// those gets the missing-answer sentinel so they sort last.
func (s *LeaderboardService) tiebreakerTallies(ctx context.Context, filter season.Filter, members []user.User) (map[int64][]float64, map[int64]float64, error) {
	tbs, err := s.tbRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	inRange := make([]tiebreaker.Tiebreaker, 0, len(tbs))
	for _, tb := range tbs {
		if !filter.Contains(tb.StartsAt) {
			continue
		}
		inRange = append(inRange, tb)
	}
	sort.Slice(inRange, func(i, j int) bool { return inRange[i].StartsAt.Before(inRange[j].StartsAt) })

	diffs := make(map[int64][]float64)
	points := make(map[int64]float64)
	graded := 0
	for _, tb := range inRange {
		answers, err := s.tbPickRepo.ListByTiebreaker(ctx, tb.ID)
		if err != nil {
			return nil, nil, err
		}
		byUser := make(map[int64]tiebreaker.Pick, len(answers))
		for _, a := range answers {
			byUser[a.UserID] = a
			points[a.UserID] += a.PointsAwarded
		}

		if tb.Answer == nil || graded >= maxTiebreakerDiffs {
			continue
		}
		graded++
		for _, m := range members {
			if a, ok := byUser[m.ID]; ok {
				diffs[m.ID] = append(diffs[m.ID], tiebreaker.AccuracyDiff(a.Answer, *tb.Answer))
			} else {
				diffs[m.ID] = append(diffs[m.ID], tiebreaker.MissingAnswerDiff)
			}
		}
	}
	return diffs, points, nil
}

// compareDiffs orders two diff lists position by position. A shorter list
// that matches the longer one's prefix ranks ahead, having nothing left to
// be wrong about.
func compareDiffs(a, b []float64) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
