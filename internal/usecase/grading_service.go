package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/leaderboard"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/platform/logging"
)

// resyncWorkerCount caps the goroutines recomputing leaderboard totals
// during a full resync.
const resyncWorkerCount = 8

type GradingService struct {
	gameRepo   game.Repository
	pickRepo   pick.Repository
	userRepo   user.Repository
	tbPickRepo tiebreaker.PickRepository
	boardRepo  leaderboard.Repository
	tx         TxRunner
	notifier   Notifier
	logger     *logging.Logger
	now        func() time.Time
}

func NewGradingService(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	userRepo user.Repository,
	tbPickRepo tiebreaker.PickRepository,
	boardRepo leaderboard.Repository,
	tx TxRunner,
	notifier Notifier,
	logger *logging.Logger,
) *GradingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GradingService{
		gameRepo:   gameRepo,
		pickRepo:   pickRepo,
		userRepo:   userRepo,
		tbPickRepo: tbPickRepo,
		boardRepo:  boardRepo,
		tx:         tx,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// GradeGame records the winning side of a game and rescores every pick on
// it. Passing an empty winner ungrades the game. Grading is idempotent:
// points are always recomputed from the winner on record, so correcting a
// bad call is just grading again.
func (s *GradingService) GradeGame(ctx context.Context, gameID int64, winner string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.GradeGame")
	defer span.End()

	winner = strings.TrimSpace(winner)

	var (
		graded        game.Game
		affectedPicks int
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		g, found, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}
		if winner != "" && !g.ValidWinner(winner) {
			return fmt.Errorf("%w: %q is not a valid result for game %d", ErrInvalidInput, winner, g.ID)
		}

		var winnerPtr *string
		if winner != "" {
			winnerPtr = &winner
		}
		if err := s.gameRepo.SetWinner(ctx, g.ID, winnerPtr); err != nil {
			return err
		}
		g.WinningTeam = winnerPtr
		graded = g

		affectedPicks, err = s.rescoreGame(ctx, g, winner)
		return err
	})
	if err != nil {
		return game.Game{}, err
	}

	if winner != "" {
		s.notifier.GameGraded(ctx, graded.HomeTeam, graded.AwayTeam, winner, affectedPicks)
	}
	return graded, nil
}

// rescoreGame recomputes points for every pick on a game and resyncs the
// affected leaderboard rows. Caller holds the transaction.
func (s *GradingService) rescoreGame(ctx context.Context, g game.Game, winner string) (int, error) {
	picks, err := s.pickRepo.ListByGame(ctx, g.ID)
	if err != nil {
		return 0, err
	}

	userIDs := make([]int64, 0, len(picks))
	for _, p := range picks {
		points := pick.Score(p.PickedTeam, winner, p.Locked)
		if err := s.pickRepo.SetPoints(ctx, p.ID, points); err != nil {
			return 0, err
		}
		userIDs = append(userIDs, p.UserID)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	return len(userIDs), s.boardRepo.ResyncUsers(ctx, userIDs)
}

type UpdateGameInput struct {
	HomeTeam    string
	AwayTeam    string
	Spread      float64
	StartsAt    time.Time
	WinningTeam *string
}

// UpdateGame rewrites a game's details. When the update changes the winner
// every pick on the game is rescored under the new result.
func (s *GradingService) UpdateGame(ctx context.Context, gameID int64, input UpdateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.UpdateGame")
	defer span.End()

	var out game.Game
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		g, found, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}

		updated := g
		updated.HomeTeam = strings.TrimSpace(input.HomeTeam)
		updated.AwayTeam = strings.TrimSpace(input.AwayTeam)
		updated.Spread = input.Spread
		updated.StartsAt = input.StartsAt.UTC()
		updated.WinningTeam = normalizeWinnerPtr(input.WinningTeam)

		if updated.HomeTeam == "" || updated.AwayTeam == "" {
			return fmt.Errorf("%w: both teams are required", ErrInvalidInput)
		}
		if updated.Spread < 0 {
			return fmt.Errorf("%w: spread must not be negative", ErrInvalidInput)
		}
		if updated.StartsAt.After(s.now().UTC().Add(maxFutureSchedule)) {
			return fmt.Errorf("%w: game date is more than a year away", ErrInvalidInput)
		}
		if updated.WinningTeam != nil && !updated.ValidWinner(*updated.WinningTeam) {
			return fmt.Errorf("%w: %q is not a valid result", ErrInvalidInput, *updated.WinningTeam)
		}

		out, err = s.gameRepo.Update(ctx, updated)
		if err != nil {
			return err
		}

		if winnerChanged(g.WinningTeam, out.WinningTeam) {
			winner := ""
			if out.WinningTeam != nil {
				winner = *out.WinningTeam
			}
			if _, err := s.rescoreGame(ctx, out, winner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}
	return out, nil
}

func normalizeWinnerPtr(winner *string) *string {
	if winner == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*winner)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func winnerChanged(before, after *string) bool {
	switch {
	case before == nil && after == nil:
		return false
	case before == nil || after == nil:
		return true
	default:
		return *before != *after
	}
}

// DeleteGame removes a game. Its picks go with it, so every total is
// recomputed afterwards.
func (s *GradingService) DeleteGame(ctx context.Context, gameID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.DeleteGame")
	defer span.End()

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		_, found, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}
		if err := s.gameRepo.Delete(ctx, gameID); err != nil {
			return err
		}
		return s.boardRepo.ResyncAll(ctx)
	})
}

// AwardTiebreakerPoints sets the fractional points a member earned on a
// tiebreaker and resyncs their total.
func (s *GradingService) AwardTiebreakerPoints(ctx context.Context, userID, tiebreakerID int64, points float64) (tiebreaker.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.AwardTiebreakerPoints")
	defer span.End()

	if points < 0 {
		return tiebreaker.Pick{}, fmt.Errorf("%w: points must not be negative", ErrInvalidInput)
	}

	var out tiebreaker.Pick
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tp, found, err := s.tbPickRepo.SetPoints(ctx, userID, tiebreakerID, points)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: no tiebreaker answer for user %d on tiebreaker %d", ErrNotFound, userID, tiebreakerID)
		}
		out = tp
		return s.boardRepo.ResyncUsers(ctx, []int64{userID})
	})
	if err != nil {
		return tiebreaker.Pick{}, err
	}
	return out, nil
}

// ResyncResult reports the outcome of a full leaderboard resync.
type ResyncResult struct {
	Users  int `json:"users"`
	Failed int `json:"failed"`
}

// ResyncLeaderboard rebuilds every member's total from their picks. Each
// member is recomputed on its own worker so one slow row does not stall
// the rest.
func (s *GradingService) ResyncLeaderboard(ctx context.Context) (ResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.ResyncLeaderboard")
	defer span.End()

	members, err := s.userRepo.ListPickers(ctx)
	if err != nil {
		return ResyncResult{}, err
	}
	if len(members) == 0 {
		return ResyncResult{}, nil
	}

	workers := resyncWorkerCount
	if len(members) < workers {
		workers = len(members)
	}
	workerPool, err := ants.NewPool(workers)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("%w: create resync worker pool: %v", ErrDependencyUnavailable, err)
	}
	defer workerPool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, member := range members {
		m := member
		wg.Add(1)
		submitErr := workerPool.Submit(func() {
			defer wg.Done()
			if err := s.resyncMember(ctx, m.ID); err != nil {
				s.logger.ErrorContext(ctx, "leaderboard resync failed for user",
					"user_id", m.ID,
					"error", err,
				)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}
	wg.Wait()

	return ResyncResult{Users: len(members), Failed: failed}, nil
}

func (s *GradingService) resyncMember(ctx context.Context, userID int64) error {
	if err := s.boardRepo.Ensure(ctx, userID); err != nil {
		return err
	}
	return s.boardRepo.ResyncUsers(ctx, []int64{userID})
}
