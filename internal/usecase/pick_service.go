package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/domain/season"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
)

type PickService struct {
	gameRepo game.Repository
	pickRepo pick.Repository
	userRepo user.Repository
	boards   leaderboardLocker
	tx       TxRunner
	now      func() time.Time
}

// leaderboardLocker is the slice of the leaderboard repository the pick
// flow needs: the per-user row lock that serializes submissions.
type leaderboardLocker interface {
	LockUser(ctx context.Context, userID int64) error
}

func NewPickService(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	userRepo user.Repository,
	boards leaderboardLocker,
	tx TxRunner,
) *PickService {
	return &PickService{
		gameRepo: gameRepo,
		pickRepo: pickRepo,
		userRepo: userRepo,
		boards:   boards,
		tx:       tx,
		now:      time.Now,
	}
}

type SubmitPickInput struct {
	GameID     int64
	PickedTeam string
	Locked     bool
}

// Submit records or replaces the caller's pick for a game. The whole flow
// runs under the user's leaderboard row lock: two concurrent submissions
// for the same user serialize, so the one-lock-per-week rule cannot be
// raced past.
func (s *PickService) Submit(ctx context.Context, principal user.Principal, input SubmitPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit")
	defer span.End()

	if !principal.MakePicks {
		return pick.Pick{}, fmt.Errorf("%w: user is not allowed to submit picks", ErrForbidden)
	}
	pickedTeam := strings.TrimSpace(input.PickedTeam)
	if pickedTeam == "" {
		return pick.Pick{}, fmt.Errorf("%w: picked team is required", ErrInvalidInput)
	}

	var out pick.Pick
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.boards.LockUser(ctx, principal.UserID); err != nil {
			return err
		}

		g, found, err := s.gameRepo.GetByID(ctx, input.GameID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: game %d", ErrNotFound, input.GameID)
		}
		if !g.HasTeam(pickedTeam) {
			return fmt.Errorf("%w: team %q is not playing in game %d", ErrInvalidInput, pickedTeam, g.ID)
		}

		now := s.now().UTC()
		existing, hasExisting, err := s.pickRepo.GetByUserAndGame(ctx, principal.UserID, g.ID)
		if err != nil {
			return err
		}

		if g.Started(now) {
			// Resubmitting the identical pick is a harmless no-op; any
			// actual change to a started game is rejected.
			if hasExisting && samePick(existing, pickedTeam, input.Locked) {
				out = existing
				return nil
			}
			return fmt.Errorf("%w: game %d has already started", ErrInvalidState, g.ID)
		}

		if input.Locked {
			if err := s.releaseWeekLock(ctx, principal.UserID, g, now); err != nil {
				return err
			}
		}

		upserted, err := s.pickRepo.Upsert(ctx, pick.Pick{
			UserID:     principal.UserID,
			GameID:     g.ID,
			PickedTeam: pickedTeam,
			Locked:     input.Locked,
		})
		if err != nil {
			return err
		}
		out = upserted
		return nil
	})
	if err != nil {
		return pick.Pick{}, err
	}
	return out, nil
}

// releaseWeekLock enforces one locked pick per pick week. An existing lock
// in the target game's week is auto-released when its game has not kicked
// off; once that game is underway the lock is spent and the request fails.
func (s *PickService) releaseWeekLock(ctx context.Context, userID int64, target game.Game, now time.Time) error {
	lockedPicks, err := s.pickRepo.ListLockedByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, lp := range lockedPicks {
		if lp.GameID == target.ID {
			continue
		}
		lg, found, err := s.gameRepo.GetByID(ctx, lp.GameID)
		if err != nil {
			return err
		}
		if !found || !season.SameWindow(lg.StartsAt, target.StartsAt) {
			continue
		}
		if lg.Started(now) {
			return fmt.Errorf("%w: lock already used on a started game this week", ErrInvalidState)
		}
		if err := s.pickRepo.SetLocked(ctx, lp.ID, false); err != nil {
			return err
		}
	}
	return nil
}

func samePick(p pick.Pick, pickedTeam string, locked bool) bool {
	return game.NormalizeTeam(p.PickedTeam) == game.NormalizeTeam(pickedTeam) && p.Locked == locked
}

// GamePickView pairs a game with the viewer's pick on it, if any.
type GamePickView struct {
	Game game.Game
	Pick *pick.Pick
}

// MyPicks returns every game alongside the caller's pick, future games
// included.
func (s *PickService) MyPicks(ctx context.Context, principal user.Principal) ([]GamePickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.MyPicks")
	defer span.End()

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	picks, err := s.pickRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return joinGamePicks(games, picks), nil
}

// UserPicks returns another member's picks. Unless the viewer is an admin
// or the owner, only picks on started games are visible so nobody can copy
// a sheet before kickoff.
func (s *PickService) UserPicks(ctx context.Context, principal user.Principal, username string) ([]GamePickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.UserPicks")
	defer span.End()

	target, found, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if !target.MakePicks {
		return nil, fmt.Errorf("%w: user %q does not make picks", ErrInvalidInput, username)
	}

	showAll := principal.Admin || principal.UserID == target.ID
	now := s.now().UTC()

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	picks, err := s.pickRepo.ListByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	views := joinGamePicks(games, picks)
	if showAll {
		return views, nil
	}
	out := make([]GamePickView, 0, len(views))
	for _, v := range views {
		if v.Game.Started(now) {
			out = append(out, v)
		}
	}
	return out, nil
}

// UserPickHistory returns a member's picks on graded games only.
func (s *PickService) UserPickHistory(ctx context.Context, username string) ([]GamePickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.UserPickHistory")
	defer span.End()

	target, found, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	picks, err := s.pickRepo.ListByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	views := joinGamePicks(games, picks)
	out := make([]GamePickView, 0, len(views))
	for _, v := range views {
		if v.Game.Graded() && v.Pick != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// MemberPick is one user's pick on a specific game, for the shared grid.
type MemberPick struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	PickedTeam    string `json:"picked_team"`
	Locked        bool   `json:"locked"`
	PointsAwarded int    `json:"points_awarded"`
}

// GamePicks returns everyone's picks on one game. Non-admins only see the
// board once the game has started.
func (s *PickService) GamePicks(ctx context.Context, principal user.Principal, gameID int64) (game.Game, []MemberPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.GamePicks")
	defer span.End()

	g, found, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, err
	}
	if !found {
		return game.Game{}, nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}
	if !principal.Admin && !g.Started(s.now().UTC()) {
		return game.Game{}, nil, fmt.Errorf("%w: picks are hidden until the game starts", ErrInvalidState)
	}

	members, err := s.memberPicksForGame(ctx, g.ID)
	if err != nil {
		return game.Game{}, nil, err
	}
	return g, members, nil
}

// PicksBoard returns the all-members pick grid for every started game.
func (s *PickService) PicksBoard(ctx context.Context) ([]BoardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.PicksBoard")
	defer span.End()

	started, err := s.gameRepo.ListStarted(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	rows := make([]BoardRow, 0, len(started))
	for _, g := range started {
		members, err := s.memberPicksForGame(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, BoardRow{Game: g, Picks: members})
	}
	return rows, nil
}

// BoardRow is one started game with everyone's picks on it.
type BoardRow struct {
	Game  game.Game
	Picks []MemberPick
}

func (s *PickService) memberPicksForGame(ctx context.Context, gameID int64) ([]MemberPick, error) {
	picks, err := s.pickRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	pickers, err := s.userRepo.ListPickers(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[int64]user.User, len(pickers))
	for _, u := range pickers {
		byUser[u.ID] = u
	}

	out := make([]MemberPick, 0, len(picks))
	for _, p := range picks {
		u, ok := byUser[p.UserID]
		if !ok {
			continue
		}
		out = append(out, MemberPick{
			UserID:        p.UserID,
			Username:      u.Username,
			FullName:      u.FullName,
			PickedTeam:    p.PickedTeam,
			Locked:        p.Locked,
			PointsAwarded: p.PointsAwarded,
		})
	}
	return out, nil
}

func joinGamePicks(games []game.Game, picks []pick.Pick) []GamePickView {
	byGame := make(map[int64]pick.Pick, len(picks))
	for _, p := range picks {
		byGame[p.GameID] = p
	}

	out := make([]GamePickView, 0, len(games))
	for _, g := range games {
		view := GamePickView{Game: g}
		if p, ok := byGame[g.ID]; ok {
			pickCopy := p
			view.Pick = &pickCopy
		}
		out = append(out, view)
	}
	return out
}
