package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/leaderboard"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/domain/season"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/platform/logging"
)

// statusWorkerCount caps concurrent per-member pick lookups when building
// the weekly status report.
const statusWorkerCount = 8

const minPasswordLength = 8

type UserService struct {
	userRepo   user.Repository
	pickRepo   pick.Repository
	gameRepo   game.Repository
	boardRepo  leaderboard.Repository
	tbRepo     tiebreaker.Repository
	tbPickRepo tiebreaker.PickRepository
	tx         TxRunner
	tokens     TokenIssuer
	passwords  PasswordManager
	notifier   Notifier
	logger     *logging.Logger
	now        func() time.Time
}

func NewUserService(
	userRepo user.Repository,
	pickRepo pick.Repository,
	gameRepo game.Repository,
	boardRepo leaderboard.Repository,
	tbRepo tiebreaker.Repository,
	tbPickRepo tiebreaker.PickRepository,
	tx TxRunner,
	tokens TokenIssuer,
	passwords PasswordManager,
	notifier Notifier,
	logger *logging.Logger,
) *UserService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &UserService{
		userRepo:   userRepo,
		pickRepo:   pickRepo,
		gameRepo:   gameRepo,
		boardRepo:  boardRepo,
		tbRepo:     tbRepo,
		tbPickRepo: tbPickRepo,
		tx:         tx,
		tokens:     tokens,
		passwords:  passwords,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Password string
	LeagueID string
}

type AuthResult struct {
	User      user.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a member account and logs it straight in. Usernames and
// emails are unique across the pool; the leaderboard row is created up
// front so the new member shows on standings at zero points.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Register")
	defer span.End()

	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)

	if username == "" || email == "" || fullName == "" {
		return AuthResult{}, fmt.Errorf("%w: username, full name and email are required", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return AuthResult{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	var created user.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, taken, err := s.userRepo.GetByUsername(ctx, username); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: username %q is taken", ErrInvalidInput, username)
		}
		if _, taken, err := s.userRepo.GetByEmail(ctx, email); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: email %q is already registered", ErrInvalidInput, email)
		}

		created, err = s.userRepo.Create(ctx, user.User{
			Username:     username,
			FullName:     fullName,
			Email:        email,
			LeagueID:     strings.TrimSpace(input.LeagueID),
			PasswordHash: hash,
			MakePicks:    true,
		})
		if errors.Is(err, user.ErrDuplicate) {
			// A concurrent registration can land between the lookups
			// above and the insert.
			return fmt.Errorf("%w: username or email is already registered", ErrInvalidInput)
		}
		if err != nil {
			return err
		}
		return s.boardRepo.Ensure(ctx, created.ID)
	})
	if err != nil {
		return AuthResult{}, err
	}

	token, expiresAt, err := s.tokens.Issue(created.Username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", "username", created.Username)
	return AuthResult{User: created, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and returns a fresh token. A bad username and
// a bad password fail identically.
func (s *UserService) Login(ctx context.Context, username, password string) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Login")
	defer span.End()

	username = strings.ToLower(strings.TrimSpace(username))
	u, found, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return AuthResult{}, err
	}
	if !found || !s.passwords.Check(u.PasswordHash, password) {
		return AuthResult{}, fmt.Errorf("%w: bad username or password", ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.Issue(u.Username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolvePrincipal maps a verified token subject to the caller identity
// attached to each request.
func (s *UserService) ResolvePrincipal(ctx context.Context, username string) (user.Principal, error) {
	u, found, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return user.Principal{}, err
	}
	if !found {
		return user.Principal{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}
	return user.Principal{
		UserID:    u.ID,
		Username:  u.Username,
		Admin:     u.Admin,
		MakePicks: u.MakePicks,
	}, nil
}

func (s *UserService) Me(ctx context.Context, principal user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Me")
	defer span.End()

	u, found, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return user.User{}, err
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user %d", ErrNotFound, principal.UserID)
	}
	return u, nil
}

// ChangePassword replaces the caller's password after verifying the
// current one.
func (s *UserService) ChangePassword(ctx context.Context, principal user.Principal, current, next string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ChangePassword")
	defer span.End()

	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	u, found, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: user %d", ErrNotFound, principal.UserID)
	}
	if !s.passwords.Check(u.PasswordHash, current) {
		return fmt.Errorf("%w: current password does not match", ErrUnauthorized)
	}

	hash, err := s.passwords.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, u.ID, hash)
}

// ForgotPassword resets the account matching the username and email pair
// to a temporary password and hands it to the notifier for delivery. The
// caller never sees the new password in the response.
func (s *UserService) ForgotPassword(ctx context.Context, username, email string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ForgotPassword")
	defer span.End()

	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	u, found, err := s.userRepo.GetByUsernameAndEmail(ctx, username, email)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: no account matches that username and email", ErrNotFound)
	}

	temp, err := s.passwords.Generate()
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	hash, err := s.passwords.Hash(temp)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}

	if err := s.notifier.PasswordReset(ctx, u.Email, u.Username, temp); err != nil {
		s.logger.ErrorContext(ctx, "password reset delivery failed", "username", u.Username, "error", err)
		return fmt.Errorf("password was reset but could not be delivered: %w", err)
	}
	s.logger.InfoContext(ctx, "password reset issued", "username", u.Username)
	return nil
}

// AdminResetPassword resets a member's password and returns the temporary
// one so the admin can pass it along directly.
func (s *UserService) AdminResetPassword(ctx context.Context, username string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.AdminResetPassword")
	defer span.End()

	u, found, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	temp, err := s.passwords.Generate()
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	hash, err := s.passwords.Hash(temp)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return "", err
	}
	return temp, nil
}

func (s *UserService) SetAdmin(ctx context.Context, username string, admin bool) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.SetAdmin")
	defer span.End()

	u, found, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return user.User{}, err
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if err := s.userRepo.SetAdmin(ctx, u.ID, admin); err != nil {
		return user.User{}, err
	}
	u.Admin = admin
	return u, nil
}

// DeleteUser removes a member. Their picks and leaderboard row go with
// them, so nothing needs resyncing afterwards.
func (s *UserService) DeleteUser(ctx context.Context, principal user.Principal, username string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.DeleteUser")
	defer span.End()

	u, found, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if u.ID == principal.UserID {
		return fmt.Errorf("%w: cannot delete your own account", ErrInvalidInput)
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.boardRepo.Delete(ctx, u.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, u.ID)
	})
}

func (s *UserService) ListMembers(ctx context.Context) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ListMembers")
	defer span.End()

	return s.userRepo.ListPickers(ctx)
}

// MemberPickStatus summarizes one member's progress on the current pick
// week.
type MemberPickStatus struct {
	UserID              int64  `json:"user_id"`
	Username            string `json:"username"`
	FullName            string `json:"full_name"`
	Picked              int    `json:"picked"`
	Total               int    `json:"total"`
	HasLock             bool   `json:"has_lock"`
	TiebreakersAnswered int    `json:"tiebreakers_answered"`
	TiebreakerTotal     int    `json:"tiebreaker_total"`
	Complete            bool   `json:"complete"`
}

// PicksStatus reports, for every picking member, how many of this week's
// games they have picked, whether their lock is placed, and how many of the
// week's tiebreakers they have answered. Members are checked concurrently
// since each needs its own pick lookup.
func (s *UserService) PicksStatus(ctx context.Context) ([]MemberPickStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.PicksStatus")
	defer span.End()

	weekStart, weekEnd := season.Window(s.now())
	games, err := s.gameRepo.ListInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	gameIDs := make(map[int64]struct{}, len(games))
	for _, g := range games {
		gameIDs[g.ID] = struct{}{}
	}

	tiebreakers, err := s.tbRepo.ListInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	tbIDs := make(map[int64]struct{}, len(tiebreakers))
	for _, tb := range tiebreakers {
		tbIDs[tb.ID] = struct{}{}
	}

	members, err := s.userRepo.ListPickers(ctx)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[MemberPickStatus]().
		WithContext(ctx).
		WithMaxGoroutines(statusWorkerCount)
	for _, member := range members {
		m := member
		p.Go(func(ctx context.Context) (MemberPickStatus, error) {
			picks, err := s.pickRepo.ListByUser(ctx, m.ID)
			if err != nil {
				return MemberPickStatus{}, err
			}
			answers, err := s.tbPickRepo.ListByUser(ctx, m.ID)
			if err != nil {
				return MemberPickStatus{}, err
			}

			status := MemberPickStatus{
				UserID:          m.ID,
				Username:        m.Username,
				FullName:        m.FullName,
				Total:           len(gameIDs),
				TiebreakerTotal: len(tbIDs),
			}
			for _, pk := range picks {
				if _, inWeek := gameIDs[pk.GameID]; !inWeek {
					continue
				}
				status.Picked++
				if pk.Locked {
					status.HasLock = true
				}
			}
			for _, a := range answers {
				if _, inWeek := tbIDs[a.TiebreakerID]; inWeek {
					status.TiebreakersAnswered++
				}
			}
			status.Complete = status.Total > 0 && status.Picked == status.Total && status.HasLock &&
				status.TiebreakersAnswered == status.TiebreakerTotal
			return status, nil
		})
	}

	statuses, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Username < statuses[j].Username })
	return statuses, nil
}
