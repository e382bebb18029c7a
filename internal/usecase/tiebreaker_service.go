package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
)

type TiebreakerService struct {
	tbRepo     tiebreaker.Repository
	tbPickRepo tiebreaker.PickRepository
	userRepo   user.Repository
	now        func() time.Time
}

func NewTiebreakerService(
	tbRepo tiebreaker.Repository,
	tbPickRepo tiebreaker.PickRepository,
	userRepo user.Repository,
) *TiebreakerService {
	return &TiebreakerService{
		tbRepo:     tbRepo,
		tbPickRepo: tbPickRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

type CreateTiebreakerInput struct {
	Question string
	StartsAt time.Time
}

func (s *TiebreakerService) Create(ctx context.Context, input CreateTiebreakerInput) (tiebreaker.Tiebreaker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.Create")
	defer span.End()

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if input.StartsAt.IsZero() {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	return s.tbRepo.Create(ctx, tiebreaker.Tiebreaker{
		Question: question,
		StartsAt: input.StartsAt.UTC(),
		Active:   true,
	})
}

func (s *TiebreakerService) List(ctx context.Context, activeOnly bool) ([]tiebreaker.Tiebreaker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.List")
	defer span.End()

	if activeOnly {
		return s.tbRepo.ListActive(ctx)
	}
	return s.tbRepo.List(ctx)
}

func (s *TiebreakerService) Get(ctx context.Context, id int64) (tiebreaker.Tiebreaker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.Get")
	defer span.End()

	tb, found, err := s.tbRepo.GetByID(ctx, id)
	if err != nil {
		return tiebreaker.Tiebreaker{}, err
	}
	if !found {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("%w: tiebreaker %d", ErrNotFound, id)
	}
	return tb, nil
}

// SetAnswer records the real outcome of a tiebreaker question. Accuracy
// against it drives leaderboard tie breaks, so it can be corrected later
// by setting it again.
func (s *TiebreakerService) SetAnswer(ctx context.Context, id int64, answer string) (tiebreaker.Tiebreaker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.SetAnswer")
	defer span.End()

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return tiebreaker.Tiebreaker{}, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	tb, err := s.Get(ctx, id)
	if err != nil {
		return tiebreaker.Tiebreaker{}, err
	}
	tb.Answer = &answer
	return s.tbRepo.Update(ctx, tb)
}

func (s *TiebreakerService) Deactivate(ctx context.Context, id int64) (tiebreaker.Tiebreaker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.Deactivate")
	defer span.End()

	tb, err := s.Get(ctx, id)
	if err != nil {
		return tiebreaker.Tiebreaker{}, err
	}
	tb.Active = false
	return s.tbRepo.Update(ctx, tb)
}

func (s *TiebreakerService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.Delete")
	defer span.End()

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.tbRepo.Delete(ctx, id)
}

// SubmitAnswer records a member's guess. Answers close at the tiebreaker's
// start time, and resubmitting before then replaces the previous guess.
func (s *TiebreakerService) SubmitAnswer(ctx context.Context, principal user.Principal, tiebreakerID int64, answer string) (tiebreaker.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.SubmitAnswer")
	defer span.End()

	if !principal.MakePicks {
		return tiebreaker.Pick{}, fmt.Errorf("%w: user is not allowed to submit picks", ErrForbidden)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return tiebreaker.Pick{}, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	tb, err := s.Get(ctx, tiebreakerID)
	if err != nil {
		return tiebreaker.Pick{}, err
	}
	if !tb.Active {
		return tiebreaker.Pick{}, fmt.Errorf("%w: tiebreaker %d is no longer active", ErrInvalidState, tb.ID)
	}
	if !s.now().UTC().Before(tb.StartsAt) {
		return tiebreaker.Pick{}, fmt.Errorf("%w: tiebreaker %d is closed to answers", ErrInvalidState, tb.ID)
	}

	return s.tbPickRepo.Upsert(ctx, tiebreaker.Pick{
		UserID:       principal.UserID,
		TiebreakerID: tb.ID,
		Answer:       answer,
	})
}

// TiebreakerAnswerView is one member's answer on a tiebreaker.
type TiebreakerAnswerView struct {
	UserID        int64   `json:"user_id"`
	Username      string  `json:"username"`
	FullName      string  `json:"full_name"`
	Answer        string  `json:"answer"`
	PointsAwarded float64 `json:"points_awarded"`
}

// Answers returns everyone's answers on a tiebreaker. Non-admins can only
// look once the question has closed.
func (s *TiebreakerService) Answers(ctx context.Context, principal user.Principal, tiebreakerID int64) (tiebreaker.Tiebreaker, []TiebreakerAnswerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.Answers")
	defer span.End()

	tb, err := s.Get(ctx, tiebreakerID)
	if err != nil {
		return tiebreaker.Tiebreaker{}, nil, err
	}
	if !principal.Admin && s.now().UTC().Before(tb.StartsAt) {
		return tiebreaker.Tiebreaker{}, nil, fmt.Errorf("%w: answers are hidden until the tiebreaker closes", ErrInvalidState)
	}

	answers, err := s.tbPickRepo.ListByTiebreaker(ctx, tb.ID)
	if err != nil {
		return tiebreaker.Tiebreaker{}, nil, err
	}
	pickers, err := s.userRepo.ListPickers(ctx)
	if err != nil {
		return tiebreaker.Tiebreaker{}, nil, err
	}
	byUser := make(map[int64]user.User, len(pickers))
	for _, u := range pickers {
		byUser[u.ID] = u
	}

	views := make([]TiebreakerAnswerView, 0, len(answers))
	for _, a := range answers {
		u, ok := byUser[a.UserID]
		if !ok {
			continue
		}
		views = append(views, TiebreakerAnswerView{
			UserID:        a.UserID,
			Username:      u.Username,
			FullName:      u.FullName,
			Answer:        a.Answer,
			PointsAwarded: a.PointsAwarded,
		})
	}
	return tb, views, nil
}

// TiebreakerPickView pairs a tiebreaker with the viewer's own answer.
type TiebreakerPickView struct {
	Tiebreaker tiebreaker.Tiebreaker
	Answer     *tiebreaker.Pick
}

// MyAnswers returns every active tiebreaker with the caller's answer on it.
func (s *TiebreakerService) MyAnswers(ctx context.Context, principal user.Principal) ([]TiebreakerPickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakerService.MyAnswers")
	defer span.End()

	tbs, err := s.tbRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	answers, err := s.tbPickRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	byTiebreaker := make(map[int64]tiebreaker.Pick, len(answers))
	for _, a := range answers {
		byTiebreaker[a.TiebreakerID] = a
	}

	out := make([]TiebreakerPickView, 0, len(tbs))
	for _, tb := range tbs {
		view := TiebreakerPickView{Tiebreaker: tb}
		if a, ok := byTiebreaker[tb.ID]; ok {
			answerCopy := a
			view.Answer = &answerCopy
		}
		out = append(out, view)
	}
	return out, nil
}
