package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/repository/memory"
)

func newTiebreakerFixture(t *testing.T, tbs []tiebreaker.Tiebreaker) *TiebreakerService {
	t.Helper()

	users := memory.NewUserRepository([]user.User{
		{ID: 1, Username: "sarah", FullName: "Sarah Miller", MakePicks: true},
	})
	tbRepo := memory.NewTiebreakerRepository(tbs)
	tbPickRepo := memory.NewTiebreakerPickRepository(tbRepo)
	return NewTiebreakerService(tbRepo, tbPickRepo, users)
}

func TestTiebreakerServiceSubmitAnswer(t *testing.T) {
	svc := newTiebreakerFixture(t, []tiebreaker.Tiebreaker{
		{ID: 5, Question: "Total points in the late game?", StartsAt: weekOneSaturday, Active: true},
	})
	svc.now = func() time.Time { return weekOneSaturday.Add(-time.Hour) }
	ctx := context.Background()

	tp, err := svc.SubmitAnswer(ctx, picker(), 5, "44")
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if tp.Answer != "44" {
		t.Fatalf("unexpected answer: %+v", tp)
	}

	// Replacing the guess before the question closes is allowed.
	tp, err = svc.SubmitAnswer(ctx, picker(), 5, "51")
	if err != nil {
		t.Fatalf("replace answer: %v", err)
	}
	if tp.Answer != "51" {
		t.Fatalf("unexpected replaced answer: %+v", tp)
	}
}

func TestTiebreakerServiceSubmitAnswer_ClosedAfterStart(t *testing.T) {
	svc := newTiebreakerFixture(t, []tiebreaker.Tiebreaker{
		{ID: 5, Question: "Total points in the late game?", StartsAt: weekOneSaturday, Active: true},
	})
	svc.now = func() time.Time { return weekOneSaturday }

	_, err := svc.SubmitAnswer(context.Background(), picker(), 5, "44")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestTiebreakerServiceSubmitAnswer_InactiveRejected(t *testing.T) {
	svc := newTiebreakerFixture(t, []tiebreaker.Tiebreaker{
		{ID: 5, Question: "Retired question", StartsAt: weekOneSaturday, Active: false},
	})
	svc.now = func() time.Time { return weekOneSaturday.Add(-time.Hour) }

	_, err := svc.SubmitAnswer(context.Background(), picker(), 5, "44")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestTiebreakerServiceAnswers_HiddenUntilClosed(t *testing.T) {
	svc := newTiebreakerFixture(t, []tiebreaker.Tiebreaker{
		{ID: 5, Question: "Total points in the late game?", StartsAt: weekOneSaturday, Active: true},
	})
	ctx := context.Background()

	svc.now = func() time.Time { return weekOneSaturday.Add(-time.Hour) }
	if _, err := svc.SubmitAnswer(ctx, picker(), 5, "44"); err != nil {
		t.Fatalf("submit answer: %v", err)
	}

	_, _, err := svc.Answers(ctx, picker(), 5)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState before close, got %v", err)
	}

	// Admins can peek early.
	admin := user.Principal{UserID: 99, Username: "commish", Admin: true}
	_, views, err := svc.Answers(ctx, admin, 5)
	if err != nil {
		t.Fatalf("admin answers: %v", err)
	}
	if len(views) != 1 || views[0].Answer != "44" {
		t.Fatalf("unexpected views: %+v", views)
	}

	svc.now = func() time.Time { return weekOneSaturday.Add(time.Hour) }
	_, views, err = svc.Answers(ctx, picker(), 5)
	if err != nil {
		t.Fatalf("answers after close: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("unexpected views after close: %+v", views)
	}
}

func TestTiebreakerServiceSetAnswer(t *testing.T) {
	svc := newTiebreakerFixture(t, []tiebreaker.Tiebreaker{
		{ID: 5, Question: "Total points in the late game?", StartsAt: weekOneSaturday, Active: true},
	})
	ctx := context.Background()

	tb, err := svc.SetAnswer(ctx, 5, "44")
	if err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if tb.Answer == nil || *tb.Answer != "44" {
		t.Fatalf("answer not stored: %+v", tb)
	}

	// Correcting the call later is the same operation again.
	tb, err = svc.SetAnswer(ctx, 5, "47")
	if err != nil {
		t.Fatalf("correct answer: %v", err)
	}
	if *tb.Answer != "47" {
		t.Fatalf("answer not corrected: %+v", tb)
	}

	_, err = svc.SetAnswer(ctx, 99, "44")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTiebreakerServiceMyAnswers(t *testing.T) {
	svc := newTiebreakerFixture(t, []tiebreaker.Tiebreaker{
		{ID: 5, Question: "Total points in the late game?", StartsAt: weekOneSaturday, Active: true},
		{ID: 6, Question: "Longest field goal?", StartsAt: weekOneSunday, Active: true},
	})
	svc.now = func() time.Time { return weekOneSaturday.Add(-time.Hour) }
	ctx := context.Background()

	if _, err := svc.SubmitAnswer(ctx, picker(), 5, "44"); err != nil {
		t.Fatalf("submit answer: %v", err)
	}

	views, err := svc.MyAnswers(ctx, picker())
	if err != nil {
		t.Fatalf("my answers: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected both active tiebreakers, got %d", len(views))
	}
	var answered, unanswered int
	for _, v := range views {
		if v.Answer != nil {
			answered++
		} else {
			unanswered++
		}
	}
	if answered != 1 || unanswered != 1 {
		t.Fatalf("unexpected answer split: %+v", views)
	}
}
