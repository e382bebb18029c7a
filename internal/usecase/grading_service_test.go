package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spreadpools/pickem-backend/internal/domain/game"
	"github.com/spreadpools/pickem-backend/internal/domain/pick"
	"github.com/spreadpools/pickem-backend/internal/domain/tiebreaker"
	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/infrastructure/repository/memory"
	"github.com/spreadpools/pickem-backend/internal/platform/logging"
)

type gradingFixture struct {
	svc      *GradingService
	games    *memory.GameRepository
	picks    *memory.PickRepository
	tbPicks  *memory.TiebreakerPickRepository
	boards   *memory.LeaderboardRepository
	notifier *recordingNotifier
}

type recordingNotifier struct {
	gradedEvents int
	lastWinner   string
}

func (n *recordingNotifier) PasswordReset(context.Context, string, string, string) error {
	return nil
}

func (n *recordingNotifier) GameGraded(_ context.Context, _, _, winner string, _ int) error {
	n.gradedEvents++
	n.lastWinner = winner
	return nil
}

func newGradingFixture(t *testing.T, games []game.Game, seedPicks []pick.Pick) gradingFixture {
	t.Helper()

	users := memory.NewUserRepository([]user.User{
		{ID: 1, Username: "sarah", FullName: "Sarah Miller", MakePicks: true},
		{ID: 2, Username: "deacon", FullName: "Deacon Hale", MakePicks: true},
	})
	gameRepo := memory.NewGameRepository(games)
	pickRepo := memory.NewPickRepository(gameRepo)
	tbRepo := memory.NewTiebreakerRepository(nil)
	tbPickRepo := memory.NewTiebreakerPickRepository(tbRepo)
	boards := memory.NewLeaderboardRepository(users, pickRepo, tbPickRepo)

	ctx := context.Background()
	for _, p := range seedPicks {
		if _, err := pickRepo.Upsert(ctx, p); err != nil {
			t.Fatalf("seed pick: %v", err)
		}
	}

	notifier := &recordingNotifier{}
	svc := NewGradingService(
		gameRepo, pickRepo, users, tbPickRepo, boards,
		memory.NewTxManager(), notifier, logging.NewNop(),
	)
	return gradingFixture{svc: svc, games: gameRepo, picks: pickRepo, tbPicks: tbPickRepo, boards: boards, notifier: notifier}
}

func TestGradingServiceGradeGame_ScoresPicksAndResyncsBoard(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		[]pick.Pick{
			{UserID: 1, GameID: 10, PickedTeam: "Georgia *", Locked: true},
			{UserID: 2, GameID: 10, PickedTeam: "Clemson"},
		},
	)
	ctx := context.Background()

	g, err := fx.svc.GradeGame(ctx, 10, "Georgia")
	if err != nil {
		t.Fatalf("grade game: %v", err)
	}
	if g.WinningTeam == nil || *g.WinningTeam != "Georgia" {
		t.Fatalf("winner not recorded: %+v", g)
	}

	entry, found, err := fx.boards.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("board entry for winner: found=%v err=%v", found, err)
	}
	if entry.TotalPoints != 2 {
		t.Fatalf("locked winner should have 2 points, got %d", entry.TotalPoints)
	}

	entry, found, err = fx.boards.Get(ctx, 2)
	if err != nil || !found {
		t.Fatalf("board entry for loser: found=%v err=%v", found, err)
	}
	if entry.TotalPoints != 0 {
		t.Fatalf("loser should have 0 points, got %d", entry.TotalPoints)
	}

	if fx.notifier.gradedEvents != 1 || fx.notifier.lastWinner != "Georgia" {
		t.Fatalf("grading should announce the final once: %+v", fx.notifier)
	}
}

func TestGradingServiceGradeGame_PushAwardsNothing(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		[]pick.Pick{{UserID: 1, GameID: 10, PickedTeam: "Georgia *", Locked: true}},
	)
	ctx := context.Background()

	if _, err := fx.svc.GradeGame(ctx, 10, game.ResultPush); err != nil {
		t.Fatalf("grade push: %v", err)
	}

	entry, _, err := fx.boards.Get(ctx, 1)
	if err != nil {
		t.Fatalf("board entry: %v", err)
	}
	if entry.TotalPoints != 0 {
		t.Fatalf("push should award nothing, got %d", entry.TotalPoints)
	}
}

func TestGradingServiceGradeGame_RegradeCorrectsPoints(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		[]pick.Pick{
			{UserID: 1, GameID: 10, PickedTeam: "Georgia *"},
			{UserID: 2, GameID: 10, PickedTeam: "Clemson"},
		},
	)
	ctx := context.Background()

	if _, err := fx.svc.GradeGame(ctx, 10, "Georgia"); err != nil {
		t.Fatalf("first grade: %v", err)
	}
	if _, err := fx.svc.GradeGame(ctx, 10, "Clemson"); err != nil {
		t.Fatalf("regrade: %v", err)
	}

	one, _, err := fx.boards.Get(ctx, 1)
	if err != nil {
		t.Fatalf("board entry: %v", err)
	}
	two, _, err := fx.boards.Get(ctx, 2)
	if err != nil {
		t.Fatalf("board entry: %v", err)
	}
	if one.TotalPoints != 0 || two.TotalPoints != 1 {
		t.Fatalf("regrade should move the point: one=%d two=%d", one.TotalPoints, two.TotalPoints)
	}
}

func TestGradingServiceGradeGame_RejectsUnknownWinner(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		nil,
	)

	_, err := fx.svc.GradeGame(context.Background(), 10, "Alabama")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = fx.svc.GradeGame(context.Background(), 99, "Georgia")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGradingServiceUpdateGame_WinnerChangeRescores(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		[]pick.Pick{{UserID: 1, GameID: 10, PickedTeam: "Clemson"}},
	)
	ctx := context.Background()
	fx.svc.now = func() time.Time { return weekOneSaturday }

	winner := "Clemson"
	if _, err := fx.svc.UpdateGame(ctx, 10, UpdateGameInput{
		HomeTeam:    "Georgia *",
		AwayTeam:    "Clemson",
		Spread:      3.5,
		StartsAt:    weekOneSaturday,
		WinningTeam: &winner,
	}); err != nil {
		t.Fatalf("update game: %v", err)
	}

	entry, _, err := fx.boards.Get(ctx, 1)
	if err != nil {
		t.Fatalf("board entry: %v", err)
	}
	if entry.TotalPoints != 1 {
		t.Fatalf("winner change should rescore: got %d", entry.TotalPoints)
	}
}

func TestGradingServiceDeleteGame_ResyncsEveryone(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		[]pick.Pick{{UserID: 1, GameID: 10, PickedTeam: "Georgia *"}},
	)
	ctx := context.Background()

	if _, err := fx.svc.GradeGame(ctx, 10, "Georgia"); err != nil {
		t.Fatalf("grade game: %v", err)
	}
	if err := fx.svc.DeleteGame(ctx, 10); err != nil {
		t.Fatalf("delete game: %v", err)
	}

	entry, found, err := fx.boards.Get(ctx, 1)
	if err != nil {
		t.Fatalf("board entry: %v", err)
	}
	if found && entry.TotalPoints != 0 {
		t.Fatalf("deleting the game should zero its points, got %d", entry.TotalPoints)
	}
}

func TestGradingServiceAwardTiebreakerPoints(t *testing.T) {
	users := memory.NewUserRepository([]user.User{{ID: 1, Username: "sarah", MakePicks: true}})
	gameRepo := memory.NewGameRepository(nil)
	pickRepo := memory.NewPickRepository(gameRepo)
	tbRepo := memory.NewTiebreakerRepository([]tiebreaker.Tiebreaker{
		{ID: 5, Question: "Total points in the late game?", StartsAt: weekOneSaturday, Active: true},
	})
	tbPickRepo := memory.NewTiebreakerPickRepository(tbRepo)
	boards := memory.NewLeaderboardRepository(users, pickRepo, tbPickRepo)

	ctx := context.Background()
	if _, err := tbPickRepo.Upsert(ctx, tiebreaker.Pick{UserID: 1, TiebreakerID: 5, Answer: "44"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	svc := NewGradingService(gameRepo, pickRepo, users, tbPickRepo, boards, memory.NewTxManager(), nil, logging.NewNop())

	tp, err := svc.AwardTiebreakerPoints(ctx, 1, 5, 0.5)
	if err != nil {
		t.Fatalf("award points: %v", err)
	}
	if tp.PointsAwarded != 0.5 {
		t.Fatalf("unexpected points: %+v", tp)
	}

	_, err = svc.AwardTiebreakerPoints(ctx, 1, 99, 0.5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGradingServiceResyncLeaderboard(t *testing.T) {
	fx := newGradingFixture(t,
		[]game.Game{{ID: 10, HomeTeam: "Georgia *", AwayTeam: "Clemson", StartsAt: weekOneSaturday}},
		[]pick.Pick{{UserID: 1, GameID: 10, PickedTeam: "Georgia *", Locked: true}},
	)
	ctx := context.Background()

	if _, err := fx.svc.GradeGame(ctx, 10, "Georgia"); err != nil {
		t.Fatalf("grade game: %v", err)
	}

	result, err := fx.svc.ResyncLeaderboard(ctx)
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if result.Users != 2 || result.Failed != 0 {
		t.Fatalf("unexpected resync result: %+v", result)
	}

	entry, found, err := fx.boards.Get(ctx, 1)
	if err != nil || !found {
		t.Fatalf("board entry: found=%v err=%v", found, err)
	}
	if entry.TotalPoints != 2 {
		t.Fatalf("resync should keep totals intact, got %d", entry.TotalPoints)
	}
}
