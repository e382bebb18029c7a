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
	"github.com/spreadpools/pickem-backend/internal/platform/cache"
)

type boardFixture struct {
	svc     *LeaderboardService
	games   *memory.GameRepository
	picks   *memory.PickRepository
	tbRepo  *memory.TiebreakerRepository
	tbPicks *memory.TiebreakerPickRepository
}

func newBoardFixture(t *testing.T, games []game.Game, tbs []tiebreaker.Tiebreaker) boardFixture {
	t.Helper()

	users := memory.NewUserRepository([]user.User{
		{ID: 1, Username: "sarah", FullName: "Sarah Miller", MakePicks: true},
		{ID: 2, Username: "deacon", FullName: "Deacon Hale", MakePicks: true},
	})
	gameRepo := memory.NewGameRepository(games)
	pickRepo := memory.NewPickRepository(gameRepo)
	tbRepo := memory.NewTiebreakerRepository(tbs)
	tbPickRepo := memory.NewTiebreakerPickRepository(tbRepo)

	svc := NewLeaderboardService(users, gameRepo, pickRepo, tbRepo, tbPickRepo, cache.NewStore(time.Minute))
	return boardFixture{svc: svc, games: gameRepo, picks: pickRepo, tbRepo: tbRepo, tbPicks: tbPickRepo}
}

func (fx boardFixture) seedGradedPick(t *testing.T, userID, gameID int64, team string, locked bool, points int) {
	t.Helper()

	p, err := fx.picks.Upsert(context.Background(), pick.Pick{
		UserID: userID, GameID: gameID, PickedTeam: team, Locked: locked,
	})
	if err != nil {
		t.Fatalf("seed pick: %v", err)
	}
	if err := fx.picks.SetPoints(context.Background(), p.ID, points); err != nil {
		t.Fatalf("seed points: %v", err)
	}
}

func gradedGame(id int64, startsAt time.Time, winner string) game.Game {
	return game.Game{
		ID: id, HomeTeam: "Georgia *", AwayTeam: "Clemson",
		StartsAt: startsAt, WinningTeam: &winner,
	}
}

func TestLeaderboardStandings_OrdersByPointsThenLocks(t *testing.T) {
	fx := newBoardFixture(t, []game.Game{
		gradedGame(10, weekOneSaturday, "Georgia"),
		gradedGame(11, weekOneSunday, "Clemson"),
	}, nil)

	// Both members hold 2 points, but sarah's came from a lock.
	fx.seedGradedPick(t, 1, 10, "Georgia *", true, 2)
	fx.seedGradedPick(t, 2, 10, "Georgia *", false, 1)
	fx.seedGradedPick(t, 2, 11, "Clemson", false, 1)

	standings, err := fx.svc.Standings(context.Background(), "")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(standings))
	}
	if standings[0].Username != "sarah" || standings[0].Rank != 1 {
		t.Fatalf("lock should break the tie for sarah: %+v", standings)
	}
	if standings[0].CorrectLocks != 1 || standings[1].CorrectLocks != 0 {
		t.Fatalf("unexpected lock counts: %+v", standings)
	}
}

func TestLeaderboardStandings_TiebreakerDiffsBreakTies(t *testing.T) {
	answer := "44"
	fx := newBoardFixture(t,
		[]game.Game{gradedGame(10, weekOneSaturday, "Georgia")},
		[]tiebreaker.Tiebreaker{{
			ID: 5, Question: "Total points in the late game?",
			StartsAt: weekOneSaturday, Answer: &answer, Active: true,
		}},
	)

	fx.seedGradedPick(t, 1, 10, "Georgia *", false, 1)
	fx.seedGradedPick(t, 2, 10, "Georgia *", false, 1)

	ctx := context.Background()
	if _, err := fx.tbPicks.Upsert(ctx, tiebreaker.Pick{UserID: 1, TiebreakerID: 5, Answer: "50"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}
	if _, err := fx.tbPicks.Upsert(ctx, tiebreaker.Pick{UserID: 2, TiebreakerID: 5, Answer: "43"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	standings, err := fx.svc.Standings(ctx, "")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if standings[0].Username != "deacon" {
		t.Fatalf("closer tiebreaker answer should rank first: %+v", standings)
	}
	if len(standings[0].TiebreakerDiffs) != 1 || standings[0].TiebreakerDiffs[0] != 1 {
		t.Fatalf("unexpected diffs: %+v", standings[0].TiebreakerDiffs)
	}
}

func TestLeaderboardStandings_UngradedTiebreakerPointsCount(t *testing.T) {
	fx := newBoardFixture(t,
		[]game.Game{gradedGame(10, weekOneSaturday, "Georgia")},
		[]tiebreaker.Tiebreaker{{
			ID: 5, Question: "Total points in the late game?",
			StartsAt: weekOneSaturday, Active: true,
		}},
	)

	fx.seedGradedPick(t, 1, 10, "Georgia *", false, 1)
	fx.seedGradedPick(t, 2, 10, "Georgia *", false, 1)

	// Points handed out before the question is graded still count.
	ctx := context.Background()
	if _, err := fx.tbPicks.Upsert(ctx, tiebreaker.Pick{UserID: 2, TiebreakerID: 5, Answer: "43"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}
	if _, _, err := fx.tbPicks.SetPoints(ctx, 2, 5, 1.5); err != nil {
		t.Fatalf("seed tiebreaker points: %v", err)
	}

	standings, err := fx.svc.Standings(ctx, "")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if standings[0].Username != "deacon" || standings[0].TotalPoints != 2.5 {
		t.Fatalf("ungraded tiebreaker points should show in totals: %+v", standings)
	}
	if len(standings[0].TiebreakerDiffs) != 0 {
		t.Fatalf("ungraded question should not produce diffs: %+v", standings[0].TiebreakerDiffs)
	}
}

func TestLeaderboardStandings_MissingAnswerSortsLast(t *testing.T) {
	answer := "44"
	fx := newBoardFixture(t,
		[]game.Game{gradedGame(10, weekOneSaturday, "Georgia")},
		[]tiebreaker.Tiebreaker{{
			ID: 5, Question: "Total points in the late game?",
			StartsAt: weekOneSaturday, Answer: &answer, Active: true,
		}},
	)

	fx.seedGradedPick(t, 1, 10, "Georgia *", false, 1)
	fx.seedGradedPick(t, 2, 10, "Georgia *", false, 1)

	ctx := context.Background()
	// Only deacon answered, with a terrible guess. Sarah answered nothing.
	if _, err := fx.tbPicks.Upsert(ctx, tiebreaker.Pick{UserID: 2, TiebreakerID: 5, Answer: "500"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	standings, err := fx.svc.Standings(ctx, "")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if standings[0].Username != "deacon" {
		t.Fatalf("any answer should beat no answer: %+v", standings)
	}
	if standings[1].TiebreakerDiffs[0] != tiebreaker.MissingAnswerDiff {
		t.Fatalf("missing answer should carry the sentinel diff: %+v", standings[1].TiebreakerDiffs)
	}
}

func TestLeaderboardStandings_WeekFilterScopesResults(t *testing.T) {
	fx := newBoardFixture(t, []game.Game{
		gradedGame(10, weekOneSaturday, "Georgia"),
		gradedGame(12, weekTwoSaturday, "Georgia"),
	}, nil)

	fx.seedGradedPick(t, 1, 10, "Georgia *", false, 1)
	fx.seedGradedPick(t, 2, 12, "Georgia *", false, 1)

	standings, err := fx.svc.Standings(context.Background(), "cfb_week_2_nfl_week_1")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	var sarah, deacon float64
	for _, s := range standings {
		switch s.Username {
		case "sarah":
			sarah = s.TotalPoints
		case "deacon":
			deacon = s.TotalPoints
		}
	}
	if sarah != 1 || deacon != 0 {
		t.Fatalf("week filter should scope points: sarah=%v deacon=%v", sarah, deacon)
	}
}

func TestLeaderboardStandings_UnknownFilter(t *testing.T) {
	fx := newBoardFixture(t, nil, nil)

	_, err := fx.svc.Standings(context.Background(), "nfl_week_99")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeaderboardWeeks_OnlyFiltersWithGames(t *testing.T) {
	fx := newBoardFixture(t, []game.Game{
		gradedGame(10, weekOneSaturday, "Georgia"),
	}, nil)

	weeks, err := fx.svc.Weeks(context.Background())
	if err != nil {
		t.Fatalf("weeks: %v", err)
	}

	keys := make(map[string]bool, len(weeks))
	for _, w := range weeks {
		keys[w.Key] = true
	}
	if !keys["overall"] {
		t.Fatalf("overall should always be present: %v", keys)
	}
	if !keys["cfb_week_2_nfl_week_1"] {
		t.Fatalf("the week holding the game should be present: %v", keys)
	}
	if keys["cfb_week_3_nfl_week_2"] {
		t.Fatalf("empty weeks should be absent: %v", keys)
	}
}
