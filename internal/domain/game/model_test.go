package game

import (
	"testing"
	"time"
)

func TestNormalizeTeam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Georgia", "Georgia"},
		{"Georgia *", "Georgia"},
		{"  Georgia * ", "Georgia"},
		{"Georgia*", "Georgia*"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeTeam(tc.in); got != tc.want {
			t.Fatalf("NormalizeTeam(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidWinner(t *testing.T) {
	g := Game{HomeTeam: "Georgia *", AwayTeam: "Alabama"}

	for _, winner := range []string{"Georgia", "Georgia *", "Alabama", "PUSH", "push", ""} {
		if !g.ValidWinner(winner) {
			t.Fatalf("ValidWinner(%q) = false, want true", winner)
		}
	}
	if g.ValidWinner("Auburn") {
		t.Fatal("ValidWinner should reject a team not in the game")
	}
}

func TestStarted(t *testing.T) {
	kickoff := time.Date(2025, 9, 6, 20, 0, 0, 0, time.UTC)
	g := Game{StartsAt: kickoff}

	if g.Started(kickoff.Add(-time.Minute)) {
		t.Fatal("game should not be started before kickoff")
	}
	if !g.Started(kickoff) {
		t.Fatal("game should be started at kickoff")
	}
	if !g.Started(kickoff.Add(time.Hour)) {
		t.Fatal("game should be started after kickoff")
	}
}
