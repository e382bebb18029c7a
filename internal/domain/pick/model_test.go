package pick

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		picked string
		winner string
		locked bool
		want   int
	}{
		{name: "correct pick", picked: "Georgia", winner: "Georgia", want: 1},
		{name: "correct locked pick", picked: "Georgia", winner: "Georgia", locked: true, want: 2},
		{name: "wrong pick", picked: "Alabama", winner: "Georgia", want: 0},
		{name: "wrong locked pick", picked: "Alabama", winner: "Georgia", locked: true, want: 0},
		{name: "push zeroes everyone", picked: "Georgia", winner: "PUSH", locked: true, want: 0},
		{name: "push lowercase", picked: "Georgia", winner: "push", want: 0},
		{name: "ungraded game", picked: "Georgia", winner: "", locked: true, want: 0},
		{name: "favorite marker stripped from pick", picked: "Georgia *", winner: "Georgia", want: 1},
		{name: "favorite marker stripped from winner", picked: "Georgia", winner: "Georgia *", locked: true, want: 2},
		{name: "surrounding whitespace", picked: "  Georgia ", winner: "Georgia", want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.picked, tc.winner, tc.locked); got != tc.want {
				t.Fatalf("Score(%q, %q, %v) = %d, want %d", tc.picked, tc.winner, tc.locked, got, tc.want)
			}
		})
	}
}
