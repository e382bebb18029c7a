package logging

import (
	"context"
	"testing"
)

type mirroredRecord struct {
	level Level
	msg   string
	args  []any
}

func TestSetMirrorReceivesRecords(t *testing.T) {
	var records []mirroredRecord
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		records = append(records, mirroredRecord{level: level, msg: msg, args: args})
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := NewNop()
	logger.InfoContext(context.Background(), "pick submitted", "username", "sarah")
	logger.Error("grading failed", "game_id", int64(7))

	if len(records) != 2 {
		t.Fatalf("expected 2 mirrored records, got %d", len(records))
	}
	if records[0].level != LevelInfo || records[0].msg != "pick submitted" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if len(records[0].args) != 2 || records[0].args[1] != "sarah" {
		t.Fatalf("unexpected first record args: %v", records[0].args)
	}
	if records[1].level != LevelError || records[1].msg != "grading failed" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestSetMirrorNilRemovesMirror(t *testing.T) {
	calls := 0
	SetMirror(func(context.Context, Level, string, ...any) { calls++ })
	t.Cleanup(func() { SetMirror(nil) })

	logger := NewNop()
	logger.Info("before removal")
	SetMirror(nil)
	logger.Info("after removal")

	if calls != 1 {
		t.Fatalf("expected 1 mirrored record, got %d", calls)
	}
}
