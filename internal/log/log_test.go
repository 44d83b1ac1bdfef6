package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestUseRoutesEntries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Use(zap.New(core))
	defer Use(zap.NewNop())

	Debugw("iteration", "n", 3)
	Warnw("skipped file", "path", "a.AT2")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Message != "skipped file" {
		t.Errorf("message = %q", entries[1].Message)
	}
	if got := entries[0].ContextMap()["n"]; got != int64(3) {
		t.Errorf("field n = %v (%T), want 3", got, got)
	}
}

func TestInit(t *testing.T) {
	if err := Init(true); err != nil {
		t.Fatal(err)
	}
	defer Use(zap.NewNop())
	Debugw("debug logger ready")
}
