package cli

import "testing"

func TestPrepareHelpArgvAppendsFlag(t *testing.T) {
	got := prepareHelpArgv([]string{"--help"})
	if len(got) != 2 || got[1] != "--no-exit-pause" {
		t.Fatalf("unexpected argv: %v", got)
	}
}

func TestPrepareHelpArgvIsIdempotent(t *testing.T) {
	got := prepareHelpArgv([]string{"--help", "--no-exit-pause"})
	if len(got) != 2 {
		t.Fatalf("expected no duplicate flag, got %v", got)
	}
}
