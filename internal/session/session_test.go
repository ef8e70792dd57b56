package session

import (
	"context"
	"testing"
	"time"

	"github.com/fission-ai/witgo/internal/witerr"
)

func TestSessionOutputOrdering(t *testing.T) {
	s, err := New("", []string{"sh", "-c", "printf 'abc'; printf 'def'"}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got []byte
	done := make(chan struct{})
	s.OnOutput(func(b []byte) { got = append(got, b...) })
	s.OnTerminated(func() { close(done) })

	exitCh, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Terminated")
	}

	res := <-exitCh
	if res.Err != nil {
		t.Fatalf("unexpected spawn/wait error: %v", res.Err)
	}
	if res.Code != 0 {
		t.Fatalf("expected exit code 0, got %d", res.Code)
	}
	if string(got) != "abcdef" {
		t.Fatalf("output events out of order or incomplete: got %q", got)
	}
	if string(s.GetOutput()) != "abcdef" {
		t.Fatalf("GetOutput mismatch: got %q", s.GetOutput())
	}
}

func TestSessionExitCode(t *testing.T) {
	s, err := New("", []string{"sh", "-c", "exit 7"}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	exitCh, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case res := <-exitCh:
		if res.Code != 7 {
			t.Fatalf("expected exit code 7, got %d", res.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for exit")
	}
}

func TestSessionSingleShot(t *testing.T) {
	s, err := New("", []string{"sh", "-c", "true"}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := s.Start(context.Background()); err == nil || !witerr.Is(err, witerr.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestSessionInvalidArguments(t *testing.T) {
	if _, err := New("", nil, false); !witerr.Is(err, witerr.ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments for empty argv, got %v", err)
	}
	if _, err := New("", []string{""}, false); !witerr.Is(err, witerr.ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments for empty argv[0], got %v", err)
	}
}

func TestSessionSendInputAfterTerminationIsNoop(t *testing.T) {
	s, err := New("", []string{"sh", "-c", "exit 0"}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	done := make(chan struct{})
	s.OnTerminated(func() { close(done) })
	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Terminated")
	}
	// Must not panic or block.
	s.SendInput([]byte("too late\n"))
}

func TestSessionInputOrdering(t *testing.T) {
	s, err := New("", []string{"cat"}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var got []byte
	done := make(chan struct{})
	s.OnOutput(func(b []byte) { got = append(got, b...) })
	s.OnTerminated(func() { close(done) })

	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.SendInput([]byte("hello "))
	s.SendInput([]byte("world\n"))
	time.Sleep(200 * time.Millisecond)
	if err := s.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Terminated")
	}

	if string(got) != "hello world\n" {
		t.Fatalf("expected echoed input in enqueue order, got %q", got)
	}
}
