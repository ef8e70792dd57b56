// Package session implements the Process Session (spec section 4.4): it
// owns a child process, the raw output buffer, the output consumer and
// input producer goroutines, and fires lifecycle/output events to
// observers. Grounded on the teacher's internal/runner package (process
// groups, clean environments); the two output drain goroutines are
// coordinated with golang.org/x/sync/errgroup, promoted here from an
// indirect dependency of the teacher's own toolchain to a direct one.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fission-ai/witgo/internal/env"
	"github.com/fission-ai/witgo/internal/witerr"
)

// localeExcludePrefixes strips the child's locale environment so its own
// text encoding guesses don't drift from the charset this package decodes
// output with (spec section 4.3 picks the charset explicitly, not via LANG).
var localeExcludePrefixes = []string{"LANG=", "LC_ALL=", "LC_CTYPE=", "LC_MESSAGES="}

// State is the Process Session state machine of spec section 3.
type State int

const (
	Idle State = iota
	Starting
	Running
	Terminated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Session is a single-shot owner of one child process. A Session that has
// reached Terminated or Failed may not be restarted; construct a new one.
type Session struct {
	workingDir    string
	argv          []string
	includeStderr bool

	mu    sync.Mutex
	state State
	cmd   *exec.Cmd

	buf   *RawBuffer
	exec  *executor
	input *inputProducer

	observersMu  sync.Mutex
	onStarted    []func()
	onOutput     []func([]byte)
	onTerminated []func()

	exitCh chan ExitResult
}

// ExitResult is the outcome delivered on Start's channel: either the
// child's exit code, or an error from waiting on the child that is not a
// non-zero exit. Spawn-time errors are not delivered here; Start returns
// them directly.
type ExitResult struct {
	Code int
	Err  error
}

// New constructs a Session in the Idle state. workingDir may be empty to
// inherit the caller's working directory. argv must be non-empty with a
// non-empty first element.
func New(workingDir string, argv []string, includeStderr bool) (*Session, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("%w: argv must have a non-empty first element", witerr.ErrInvalidArguments)
	}
	return &Session{
		workingDir:    workingDir,
		argv:          append([]string{}, argv...),
		includeStderr: includeStderr,
		state:         Idle,
		buf:           &RawBuffer{},
		exitCh:        make(chan ExitResult, 1),
	}, nil
}

// OnStarted registers an observer fired once the child is running and the
// I/O tasks are live.
func (s *Session) OnStarted(fn func()) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.onStarted = append(s.onStarted, fn)
}

// OnOutput registers an observer fired once per drained output chunk, in
// byte-offset order.
func (s *Session) OnOutput(fn func([]byte)) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.onOutput = append(s.onOutput, fn)
}

// OnTerminated registers an observer fired after the child's exit has been
// observed and the final drain has completed.
func (s *Session) OnTerminated(fn func()) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.onTerminated = append(s.onTerminated, fn)
}

func (s *Session) fireStarted() {
	s.observersMu.Lock()
	snapshot := append([]func(){}, s.onStarted...)
	s.observersMu.Unlock()
	for _, fn := range snapshot {
		fn()
	}
}

func (s *Session) fireOutput(b []byte) {
	s.observersMu.Lock()
	snapshot := append([]func([]byte){}, s.onOutput...)
	s.observersMu.Unlock()
	for _, fn := range snapshot {
		fn(b)
	}
}

func (s *Session) fireTerminated() {
	s.observersMu.Lock()
	snapshot := append([]func(){}, s.onTerminated...)
	s.observersMu.Unlock()
	for _, fn := range snapshot {
		fn()
	}
}

// IsStarted reports whether Start has been called (in any outcome).
func (s *Session) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Idle
}

// IsRunning reports whether the child process is currently running.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Running || s.state == Starting
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start spawns the child process and starts the output/input tasks. It
// returns a channel that receives exactly one ExitResult when the process
// terminates. A spawn failure is not sent on a channel: Start returns it
// as its error (wrapping witerr.ErrSpawnFailed), with a nil channel, and
// the session moves to Failed.
func (s *Session) Start(ctx context.Context) (<-chan ExitResult, error) {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w", witerr.ErrAlreadyStarted)
	}
	s.state = Starting
	s.mu.Unlock()

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Dir = s.workingDir
	cmd.Env = env.FilterByPrefixes(localeExcludePrefixes...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		s.fail()
		return nil, fmt.Errorf("%w: %v", witerr.ErrSpawnFailed, err)
	}
	var stderrPipe io.Reader
	if s.includeStderr {
		p, err := cmd.StderrPipe()
		if err != nil {
			s.fail()
			return nil, fmt.Errorf("%w: %v", witerr.ErrSpawnFailed, err)
		}
		stderrPipe = p
	}
	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		s.fail()
		return nil, fmt.Errorf("%w: %v", witerr.ErrSpawnFailed, err)
	}

	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		s.fail()
		return nil, fmt.Errorf("%w: %v", witerr.ErrSpawnFailed, err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.state = Running
	s.mu.Unlock()

	s.exec = newExecutor()
	s.input = newInputProducer(bufio.NewWriter(stdinPipe))
	go s.input.run()

	out := newOutputConsumer(stdoutPipe, s.buf, s.exec, s.fireOutput)
	var errOut *outputConsumer
	if stderrPipe != nil {
		errOut = newOutputConsumer(stderrPipe, s.buf, s.exec, s.fireOutput)
	}

	// fireStarted must be enqueued on the executor before either drain
	// goroutine is launched: the executor is a single-threaded FIFO, and a
	// goroutine's "go" statement happens-after everything the launching
	// goroutine did first, so this ordering is what gives spec section 5's
	// happens-before edge between Started and the first Output.
	s.exec.submit(s.fireStarted)

	var drainGroup errgroup.Group
	drainGroup.Go(func() error { out.run(); return nil })
	if errOut != nil {
		drainGroup.Go(func() error { errOut.run(); return nil })
	}

	go func() {
		_ = drainGroup.Wait()
		waitErr := cmd.Wait()
		s.input.Shutdown()

		code := 0
		var resultErr error
		if waitErr != nil {
			var exitErr *exec.ExitError
			if errors.As(waitErr, &exitErr) {
				code = exitErr.ExitCode()
			} else {
				resultErr = waitErr
			}
		}

		s.mu.Lock()
		s.state = Terminated
		s.mu.Unlock()

		done := make(chan struct{})
		s.exec.submit(func() {
			s.fireTerminated()
			close(done)
		})
		<-done
		s.exec.Stop()

		s.exitCh <- ExitResult{Code: code, Err: resultErr}
		close(s.exitCh)
	}()

	return s.exitCh, nil
}

func (s *Session) fail() {
	s.mu.Lock()
	s.state = Failed
	s.mu.Unlock()
}

// SendInput enqueues bytes for delivery to the child's stdin. Silently
// discarded if the session has not started or has already terminated.
func (s *Session) SendInput(b []byte) {
	s.mu.Lock()
	in := s.input
	running := s.state == Running || s.state == Starting
	s.mu.Unlock()
	if in == nil || !running {
		return
	}
	in.sendInput(b)
}

// GetOutput returns a snapshot copy of the raw output buffer.
func (s *Session) GetOutput() []byte {
	return s.buf.Snapshot()
}

// Kill force-terminates the child. The caller still observes Terminated
// once the OS confirms the exit; Kill does not itself fire that event.
func (s *Session) Kill() error {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return killProcessTree(cmd)
}
