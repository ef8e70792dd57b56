package ipc

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/fission-ai/witgo/internal/logging"
)

// DefaultBasePort is P₀ from spec section 4.8.
const DefaultBasePort = 50505

// FallbackAttempts is the number of ports tried, P₀ through P₀+10
// inclusive (spec sections 4.8 and 6: range [50505, 50515]).
const FallbackAttempts = 11

// AcceptBacklog is the desired accept queue depth. Go's net package does
// not expose a per-listener backlog override without raw syscalls, so this
// constant documents the spec's intent rather than being enforced; the OS
// default backlog (typically much larger than 20) applies instead.
const AcceptBacklog = 20

const connReadTimeout = 1 * time.Second

// Handlers supplies the callbacks the accept loop dispatches to, per spec
// section 4.8. IsRunning reports whether a Process Session is currently
// Running in this instance, which decides REQ_EXEC's accepted flag.
type Handlers struct {
	OnPing    func(bringToFront bool)
	IsRunning func() bool
	OnExec    func(argv []string)
	OnTerm    func()
}

// Server is the loopback-only single-instance IPC server.
type Server struct {
	ln       net.Listener
	port     int
	handlers Handlers
}

// Listen attempts to bind a loopback TCP listener at basePort, falling
// back through basePort+1 .. basePort+(FallbackAttempts-1) if each is
// already in use. If every port is taken, it returns a nil *Server and a
// nil error: the caller proceeds as a standalone, non-singleton instance.
func Listen(basePort int, h Handlers) (*Server, error) {
	for i := 0; i < FallbackAttempts; i++ {
		port := basePort + i
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			continue
		}
		if addr, ok := ln.Addr().(*net.TCPAddr); ok {
			port = addr.Port
		}
		return &Server{ln: ln, port: port, handlers: h}, nil
	}
	return nil, nil
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.port
}

// Serve runs the accept loop until Close is called or a REQ_TERM is
// received. Each connection is read, dispatched, and closed serially;
// high throughput is not a goal (spec section 4.8).
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			// The listener being closed surfaces here as an I/O error; that
			// is the cooperative shutdown signal, not a failure to report.
			return nil
		}
		if s.handleConn(conn) {
			return nil
		}
	}
}

// handleConn processes exactly one request/response exchange and reports
// whether the accept loop should stop afterward (true on REQ_TERM).
func (s *Server) handleConn(conn net.Conn) bool {
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(connReadTimeout))
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		logging.Debugf("ipc: read request: %v", err)
		return false
	}

	rec, err := Decode(line)
	if err != nil {
		logging.Debugf("ipc: decode request: %v", err)
		return false
	}

	switch rec.Type {
	case ReqPing:
		bringToFront := len(rec.Content) > 0 && rec.Content[0] == "true"
		if s.handlers.OnPing != nil {
			s.handlers.OnPing(bringToFront)
		}
		conn.Write(Encode(AckPing))
		return false

	case ReqExec:
		running := s.handlers.IsRunning != nil && s.handlers.IsRunning()
		accepted := !running
		if accepted && len(rec.Content) > 0 && s.handlers.OnExec != nil {
			s.handlers.OnExec(rec.Content)
		}
		conn.Write(Encode(AckExec, boolString(accepted)))
		return false

	case ReqTerm:
		conn.Write(Encode(AckTerm))
		if s.handlers.OnTerm != nil {
			s.handlers.OnTerm()
		}
		return true

	default:
		return false
	}
}

// Close closes the listener, causing a blocked Serve's Accept call to
// return an error that is treated as cooperative shutdown.
func (s *Server) Close() error {
	return s.ln.Close()
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
