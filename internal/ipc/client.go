package ipc

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/fission-ai/witgo/internal/witerr"
)

const dialTimeout = 500 * time.Millisecond

// Client probes a single port for a running server and, on success, sends
// exactly one request and reads one response before closing (spec section
// 4.9). A connection failure (port unbound, refused) is reported as "no
// server present", distinct from a Timeout on a connection that was
// accepted but did not answer in time.
type Client struct {
	addr string
}

// NewClient targets 127.0.0.1:port.
func NewClient(port int) *Client {
	return &Client{addr: fmt.Sprintf("127.0.0.1:%d", port)}
}

func (c *Client) roundTrip(req []byte) (Record, bool, error) {
	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
	if err != nil {
		return Record{}, false, nil // no server present
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(connReadTimeout))
	if _, err := conn.Write(req); err != nil {
		return Record{}, false, nil
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		if len(line) == 0 {
			return Record{}, false, fmt.Errorf("%w: no response from %s", witerr.ErrTimeout, c.addr)
		}
	}
	rec, err := Decode(line)
	if err != nil {
		return Record{}, true, err
	}
	return rec, true, nil
}

// Ping sends REQ_PING and reports whether ACK_PING was received. present
// is false when no server is listening; ok distinguishes a protocol error
// from a clean ACK.
func (c *Client) Ping(bringToFront bool) (present, ok bool, err error) {
	rec, present, err := c.roundTrip(Encode(ReqPing, boolString(bringToFront)))
	if err != nil || !present {
		return present, false, err
	}
	return true, rec.Type == AckPing, nil
}

// Execute sends REQ_EXEC with argv and reports whether the existing
// instance accepted it.
func (c *Client) Execute(argv []string) (present, accepted bool, err error) {
	rec, present, err := c.roundTrip(Encode(ReqExec, argv...))
	if err != nil || !present {
		return present, false, err
	}
	if rec.Type != AckExec || len(rec.Content) < 1 {
		return true, false, fmt.Errorf("%w: malformed ACK_EXEC", witerr.ErrInvalidFraming)
	}
	return true, rec.Content[0] == "true", nil
}

// Terminate sends REQ_TERM and reports whether ACK_TERM was received.
func (c *Client) Terminate() (present, ok bool, err error) {
	rec, present, err := c.roundTrip(Encode(ReqTerm))
	if err != nil || !present {
		return present, false, err
	}
	return true, rec.Type == AckTerm, nil
}
