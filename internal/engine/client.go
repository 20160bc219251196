package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/skran-dev/sphindex/internal/domain"
)

// Client dials the daemon for every call: connect, handshake, one
// command, read one reply, close. A Client is safe for concurrent use
// because no connection handle outlives a call.
type Client struct {
	addr   string
	dialer net.Dialer
}

// NewClient creates a client for a daemon address.
func NewClient(host string, port int) *Client {
	return &Client{addr: net.JoinHostPort(host, strconv.Itoa(port))}
}

// Addr returns the daemon address the client dials.
func (c *Client) Addr() string { return c.addr }

// Ping checks daemon connectivity by performing the version handshake.
func (c *Client) Ping(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Search performs one blocking search round trip. A daemon-reported
// error fails the call; no matches are decoded in that case.
func (c *Client) Search(ctx context.Context, req *Request) (*Response, error) {
	body, err := encodeSearch(req)
	if err != nil {
		return nil, &Error{Op: OpSearch, Err: err}
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Write(frame(commandSearch, verCommandSearch, body)); err != nil {
		return nil, &Error{Op: OpSearch, Err: fmt.Errorf("write request: %w", err)}
	}

	status, replyBody, err := readReply(conn)
	if err != nil {
		return nil, &Error{Op: OpSearch, Err: err}
	}

	var warning string
	switch status {
	case statusOK:
	case statusWarning:
		r := &reader{data: replyBody}
		warning = r.str("warning")
		if r.err != nil {
			return nil, &Error{Op: OpSearch, Err: r.err}
		}
		replyBody = replyBody[r.pos:]
	case statusError, statusRetry:
		r := &reader{data: replyBody}
		msg := r.str("error")
		if r.err != nil {
			return nil, &Error{Op: OpSearch, Err: r.err}
		}
		return nil, &domain.EngineError{Msg: msg}
	default:
		return nil, &Error{Op: OpSearch, Err: fmt.Errorf("unknown reply status %d", status)}
	}

	resp, err := decodeSearch(replyBody)
	if err != nil {
		return nil, &Error{Op: OpSearch, Err: err}
	}
	resp.Warning = warning
	return resp, nil
}

// connect dials and performs the version handshake. Cancellation is
// the transport's concern: a context deadline is applied to the whole
// connection, nothing more.
func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, &Error{Op: OpConnect, Err: err}
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	var verBuf [4]byte
	if _, err := io.ReadFull(conn, verBuf[:]); err != nil {
		conn.Close()
		return nil, &Error{Op: OpHandshake, Err: fmt.Errorf("read server version: %w", err)}
	}
	if v := binary.BigEndian.Uint32(verBuf[:]); v < clientVersion {
		conn.Close()
		return nil, &Error{Op: OpHandshake, Err: fmt.Errorf("unsupported server protocol version %d", v)}
	}

	binary.BigEndian.PutUint32(verBuf[:], clientVersion)
	if _, err := conn.Write(verBuf[:]); err != nil {
		conn.Close()
		return nil, &Error{Op: OpHandshake, Err: fmt.Errorf("send client version: %w", err)}
	}

	return conn, nil
}

// readReply reads one reply header and its body.
func readReply(conn net.Conn) (status uint16, body []byte, err error) {
	var header [8]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return 0, nil, fmt.Errorf("read reply header: %w", err)
	}

	status = binary.BigEndian.Uint16(header[0:])
	length := binary.BigEndian.Uint32(header[4:])

	body = make([]byte, length)
	if _, err := io.ReadFull(conn, body); err != nil {
		return 0, nil, fmt.Errorf("read reply body: %w", err)
	}
	return status, body, nil
}
