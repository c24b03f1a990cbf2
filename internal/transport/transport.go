// Package transport owns a single TCP (or Unix) connection to a RESP
// server: a synchronous execute, and the sendOnly/readOne split that
// the pipeline and subscription paths need. Transport is not
// thread-safe; callers serialize access to one Transport themselves.
package transport

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// Options configures a Transport's buffering and size limits.
type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxReplySize    int64 // 0 defaults to resp.DefaultMaxReplySize
	DialTimeout     time.Duration
}

// DefaultOptions returns sane buffer sizes, mirroring the teacher's
// internal/server/config.go defaults.
func DefaultOptions() Options {
	return Options{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		MaxReplySize:    resp.DefaultMaxReplySize,
		DialTimeout:     5 * time.Second,
	}
}

// Transport wraps one net.Conn plus a buffered reader/writer and a
// stateless RESP decoder.
type Transport struct {
	conn    net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	decoder *resp.Decoder
	closed  bool
}

// Dial opens network (e.g. "tcp" or "unix") to addr and wraps it.
func Dial(ctx context.Context, network, addr string, opts Options) (*Transport, error) {
	d := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ConnectionLost, "dial "+addr, err)
	}
	return New(conn, opts), nil
}

// New wraps an already-established connection.
func New(conn net.Conn, opts Options) *Transport {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = DefaultOptions().ReadBufferSize
	}
	if opts.WriteBufferSize <= 0 {
		opts.WriteBufferSize = DefaultOptions().WriteBufferSize
	}
	reader := bufio.NewReaderSize(conn, opts.ReadBufferSize)
	return &Transport{
		conn:    conn,
		reader:  reader,
		writer:  bufio.NewWriterSize(conn, opts.WriteBufferSize),
		decoder: resp.NewDecoder(reader, opts.MaxReplySize),
	}
}

// Execute sends cmd and blocks for exactly one reply.
func (t *Transport) Execute(cmd resp.Command) (resp.Reply, error) {
	if err := t.SendOnly(cmd); err != nil {
		return resp.Reply{}, err
	}
	return t.ReadOne()
}

// SendOnly writes cmd without reading a reply; used by the pipeline
// and subscription-control paths, which read replies separately.
func (t *Transport) SendOnly(cmd resp.Command) error {
	if t.closed {
		return rerrors.Wrap(rerrors.ConnectionLost, "write after close", net.ErrClosed)
	}
	if err := resp.Encode(t.writer, cmd); err != nil {
		return rerrors.Wrap(rerrors.ConnectionLost, "encode/write command", err)
	}
	if err := t.writer.Flush(); err != nil {
		return rerrors.Wrap(rerrors.ConnectionLost, "flush command", err)
	}
	return nil
}

// ReadOne reads and decodes exactly one reply. The transport itself
// never raises on a reply of kind Error; it surfaces it verbatim for
// the caller (Connection Core) to map.
func (t *Transport) ReadOne() (resp.Reply, error) {
	if t.closed {
		return resp.Reply{}, rerrors.Wrap(rerrors.ConnectionLost, "read after close", net.ErrClosed)
	}
	r, err := t.decoder.Decode()
	if err != nil {
		// resp.Decode wraps framing violations in resp.ErrProtocol; I/O
		// errors from the underlying net.Conn propagate unwrapped.
		if errors.Is(err, resp.ErrProtocol) {
			return resp.Reply{}, rerrors.Wrap(rerrors.Protocol, "malformed reply", err)
		}
		return resp.Reply{}, rerrors.Wrap(rerrors.ConnectionLost, "read reply", err)
	}
	return r, nil
}

// SetDeadline sets the read/write deadline on the underlying
// connection; the subscription's control writes use it to apply a
// context deadline.
func (t *Transport) SetDeadline(d time.Time) error {
	return t.conn.SetDeadline(d)
}

// SetReadDeadline bounds the next read only.
func (t *Transport) SetReadDeadline(d time.Time) error {
	return t.conn.SetReadDeadline(d)
}

// Close flushes best-effort then closes the socket. Idempotent.
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	_ = t.writer.Flush()
	return t.conn.Close()
}

// Closed reports whether Close has been called.
func (t *Transport) Closed() bool { return t.closed }
