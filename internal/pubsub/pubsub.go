// Package pubsub implements the Subscription Machine: a dedicated
// reader goroutine that owns a Transport once a Core enters Subscribed
// mode, decoding push frames (message/pmessage/subscribe/unsubscribe/
// psubscribe/punsubscribe) and handing them to a channel of
// listeners. A single mutex serializes the SUBSCRIBE/UNSUBSCRIBE
// family of writes; the reader goroutine takes no lock for its
// blocking reads.
package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
	"redisconn/internal/transport"
)

// Kind tags the six push-frame shapes a subscribed connection receives.
type Kind int

const (
	KindSubscribe Kind = iota
	KindUnsubscribe
	KindPSubscribe
	KindPUnsubscribe
	KindMessage
	KindPMessage
)

func (k Kind) String() string {
	switch k {
	case KindSubscribe:
		return "subscribe"
	case KindUnsubscribe:
		return "unsubscribe"
	case KindPSubscribe:
		return "psubscribe"
	case KindPUnsubscribe:
		return "punsubscribe"
	case KindMessage:
		return "message"
	case KindPMessage:
		return "pmessage"
	default:
		return "unknown"
	}
}

// Message is one decoded push frame.
type Message struct {
	Kind    Kind
	Channel string
	Pattern string
	Payload []byte
	Count   int64
}

// Subscription owns a Transport exclusively for its lifetime. It is
// created once a Core has transitioned to Subscribed (see
// core.Core.BeginSubscription) and is never returned to a Pool —
// ending a subscription always closes the underlying connection.
type Subscription struct {
	writeMu sync.Mutex // serializes SUBSCRIBE/UNSUBSCRIBE/PSUBSCRIBE/PUNSUBSCRIBE writes

	transport *transport.Transport
	logger    *slog.Logger

	messages chan Message
	errs     chan error
	done     chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex // guards channels/patterns below
	channels map[string]struct{}
	patterns map[string]struct{}
}

// New starts the reader goroutine over t and returns the Subscription
// handle. The caller must have already sent at least one of
// SUBSCRIBE/PSUBSCRIBE (or will send one immediately) — New itself
// issues no commands.
func New(t *transport.Transport, logger *slog.Logger) *Subscription {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Subscription{
		transport: t,
		logger:    logger,
		messages:  make(chan Message, 64),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
		channels:  make(map[string]struct{}),
		patterns:  make(map[string]struct{}),
	}
	go s.run()
	return s
}

// Messages is the channel of decoded push frames. It is closed when
// the reader goroutine exits, whether due to a clean unsubscribe-to-
// zero or a transport failure; check Err after a close to distinguish
// the two.
func (s *Subscription) Messages() <-chan Message { return s.messages }

// Subscribe sends SUBSCRIBE for the given channels; the corresponding
// "subscribe" acks arrive asynchronously on Messages.
func (s *Subscription) Subscribe(ctx context.Context, channels ...string) error {
	return s.send(ctx, resp.NewCommand("SUBSCRIBE", channels...))
}

// Unsubscribe sends UNSUBSCRIBE. With no channels, the server
// unsubscribes from all of them.
func (s *Subscription) Unsubscribe(ctx context.Context, channels ...string) error {
	return s.send(ctx, resp.NewCommand("UNSUBSCRIBE", channels...))
}

// PSubscribe sends PSUBSCRIBE for the given patterns.
func (s *Subscription) PSubscribe(ctx context.Context, patterns ...string) error {
	return s.send(ctx, resp.NewCommand("PSUBSCRIBE", patterns...))
}

// PUnsubscribe sends PUNSUBSCRIBE. With no patterns, the server
// unsubscribes from all of them.
func (s *Subscription) PUnsubscribe(ctx context.Context, patterns ...string) error {
	return s.send(ctx, resp.NewCommand("PUNSUBSCRIBE", patterns...))
}

func (s *Subscription) send(ctx context.Context, cmd resp.Command) error {
	select {
	case <-s.done:
		return rerrors.Wrap(rerrors.ConnectionLost, "subscription already closed", nil)
	default:
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.transport.SetDeadline(deadline)
	}
	return s.transport.SendOnly(cmd)
}

// Err returns the error that caused the reader goroutine to exit, if
// any; it is only meaningful after Messages has been closed. Returns
// nil if the subscription wound down cleanly (drained to zero
// channels and patterns) rather than failing.
func (s *Subscription) Err() error {
	select {
	case err := <-s.errs:
		return err
	default:
		return nil
	}
}

// Channels reports the currently subscribed channels.
func (s *Subscription) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.channels))
	for c := range s.channels {
		out = append(out, c)
	}
	return out
}

// Patterns reports the currently subscribed patterns.
func (s *Subscription) Patterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.patterns))
	for p := range s.patterns {
		out = append(out, p)
	}
	return out
}

// Close terminates the subscription and closes the underlying
// connection — a subscribed connection is never pooled. Idempotent.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.transport.Close()
	})
	return err
}

func (s *Subscription) run() {
	defer close(s.messages)
	s.logger.Debug("subscription reader starting")
	for {
		reply, err := s.transport.ReadOne()
		if err != nil {
			s.logger.Warn("subscription reader exiting", "error", err)
			select {
			case s.errs <- err:
			default:
			}
			return
		}

		msg, err := decodeMessage(reply)
		if err != nil {
			s.logger.Warn("malformed push frame", "error", err)
			select {
			case s.errs <- err:
			default:
			}
			_ = s.Close()
			return
		}

		drained := s.applyBookkeeping(msg)

		select {
		case s.messages <- msg:
		case <-s.done:
			return
		}

		if drained {
			s.logger.Debug("subscription drained to zero channels and patterns, closing")
			_ = s.Close()
			return
		}
	}
}

// applyBookkeeping updates the channel/pattern sets and reports
// whether this was an unsubscribe/punsubscribe that brought the total
// subscription count to zero — the point at which, per spec, the
// Subscription Machine tears itself down.
func (s *Subscription) applyBookkeeping(msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Kind {
	case KindSubscribe:
		s.channels[msg.Channel] = struct{}{}
	case KindPSubscribe:
		s.patterns[msg.Pattern] = struct{}{}
	case KindUnsubscribe:
		delete(s.channels, msg.Channel)
	case KindPUnsubscribe:
		delete(s.patterns, msg.Pattern)
	default:
		return false
	}
	return len(s.channels) == 0 && len(s.patterns) == 0 && msg.Count == 0
}

// decodeMessage maps a raw multi-bulk reply onto the six push-frame
// shapes the server uses for a subscribed connection, mirroring the
// server-side encodePubSubMessage's array layouts in reverse.
func decodeMessage(r resp.Reply) (Message, error) {
	if r.Kind != resp.KindMultiBulk || len(r.Array) < 3 {
		return Message{}, rerrors.Wrap(rerrors.Protocol, "push frame is not a well-formed multi-bulk", nil)
	}
	head, ok := bulkString(r.Array[0])
	if !ok {
		return Message{}, rerrors.Wrap(rerrors.Protocol, "push frame missing type element", nil)
	}

	switch head {
	case "subscribe", "unsubscribe":
		channel, _ := bulkString(r.Array[1])
		count := r.Array[2].Integer
		kind := KindSubscribe
		if head == "unsubscribe" {
			kind = KindUnsubscribe
		}
		return Message{Kind: kind, Channel: channel, Count: count}, nil
	case "psubscribe", "punsubscribe":
		pattern, _ := bulkString(r.Array[1])
		count := r.Array[2].Integer
		kind := KindPSubscribe
		if head == "punsubscribe" {
			kind = KindPUnsubscribe
		}
		return Message{Kind: kind, Pattern: pattern, Count: count}, nil
	case "message":
		channel, _ := bulkString(r.Array[1])
		return Message{Kind: KindMessage, Channel: channel, Payload: r.Array[2].Bulk}, nil
	case "pmessage":
		if len(r.Array) < 4 {
			return Message{}, rerrors.Wrap(rerrors.Protocol, "pmessage frame missing pattern element", nil)
		}
		pattern, _ := bulkString(r.Array[1])
		channel, _ := bulkString(r.Array[2])
		return Message{Kind: KindPMessage, Pattern: pattern, Channel: channel, Payload: r.Array[3].Bulk}, nil
	default:
		return Message{}, rerrors.Wrap(rerrors.Protocol, fmt.Sprintf("unknown push frame type %q", head), nil)
	}
}

func bulkString(r resp.Reply) (string, bool) {
	if r.Kind != resp.KindBulkString || r.Null {
		return "", false
	}
	return string(r.Bulk), true
}
