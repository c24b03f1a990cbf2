package redisconn

import (
	"context"

	"redisconn/internal/core"
	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// Tx wraps a MULTI/EXEC transaction on one leased Core. Queue sends
// each command immediately and gets back a "+QUEUED" acknowledgement
// the Core discards on the caller's behalf; the real results are only
// available, in submission order, from Exec — or not at all if a
// WATCHed key changed and the server aborted the transaction.
type Tx struct {
	client *Client
	core   *core.Core
	err    error
}

// Watch optimistically locks keys: if any changes before Exec, the
// transaction aborts and Exec returns a nil Outcome slice with no
// error. Must be called before Multi/Tx — it is a Client-level
// convenience that leases its own Core for the WATCH call, then
// starts the transaction on that same Core.
func (c *Client) Watch(ctx context.Context, keys ...string) (*Tx, error) {
	co, err := c.leaseCore(ctx)
	if err != nil {
		return nil, err
	}
	if err := co.Watch(keys...); err != nil {
		c.releaseCore(co)
		return nil, err
	}
	if err := co.Multi(); err != nil {
		_ = co.Close()
		c.releaseCore(co)
		return nil, err
	}
	return &Tx{client: c, core: co}, nil
}

// Multi leases a Core and starts a transaction with no WATCHed keys.
func (c *Client) Multi(ctx context.Context) (*Tx, error) {
	co, err := c.leaseCore(ctx)
	if err != nil {
		return nil, err
	}
	if err := co.Multi(); err != nil {
		c.releaseCore(co)
		return nil, err
	}
	return &Tx{client: c, core: co}, nil
}

// queue mirrors Pipeline.queue: Operation Surface methods call this
// from within a transaction and ignore its error, sticky until Exec.
func (t *Tx) queue(cmd resp.Command) {
	if t.err != nil {
		return
	}
	if rejectedInTransaction(cmd) {
		t.err = rerrors.New(rerrors.InvalidState, cmd.Name+" is not allowed inside a transaction")
		return
	}
	if _, err := t.core.Dispatch(cmd); err != nil {
		t.err = err
	}
}

// Exec sends EXEC and returns the Core to the Pool. A nil slice with
// a nil error means a WATCHed key changed and the server aborted the
// transaction (spec property: WATCH abort is not itself an error).
func (t *Tx) Exec() ([]Outcome, error) {
	defer t.client.releaseCore(t.core)

	if t.err != nil {
		return nil, t.err
	}

	raw, err := t.core.Exec()
	if raw == nil {
		return nil, err
	}
	outcomes := make([]Outcome, len(raw))
	for i, o := range raw {
		if o.Err != nil {
			outcomes[i] = Outcome{Err: o.Err}
			continue
		}
		if reply, ok := o.Value.(resp.Reply); ok {
			outcomes[i] = Outcome{Reply: reply}
		}
	}
	return outcomes, err
}

// Discard abandons the transaction and returns the Core to the Pool.
func (t *Tx) Discard() error {
	defer t.client.releaseCore(t.core)
	if t.err != nil {
		return t.err
	}
	return t.core.Discard()
}
