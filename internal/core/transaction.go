package core

import (
	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// Multi transitions Normal -> Transaction or Pipeline ->
// PipelineTransaction. MULTI inside MULTI is a no-op, never an error
// (mirrors the server's own idempotence).
func (c *Core) Multi() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case Transaction, PipelineTransaction:
		return nil
	case Subscribed:
		return rerrors.New(rerrors.SubscribedMode, "cannot start a transaction while subscribed")
	case Closed:
		return rerrors.Wrap(rerrors.ConnectionLost, "MULTI on closed core", nil)
	case Normal:
		reply, err := c.transport.Execute(resp.NewCommand("MULTI"))
		if err != nil {
			return c.fail(err)
		}
		if reply.IsError() {
			return rerrors.NewServerError(reply.Str)
		}
		c.mode = Transaction
		c.txQueue = nil
		return nil
	case Pipeline:
		// MULTI never occupies a result slot, pipelined or not, so its
		// own ack is read immediately rather than deferred into
		// pipelineBuf: deferring it would leave it stranded ahead of
		// the queued-command acks and the EXEC reply on the wire,
		// since Exec reads those eagerly regardless of pipelining.
		// Anything still buffered from earlier in the pipeline sits
		// further ahead still, so it has to drain first or the
		// synchronous read below would pick up the wrong reply.
		if _, err := c.drainPipelineBuf(); err != nil {
			return err
		}
		reply, err := c.transport.Execute(resp.NewCommand("MULTI"))
		if err != nil {
			return c.fail(err)
		}
		if reply.IsError() {
			return rerrors.NewServerError(reply.Str)
		}
		c.mode = PipelineTransaction
		c.txQueue = nil
		return nil
	default:
		return rerrors.New(rerrors.Unsupported, "MULTI not supported in "+c.mode.String())
	}
}

// Exec sends EXEC, drains the QUEUED acknowledgements for every
// command queued since MULTI, and reads the authoritative multi-bulk
// reply. A nil multi-bulk (the WATCH-aborted case) returns a nil
// slice with no error. Transitions back to Normal (from Transaction)
// or Pipeline (from PipelineTransaction).
func (c *Core) Exec() ([]rerrors.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Transaction && c.mode != PipelineTransaction {
		return nil, rerrors.New(rerrors.InvalidState, "EXEC without MULTI")
	}

	queued := c.txQueue
	c.txQueue = nil
	c.watching = false

	if err := c.transport.SendOnly(resp.NewCommand("EXEC")); err != nil {
		return nil, c.fail(err)
	}

	for range queued {
		if _, err := c.transport.ReadOne(); err != nil {
			return nil, c.fail(err)
		}
		// QUEUED acknowledgement discarded per the fixed semantics:
		// only EXEC's own multi-bulk is authoritative.
	}

	reply, err := c.transport.ReadOne()
	if err != nil {
		return nil, c.fail(err)
	}

	c.mode = demoteFromTransaction(c.mode)

	if reply.IsError() {
		return nil, rerrors.NewServerError(reply.Str)
	}
	if reply.Null {
		return nil, nil // WATCH aborted the transaction
	}

	outcomes := make([]rerrors.Outcome, len(reply.Array))
	anyErr := false
	for i, elem := range reply.Array {
		outcomes[i] = replyToOutcome(elem)
		if outcomes[i].Err != nil {
			anyErr = true
		}
	}
	if anyErr {
		return outcomes, rerrors.NewPipelineError(outcomes)
	}
	return outcomes, nil
}

// Discard sends DISCARD, drains queued acknowledgements, and returns
// to Normal/Pipeline. If pipelining was not externally requested
// (plain Transaction), there is no external pipeline buffer to
// preserve, so the Core simply lands back in Normal.
func (c *Core) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Transaction && c.mode != PipelineTransaction {
		return rerrors.New(rerrors.InvalidState, "DISCARD without MULTI")
	}

	queued := c.txQueue
	c.txQueue = nil
	c.watching = false

	if err := c.transport.SendOnly(resp.NewCommand("DISCARD")); err != nil {
		return c.fail(err)
	}
	for range queued {
		if _, err := c.transport.ReadOne(); err != nil {
			return c.fail(err)
		}
	}
	reply, err := c.transport.ReadOne()
	if err != nil {
		return c.fail(err)
	}

	c.mode = demoteFromTransaction(c.mode)

	if reply.IsError() {
		return rerrors.NewServerError(reply.Str)
	}
	return nil
}

func demoteFromTransaction(m Mode) Mode {
	if m == PipelineTransaction {
		return Pipeline
	}
	return Normal
}

// Watch is only valid in Normal or Pipeline; inside a transaction it
// raises InvalidState without touching the wire.
func (c *Core) Watch(keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case Transaction, PipelineTransaction:
		return rerrors.New(rerrors.InvalidState, "WATCH not allowed inside MULTI")
	case Subscribed:
		return rerrors.New(rerrors.SubscribedMode, "cannot WATCH while subscribed")
	case Closed:
		return rerrors.Wrap(rerrors.ConnectionLost, "WATCH on closed core", nil)
	}

	// WATCH never occupies a result slot either (same FIFO reasoning as
	// MULTI above), so it is always read synchronously even if a
	// pipeline is open; anything still buffered ahead of it drains first.
	if c.mode == Pipeline {
		if _, err := c.drainPipelineBuf(); err != nil {
			return err
		}
	}
	reply, err := c.transport.Execute(resp.NewCommand("WATCH", keys...))
	if err != nil {
		return c.fail(err)
	}
	if reply.IsError() {
		return rerrors.NewServerError(reply.Str)
	}
	c.watching = true
	return nil
}

// Unwatch clears any outstanding WATCH without requiring an active
// transaction.
func (c *Core) Unwatch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Subscribed {
		return rerrors.New(rerrors.SubscribedMode, "cannot UNWATCH while subscribed")
	}
	if c.mode == Pipeline {
		if _, err := c.drainPipelineBuf(); err != nil {
			return err
		}
	}
	reply, err := c.transport.Execute(resp.NewCommand("UNWATCH"))
	if err != nil {
		return c.fail(err)
	}
	if reply.IsError() {
		return rerrors.NewServerError(reply.Str)
	}
	c.watching = false
	return nil
}
