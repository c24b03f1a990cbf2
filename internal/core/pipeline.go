package core

import (
	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// OpenPipeline transitions Normal -> Pipeline or Transaction ->
// PipelineTransaction. Pipelining is pure client-side bookkeeping —
// there is no wire command for it.
func (c *Core) OpenPipeline() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case Normal:
		c.mode = Pipeline
		c.pipelineBuf = nil
		return nil
	case Transaction:
		c.mode = PipelineTransaction
		c.pipelineBuf = nil
		return nil
	case Pipeline, PipelineTransaction:
		return nil // already pipelined; idempotent
	case Subscribed:
		return rerrors.New(rerrors.SubscribedMode, "cannot open a pipeline while subscribed")
	default:
		return rerrors.New(rerrors.Unsupported, "cannot open a pipeline in "+c.mode.String())
	}
}

// ClosePipeline flushes the buffered commands — reading exactly one
// reply per pending record, in submission order — and returns to
// Normal (from Pipeline) or Transaction (from PipelineTransaction).
//
// Per-reply errors are mapped into the outcome list positionally; if
// any occurred, the returned error is a PipelinePartial carrying the
// full ordered list (successes and errors both). A transport failure
// mid-flush fills the remaining slots with ConnectionLost outcomes and
// still raises PipelinePartial — the Core is closed at that point.
func (c *Core) ClosePipeline() ([]rerrors.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != Pipeline && c.mode != PipelineTransaction {
		return nil, rerrors.New(rerrors.InvalidState, "ClosePipeline called outside a pipelined mode")
	}

	outcomes, err := c.drainPipelineBuf()

	if c.mode == Closed {
		// drainPipelineBuf already closed the Core on a transport failure.
	} else if c.mode == Pipeline {
		c.mode = Normal
	} else {
		c.mode = Transaction
	}

	return outcomes, err
}

// drainPipelineBuf reads exactly one reply per currently buffered
// pipelineBuf record, in submission order, and empties the buffer. It
// does not touch mode. MULTI/WATCH/UNWATCH need this run first
// whenever pipelined commands may still be outstanding ahead of them
// on the wire — those control commands are always read synchronously
// immediately after sending, which only lines up if nothing queued
// earlier is still unread.
func (c *Core) drainPipelineBuf() ([]rerrors.Outcome, error) {
	buf := c.pipelineBuf
	c.pipelineBuf = nil
	if len(buf) == 0 {
		return nil, nil
	}

	outcomes := make([]rerrors.Outcome, len(buf))
	anyErr := false
	transportDied := false

	for i := range buf {
		if transportDied {
			outcomes[i] = rerrors.Outcome{Err: rerrors.ErrConnectionLost}
			anyErr = true
			continue
		}
		reply, err := c.transport.ReadOne()
		if err != nil {
			transportDied = true
			anyErr = true
			outcomes[i] = rerrors.Outcome{Err: rerrors.Wrap(rerrors.ConnectionLost, "pipeline flush read", err)}
			continue
		}
		outcomes[i] = replyToOutcome(reply)
		if outcomes[i].Err != nil {
			anyErr = true
		}
	}

	if transportDied {
		c.mode = Closed
		_ = c.transport.Close()
	}

	if anyErr {
		return outcomes, rerrors.NewPipelineError(outcomes)
	}
	return outcomes, nil
}

func replyToOutcome(r resp.Reply) rerrors.Outcome {
	if r.IsError() {
		return rerrors.Outcome{Err: rerrors.NewServerError(r.Str)}
	}
	return rerrors.Outcome{Value: r}
}
