package redisconn

import (
	"context"

	"redisconn/internal/core"
	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// Pipeline batches commands on one leased Core: each queued command is
// written to the wire immediately (true pipelining, not a deferred
// client-side send) and the corresponding Operation Surface method
// returns its zero value right away; replies only become available,
// in submission order, from Exec.
type Pipeline struct {
	client *Client
	core   *core.Core
	err    error // sticky: the first Dispatch failure, surfaced by Exec
}

// Pipeline leases a Core and opens pipelined mode on it. The returned
// Pipeline must be finished with Exec or Discard, which return the
// Core to the Pool (or close it, for Discard).
func (c *Client) Pipeline(ctx context.Context) (*Pipeline, error) {
	co, err := c.leaseCore(ctx)
	if err != nil {
		return nil, err
	}
	if err := co.OpenPipeline(); err != nil {
		c.releaseCore(co)
		return nil, err
	}
	return &Pipeline{client: c, core: co}, nil
}

// queue sends cmd immediately; Operation Surface methods call this
// and ignore its error, which is sticky and surfaced by Exec instead —
// the typed caller gets back the sentinel zero value regardless.
func (p *Pipeline) queue(cmd resp.Command) {
	if p.err != nil {
		return
	}
	if rejectedInTransaction(cmd) {
		p.err = rerrors.New(rerrors.InvalidState, cmd.Name+" is not allowed inside a pipeline")
		return
	}
	if _, err := p.core.Dispatch(cmd); err != nil {
		p.err = err
	}
}

// Outcome is one positional result of Exec: either the raw reply or
// the error the corresponding command failed with.
type Outcome struct {
	Reply resp.Reply
	Err   error
}

// Exec flushes the pipeline, reading every queued reply in submission
// order, and returns the Core to the Pool. If any command failed the
// returned error is a PipelinePartial; Outcomes is still fully
// populated so the caller can find which positions succeeded.
func (p *Pipeline) Exec() ([]Outcome, error) {
	defer p.client.releaseCore(p.core)

	if p.err != nil {
		return nil, p.err
	}

	raw, err := p.core.ClosePipeline()
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

// Discard abandons the pipeline without reading replies, closing the
// underlying Core: any already-sent commands have replies sitting
// unread on the wire, which would desynchronize a reused connection,
// so the Core cannot be recycled.
func (p *Pipeline) Discard() {
	_ = p.core.Close()
	p.client.releaseCore(p.core)
}
