// Package redisconn is a Redis-like client library core: a Connection
// Core state machine (internal/core) wrapped in a bounded Pool, with
// typed command methods, pipelining, transactions, and a pub/sub
// Subscription Machine built on top.
package redisconn

import (
	"context"
	"log/slog"
	"time"

	"redisconn/internal/core"
	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// Client is the entry point: Do executes a single command against a
// leased Core and returns it immediately, the typed ops_*.go methods
// wrap Do for specific commands, and Pipeline/Tx/Subscribe open the
// other three execution modes described in the package doc.
type Client struct {
	pool *Pool
	log  *slog.Logger
	slow *slowLog
}

// NewClient builds a Pool from opts and wraps it in a Client.
// Zero-valued fields are filled in from DefaultOptions field-by-field
// (see fillDefaults; IdleTimeout, SlowThreshold, and
// HealthCheckOnLease keep their zero value), so a caller-set
// Password/MaxConnections/etc. is never discarded just because Addr
// was left blank.
func NewClient(opts Options) *Client {
	opts = fillDefaults(opts)
	c := &Client{pool: NewPool(opts), log: opts.logger()}
	if opts.SlowThreshold > 0 {
		c.slow = newSlowLog(opts.SlowLogSize, opts.SlowThreshold)
	}
	return c
}

// Close drains the underlying Pool.
func (c *Client) Close() error { return c.pool.Drain() }

// Do sends cmd synchronously and returns its reply, or an error
// mapped onto the standard taxonomy. It leases a Core from the Pool,
// runs the command in Normal mode, and returns the Core to the Pool —
// never across a pipeline or transaction boundary, since the next Do
// call leases a fresh Core each time.
func (c *Client) Do(ctx context.Context, cmd resp.Command) (resp.Reply, error) {
	co, err := c.pool.Lease(ctx)
	if err != nil {
		return resp.Reply{}, err
	}

	start := time.Now()
	out, err := co.Dispatch(cmd)
	if c.slow != nil {
		c.slow.record(cmd.Name, time.Since(start))
	}
	if err != nil {
		c.log.Warn("command failed", "command", cmd.Name, "error", err)
		c.pool.Release(co) // already Closed by the Core's own failure path; frees the Pool's slot
		return resp.Reply{}, err
	}
	c.pool.Release(co)
	if out.Reply.IsError() {
		return out.Reply, rerrors.NewServerError(out.Reply.Str)
	}
	return out.Reply, nil
}

// leaseCore is used by Pipeline/Tx/PubSub, which hold a Core across
// several calls instead of releasing it after one Dispatch.
func (c *Client) leaseCore(ctx context.Context) (*core.Core, error) {
	return c.pool.Lease(ctx)
}

func (c *Client) releaseCore(co *core.Core) {
	c.pool.Release(co)
}
