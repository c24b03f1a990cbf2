// Package core implements the Connection Core state machine: the
// single-threaded unit of use a Pool hands out. It sits directly on
// top of internal/transport and owns the mode transitions between
// Normal, Pipeline, Transaction, Pipeline+Transaction, Subscribed, and
// Closed, plus the pipeline buffer and the MULTI/EXEC/DISCARD/WATCH
// queueing discipline described in spec §4.4.
package core

import (
	"fmt"
	"sync"

	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
	"redisconn/internal/transport"
)

// Mode is one of the Core's six states.
type Mode int

const (
	Normal Mode = iota
	Pipeline
	Transaction
	PipelineTransaction
	Subscribed
	Closed
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Pipeline:
		return "Pipeline"
	case Transaction:
		return "Transaction"
	case PipelineTransaction:
		return "Pipeline+Transaction"
	case Subscribed:
		return "Subscribed"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// pipelineRecord is one pending command submitted while pipelined
// outside of a transaction; its reply is deferred until ClosePipeline.
type pipelineRecord struct {
	name string
}

// Core is the state machine wrapped around one Transport. It is not
// safe for concurrent use by more than one goroutine at a time — that
// discipline is the Pool's job (or the Subscription Machine's, which
// takes exclusive ownership of a Core's Transport for its lifetime).
type Core struct {
	mu sync.Mutex // guards the fields below against accidental concurrent misuse; not a substitute for single-owner discipline

	transport *transport.Transport
	endpoint  string
	database  int

	mode Mode

	// pipelineBuf holds commands submitted while Pipeline, whose
	// replies are deferred to ClosePipeline. Commands submitted while
	// PipelineTransaction go to txQueue instead.
	pipelineBuf []pipelineRecord

	// txQueue holds commands submitted between MULTI and EXEC/DISCARD;
	// always resolved eagerly by Exec/Discard regardless of whether an
	// external pipeline is simultaneously open (§Data Model: "Transaction
	// implies a pipeline buffer exists").
	txQueue []pipelineRecord

	watching bool
}

// New wraps an already-connected Transport. The Core starts in Normal
// mode; callers that need SELECT/AUTH on connect should issue them
// before handing the Core to a Pool.
func New(t *transport.Transport, endpoint string, database int) *Core {
	return &Core{transport: t, endpoint: endpoint, database: database, mode: Normal}
}

// Mode reports the current state.
func (c *Core) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Endpoint returns the configured host:port (or socket path).
func (c *Core) Endpoint() string { return c.endpoint }

// Database returns the selected database index.
func (c *Core) Database() int { return c.database }

// Watching reports whether WATCH has been issued without a
// subsequent EXEC/DISCARD/UNWATCH.
func (c *Core) Watching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.watching
}

// Closed reports whether the Core has transitioned to Closed.
func (c *Core) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode == Closed
}

// Close closes the underlying Transport and marks the Core terminal.
// Idempotent.
func (c *Core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Closed {
		return nil
	}
	c.mode = Closed
	return c.transport.Close()
}

// fail transitions the Core to Closed (per spec §7: after
// ConnectionLost or Protocol the Core becomes unusable and cannot be
// returned to the pool) and returns err unchanged for convenience.
func (c *Core) fail(err error) error {
	c.mode = Closed
	_ = c.transport.Close()
	return err
}

// Dispatch is the single entry point for every Operation Surface
// method. It implements spec §4.4's three-step discipline:
//  1. Subscribed mode rejects every command; subscription control is
//     sent by the pubsub package's Subscription, not through Dispatch.
//  2. Pipeline, Transaction, and PipelineTransaction send the command
//     without reading its reply and return Pending=true; the caller
//     must return its typed zero value without consulting Reply.
//  3. Normal mode round-trips the command synchronously.
type Outcome struct {
	Reply   resp.Reply
	Pending bool
}

func (c *Core) Dispatch(cmd resp.Command) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case Closed:
		return Outcome{}, rerrors.Wrap(rerrors.ConnectionLost, "dispatch on closed core", nil)
	case Subscribed:
		return Outcome{}, rerrors.New(rerrors.SubscribedMode, fmt.Sprintf("command %s not allowed while subscribed", cmd.Name))
	case Pipeline:
		if err := c.transport.SendOnly(cmd); err != nil {
			return Outcome{}, c.fail(err)
		}
		c.pipelineBuf = append(c.pipelineBuf, pipelineRecord{name: cmd.Name})
		return Outcome{Pending: true}, nil
	case Transaction, PipelineTransaction:
		if err := c.transport.SendOnly(cmd); err != nil {
			return Outcome{}, c.fail(err)
		}
		c.txQueue = append(c.txQueue, pipelineRecord{name: cmd.Name})
		return Outcome{Pending: true}, nil
	default: // Normal
		reply, err := c.transport.Execute(cmd)
		if err != nil {
			return Outcome{}, c.fail(err)
		}
		return Outcome{Reply: reply}, nil
	}
}

// Transport exposes the underlying transport for the Subscription
// Machine, which takes exclusive ownership of it once Subscribe
// transitions the Core to Subscribed; callers fetch it after
// BeginSubscription has succeeded.
func (c *Core) Transport() *transport.Transport {
	return c.transport
}

// BeginSubscription transitions Normal -> Subscribed so the Pool will
// never hand this Core out again and Dispatch will reject ordinary
// commands. The caller (the pubsub package) takes over the
// Transport's reads and writes from this point on.
func (c *Core) BeginSubscription() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Normal {
		return rerrors.New(rerrors.Unsupported, "subscribe only allowed from Normal mode")
	}
	c.mode = Subscribed
	return nil
}
