package redisconn

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"redisconn/internal/core"
	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
	"redisconn/internal/transport"
)

// Pool is a bounded LIFO stack of Connection Cores against one
// endpoint: Lease hands out the most recently released Core (warm
// connections stay warm), Release returns a still-usable Core to the
// top of the stack, and a background sweep evicts Cores that have sat
// idle past Options.IdleTimeout. Modeled on the teacher's periodic
// background-ticker shutdown pattern (internal/server's rdbTicker)
// generalized from a single timer to a bounded idle stack, and on
// iatsiuk-r-cli's connmgr.ConnManager generalized from one lazily
// dialed connection to N.
type Pool struct {
	opts Options
	log  *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	idle     []*pooledCore
	numOpen  int
	closed   bool

	evictStop chan struct{}
	evictDone chan struct{}
}

type pooledCore struct {
	core     *core.Core
	idleSince time.Time
}

// NewPool dials nothing eagerly; Cores are created lazily on first
// Lease, up to Options.MaxConnections.
func NewPool(opts Options) *Pool {
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = 1
	}
	p := &Pool{
		opts:      opts,
		log:       opts.logger(),
		evictStop: make(chan struct{}),
		evictDone: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	interval := opts.EvictionInterval
	if interval <= 0 {
		interval = opts.IdleTimeout / 2
	}
	if opts.IdleTimeout > 0 {
		if interval < time.Second {
			interval = time.Second
		}
		go p.evictLoop(interval)
	} else {
		close(p.evictDone)
	}
	return p
}

// Lease returns a ready Core: a pooled one (health-checked if
// Options.HealthCheckOnLease) or a freshly dialed one if the pool is
// below MaxConnections. Blocks until one becomes available, the
// context is done, or the pool is closed.
func (p *Pool) Lease(ctx context.Context) (*core.Core, error) {
	p.mu.Lock()
	for {
		if p.closed {
			p.mu.Unlock()
			return nil, rerrors.New(rerrors.PoolExhausted, "pool is closed")
		}
		if n := len(p.idle); n > 0 {
			pc := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()

			if p.opts.HealthCheckOnLease && !p.healthy(ctx, pc.core) {
				p.log.Debug("discarding unhealthy pooled core", "endpoint", pc.core.Endpoint())
				_ = pc.core.Close()
				p.mu.Lock()
				p.numOpen--
				continue
			}
			return pc.core, nil
		}
		if p.numOpen < p.opts.MaxConnections {
			p.numOpen++
			p.mu.Unlock()

			c, err := p.dial(ctx)
			if err != nil {
				p.mu.Lock()
				p.numOpen--
				p.mu.Unlock()
				return nil, err
			}
			return c, nil
		}

		waitCh := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				p.mu.Lock()
				p.cond.Broadcast()
				p.mu.Unlock()
			case <-waitCh:
			}
		}()
		p.cond.Wait()
		close(waitCh)
		if ctx.Err() != nil {
			p.mu.Unlock()
			return nil, ctx.Err()
		}
	}
}

// Release returns c to the pool if it is still in Normal mode and not
// closed; otherwise it is closed outright and a slot freed for a
// future dial. A Core left in any pipelined/transaction/subscribed
// state would corrupt the next lessee's view of the connection, so
// only Normal-mode Cores are recycled.
func (p *Pool) Release(c *core.Core) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || c.Closed() || c.Mode() != core.Normal {
		if !c.Closed() {
			_ = c.Close()
		}
		p.numOpen--
		p.cond.Signal()
		return
	}

	p.idle = append(p.idle, &pooledCore{core: c, idleSince: time.Now()})
	p.cond.Signal()
}

// discardSlot permanently removes a leased Core from the Pool's
// accounting without closing it — used when a Core transitions to a
// state the Pool must never recycle (Subscribed), freeing its slot
// for a future dial.
func (p *Pool) discardSlot() {
	p.mu.Lock()
	p.numOpen--
	p.cond.Signal()
	p.mu.Unlock()
}

// Drain closes every idle Core and prevents further leases. Cores
// currently leased out are closed as they're Released rather than
// recycled, draining the pool to zero as outstanding work finishes.
func (p *Pool) Drain() error {
	p.mu.Lock()
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	close(p.evictStop)
	<-p.evictDone

	var firstErr error
	for _, pc := range idle {
		if err := pc.core.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Pool) dial(ctx context.Context) (*core.Core, error) {
	t, err := transport.Dial(ctx, p.opts.Network, p.opts.Addr, transport.Options{
		ReadBufferSize:  p.opts.ReadBufferSize,
		WriteBufferSize: p.opts.WriteBufferSize,
		MaxReplySize:    p.opts.MaxReplySize,
		DialTimeout:     p.opts.DialTimeout,
	})
	if err != nil {
		return nil, err
	}

	if p.opts.Password != "" {
		var authCmd resp.Command
		if p.opts.Username != "" {
			authCmd = resp.NewCommand("AUTH", p.opts.Username, p.opts.Password)
		} else {
			authCmd = resp.NewCommand("AUTH", p.opts.Password)
		}
		if _, err := t.Execute(authCmd); err != nil {
			_ = t.Close()
			return nil, err
		}
	}
	if p.opts.Database != 0 {
		if _, err := t.Execute(resp.NewCommand("SELECT", strconv.Itoa(p.opts.Database))); err != nil {
			_ = t.Close()
			return nil, err
		}
	}

	p.log.Debug("dialed new core", "endpoint", p.opts.Addr, "database", p.opts.Database)
	return core.New(t, p.opts.Addr, p.opts.Database), nil
}

func (p *Pool) healthy(ctx context.Context, c *core.Core) bool {
	out, err := c.Dispatch(resp.NewCommand("PING"))
	if err != nil {
		return false
	}
	return !out.Reply.IsError()
}

func (p *Pool) evictLoop(interval time.Duration) {
	defer close(p.evictDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.evictStop:
			return
		case <-ticker.C:
			p.evictOnce()
		}
	}
}

func (p *Pool) evictOnce() {
	cutoff := time.Now().Add(-p.opts.IdleTimeout)

	p.mu.Lock()
	kept := p.idle[:0]
	var evicted []*pooledCore
	for _, pc := range p.idle {
		if pc.idleSince.Before(cutoff) {
			evicted = append(evicted, pc)
		} else {
			kept = append(kept, pc)
		}
	}
	p.idle = kept
	p.numOpen -= len(evicted)
	p.mu.Unlock()

	for _, pc := range evicted {
		p.log.Debug("evicting idle core", "endpoint", pc.core.Endpoint())
		_ = pc.core.Close()
	}
}
