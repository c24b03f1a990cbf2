package redisconn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(addr string) Options {
	o := DefaultOptions()
	o.Addr = addr
	o.MaxConnections = 1
	o.IdleTimeout = 0
	return o
}

func TestPoolLeaseReleaseRecycle(t *testing.T) {
	addr := scriptedServer(t, []string{"+PONG\r\n"})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = true
	p := NewPool(opts)
	defer p.Drain()

	ctx := context.Background()
	co1, err := p.Lease(ctx)
	require.NoError(t, err)
	p.Release(co1)

	co2, err := p.Lease(ctx)
	require.NoError(t, err)
	assert.Same(t, co1, co2, "a healthy released Core should be recycled, not redialed")
}

func TestPoolMaxConnectionsBlocksThenUnblocks(t *testing.T) {
	addr := scriptedServer(t, []string{"+PONG\r\n"})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = false
	p := NewPool(opts)
	defer p.Drain()

	ctx := context.Background()
	co1, err := p.Lease(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		co2, err := p.Lease(context.Background())
		require.NoError(t, err)
		assert.Same(t, co1, co2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Lease returned before the pool had any capacity")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release(co1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Lease never unblocked after Release")
	}
}

func TestPoolLeaseRespectsContextCancellation(t *testing.T) {
	addr := scriptedServer(t, []string{"+PONG\r\n"})
	opts := testOptions(addr)
	p := NewPool(opts)
	defer p.Drain()

	ctx := context.Background()
	_, err := p.Lease(ctx)
	require.NoError(t, err)

	cctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Lease(cctx)
	assert.Error(t, err)
}

func TestPoolDiscardSlotFreesCapacity(t *testing.T) {
	addr := scriptedServer(t, []string{"+PONG\r\n"})
	opts := testOptions(addr)
	p := NewPool(opts)
	defer p.Drain()

	ctx := context.Background()
	co1, err := p.Lease(ctx)
	require.NoError(t, err)
	p.discardSlot()
	_ = co1 // never returned to the pool; the slot is reclaimed directly

	co2, err := p.Lease(ctx)
	require.NoError(t, err)
	assert.NotSame(t, co1, co2, "discardSlot frees a slot for a fresh dial, not a recycle")
}
