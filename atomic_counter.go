package redisconn

import (
	"context"
	"strconv"

	"redisconn/internal/resp"
	"redisconn/internal/rerrors"
)

// AtomicCounter performs a compare-and-swap increment of an integer
// key using WATCH/GET/MULTI/SET/EXEC, the same optimistic-concurrency
// pattern the server's own transaction machinery uses internally to
// keep a watched key's dirty flag and its MULTI/EXEC queue in lock
// step, translated here to the client's side of that same protocol.
// It retries on a WATCH abort up to maxRetries times.
//
// WATCH, the GET that reads the baseline, MULTI, and EXEC must all run
// on the same connection — WATCH is connection-local server state —
// so this type leases one Core directly instead of going through
// Client.Do/Watch, which would each lease independently from the Pool.
type AtomicCounter struct {
	client     *Client
	key        string
	maxRetries int
}

// NewAtomicCounter returns a counter bound to key. maxRetries <= 0
// defaults to 5.
func (c *Client) NewAtomicCounter(key string, maxRetries int) *AtomicCounter {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &AtomicCounter{client: c, key: key, maxRetries: maxRetries}
}

// Add atomically adds delta to the counter (creating it at delta if
// absent) and returns the new value. Retries the whole
// WATCH/GET/MULTI/SET/EXEC cycle if a concurrent writer changed the
// key between the GET and the EXEC.
func (a *AtomicCounter) Add(ctx context.Context, delta int64) (int64, error) {
	var last error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		newVal, aborted, err := a.tryAdd(ctx, delta)
		if err != nil {
			return 0, err
		}
		if !aborted {
			return newVal, nil
		}
		last = rerrors.New(rerrors.InvalidState, "watch aborted, retrying")
	}
	return 0, rerrors.Wrap(rerrors.InvalidState, "atomic counter exceeded max retries", last)
}

func (a *AtomicCounter) tryAdd(ctx context.Context, delta int64) (newVal int64, aborted bool, err error) {
	co, err := a.client.leaseCore(ctx)
	if err != nil {
		return 0, false, err
	}
	defer a.client.releaseCore(co)

	if err := co.Watch(a.key); err != nil {
		return 0, false, err
	}

	out, err := co.Dispatch(resp.NewCommand("GET", a.key))
	if err != nil {
		return 0, false, err
	}
	if out.Reply.IsError() {
		_ = co.Unwatch()
		return 0, false, rerrors.NewServerError(out.Reply.Str)
	}

	var base int64
	if !out.Reply.Null {
		base, err = strconv.ParseInt(string(out.Reply.Bulk), 10, 64)
		if err != nil {
			_ = co.Unwatch()
			return 0, false, rerrors.Wrap(rerrors.Protocol, "counter value is not an integer", err)
		}
	}
	newVal = base + delta

	if err := co.Multi(); err != nil {
		return 0, false, err
	}
	if _, err := co.Dispatch(resp.NewCommand("SET", a.key, strconv.FormatInt(newVal, 10))); err != nil {
		return 0, false, err
	}

	outcomes, err := co.Exec()
	if err != nil {
		return 0, false, err
	}
	if outcomes == nil {
		return 0, true, nil // WATCH aborted; caller retries on a fresh Core
	}
	return newVal, false, nil
}
