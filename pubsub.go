package redisconn

import (
	"context"

	internalpubsub "redisconn/internal/pubsub"
	"redisconn/internal/resp"
)

// PubSub re-exports the Subscription Machine's message shapes so
// callers never need to import redisconn/internal/pubsub directly.
type PubSub = internalpubsub.Subscription

// Message is one decoded push frame: message, pmessage, subscribe,
// unsubscribe, psubscribe, or punsubscribe.
type Message = internalpubsub.Message

// Subscribe leases a Core, transitions it to Subscribed, and starts a
// Subscription Machine over it. The underlying connection is never
// returned to the Pool — Close()ing the returned PubSub (or draining
// it to zero channels/patterns) closes the connection outright, and
// the Pool dials a replacement on its next Lease.
func (c *Client) Subscribe(ctx context.Context, channels ...string) (*PubSub, error) {
	co, err := c.leaseCore(ctx)
	if err != nil {
		return nil, err
	}
	if err := co.BeginSubscription(); err != nil {
		c.releaseCore(co)
		return nil, err
	}
	// The Pool's slot accounting treats this Core as permanently gone
	// the moment it leaves Normal mode for Subscribed; Release would
	// otherwise try to recycle it.
	c.pool.discardSlot()

	sub := internalpubsub.New(co.Transport(), c.log)
	if err := sub.Subscribe(ctx, channels...); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}

// PSubscribe is Subscribe's pattern-matching counterpart.
func (c *Client) PSubscribe(ctx context.Context, patterns ...string) (*PubSub, error) {
	co, err := c.leaseCore(ctx)
	if err != nil {
		return nil, err
	}
	if err := co.BeginSubscription(); err != nil {
		c.releaseCore(co)
		return nil, err
	}
	c.pool.discardSlot()

	sub := internalpubsub.New(co.Transport(), c.log)
	if err := sub.PSubscribe(ctx, patterns...); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}

// Publish sends a message to a channel and returns the number of
// subscribers that received it.
func (c *Client) Publish(ctx context.Context, channel string, message string) (int64, error) {
	reply, err := c.Do(ctx, resp.NewCommand("PUBLISH", channel, message))
	if err != nil {
		return 0, err
	}
	return reply.Integer, nil
}
