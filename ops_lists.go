package redisconn

import (
	"context"
	"strconv"
)

// LPush prepends values to the list at key, creating it if absent, and
// returns the resulting length.
func (c *Client) LPush(ctx context.Context, key string, values ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("LPUSH", key, values...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// RPush appends values to the list at key, creating it if absent, and
// returns the resulting length.
func (c *Client) RPush(ctx context.Context, key string, values ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("RPUSH", key, values...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// LPop removes and returns the first element of the list at key.
func (c *Client) LPop(ctx context.Context, key string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("LPOP", key))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// RPop removes and returns the last element of the list at key.
func (c *Client) RPop(ctx context.Context, key string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("RPOP", key))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// LRange returns elements between start and stop (inclusive, negative
// indices count from the tail).
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	r, err := c.Do(ctx, cmd("LRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// LLen returns the length of the list at key.
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("LLEN", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// LIndex returns the element at index, or (\"\", false) if out of range.
func (c *Client) LIndex(ctx context.Context, key string, index int64) (string, bool, error) {
	r, err := c.Do(ctx, cmd("LINDEX", key, strconv.FormatInt(index, 10)))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// LInsert inserts value before or after the first occurrence of pivot.
// where must be "BEFORE" or "AFTER". Returns the new length, or -1 if
// pivot was not found.
func (c *Client) LInsert(ctx context.Context, key, where, pivot, value string) (int64, error) {
	r, err := c.Do(ctx, cmd("LINSERT", key, where, pivot, value))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// LRem removes up to count occurrences of value (count<0 from the tail,
// count==0 all of them) and returns how many were removed.
func (c *Client) LRem(ctx context.Context, key string, count int64, value string) (int64, error) {
	r, err := c.Do(ctx, cmd("LREM", key, strconv.FormatInt(count, 10), value))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// LSet sets the element at index to value.
func (c *Client) LSet(ctx context.Context, key string, index int64, value string) error {
	_, err := c.Do(ctx, cmd("LSET", key, strconv.FormatInt(index, 10), value))
	return err
}

// LTrim trims the list at key to the [start, stop] range.
func (c *Client) LTrim(ctx context.Context, key string, start, stop int64) error {
	_, err := c.Do(ctx, cmd("LTRIM", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)))
	return err
}

// RPopLPush atomically moves the tail of src onto the head of dst and
// returns the moved element.
func (c *Client) RPopLPush(ctx context.Context, src, dst string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("RPOPLPUSH", src, dst))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// BLPop blocks until an element is available on one of keys or timeoutSeconds
// elapses. Returns the key it popped from and the value, or (\"\",\"\",false)
// on timeout. Forbidden inside a transaction or pipeline (InvalidState).
func (c *Client) BLPop(ctx context.Context, timeoutSeconds int64, keys ...string) (string, string, bool, error) {
	args := append(append([]string{}, keys...), strconv.FormatInt(timeoutSeconds, 10))
	r, err := c.Do(ctx, cmd("BLPOP", args...))
	if err != nil {
		return "", "", false, err
	}
	if r.Null || len(r.Array) != 2 {
		return "", "", false, nil
	}
	k, _ := bulkString(r.Array[0])
	v, _ := bulkString(r.Array[1])
	return k, v, true, nil
}

// BRPop is BLPop's tail-popping counterpart.
func (c *Client) BRPop(ctx context.Context, timeoutSeconds int64, keys ...string) (string, string, bool, error) {
	args := append(append([]string{}, keys...), strconv.FormatInt(timeoutSeconds, 10))
	r, err := c.Do(ctx, cmd("BRPOP", args...))
	if err != nil {
		return "", "", false, err
	}
	if r.Null || len(r.Array) != 2 {
		return "", "", false, nil
	}
	k, _ := bulkString(r.Array[0])
	v, _ := bulkString(r.Array[1])
	return k, v, true, nil
}

// BRPopLPush is RPopLPush's blocking counterpart.
func (c *Client) BRPopLPush(ctx context.Context, src, dst string, timeoutSeconds int64) (string, bool, error) {
	r, err := c.Do(ctx, cmd("BRPOPLPUSH", src, dst, strconv.FormatInt(timeoutSeconds, 10)))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

func (p *Pipeline) LPush(key string, values ...string) { p.queue(withKeyVals("LPUSH", key, values...)) }
func (p *Pipeline) RPush(key string, values ...string) { p.queue(withKeyVals("RPUSH", key, values...)) }
func (p *Pipeline) LPop(key string)                    { p.queue(cmd("LPOP", key)) }
func (p *Pipeline) RPop(key string)                    { p.queue(cmd("RPOP", key)) }
func (p *Pipeline) LRange(key string, start, stop int64) {
	p.queue(cmd("LRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)))
}

func (t *Tx) LPush(key string, values ...string) { t.queue(withKeyVals("LPUSH", key, values...)) }
func (t *Tx) RPush(key string, values ...string) { t.queue(withKeyVals("RPUSH", key, values...)) }
func (t *Tx) LPop(key string)                    { t.queue(cmd("LPOP", key)) }
func (t *Tx) RPop(key string)                    { t.queue(cmd("RPOP", key)) }

// BLPop/BRPop/BRPopLPush have no Pipeline/Tx counterparts: queue (in
// ops_helpers.go's blockingCommands table) rejects them with InvalidState
// if a caller builds the Command by hand and passes it to Send.
