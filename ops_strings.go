package redisconn

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"redisconn/internal/resp"
)

// Get returns the value of key, or (\"\", false) if it does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("GET", key))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// Set stores value under key unconditionally.
func (c *Client) Set(ctx context.Context, key, value string) error {
	_, err := c.Do(ctx, cmd("SET", key, value))
	return err
}

// SetEx stores value under key with a TTL of ttlSeconds.
func (c *Client) SetEx(ctx context.Context, key string, ttlSeconds int64, value string) error {
	_, err := c.Do(ctx, cmd("SETEX", key, strconv.FormatInt(ttlSeconds, 10), value))
	return err
}

// SetNx stores value under key only if key does not already exist.
func (c *Client) SetNx(ctx context.Context, key, value string) (bool, error) {
	r, err := c.Do(ctx, cmd("SETNX", key, value))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// MGet returns one value per key; a missing key's slot is nil.
func (c *Client) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	r, err := c.Do(ctx, cmd("MGET", keys...))
	if err != nil {
		return nil, err
	}
	return arrayStringPtrs(r), nil
}

// MSet stores every key/value pair atomically. pairs must have even length.
func (c *Client) MSet(ctx context.Context, pairs ...string) error {
	_, err := c.Do(ctx, cmd("MSET", pairs...))
	return err
}

// Incr increments key by one, creating it at 1 if absent.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("INCR", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// Decr decrements key by one, creating it at -1 if absent.
func (c *Client) Decr(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("DECR", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// IncrBy adds delta to key.
func (c *Client) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	r, err := c.Do(ctx, cmd("INCRBY", key, strconv.FormatInt(delta, 10)))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// DecrBy subtracts delta from key.
func (c *Client) DecrBy(ctx context.Context, key string, delta int64) (int64, error) {
	r, err := c.Do(ctx, cmd("DECRBY", key, strconv.FormatInt(delta, 10)))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// IncrByFloat adds delta, a decimal amount, to key and returns the new value.
func (c *Client) IncrByFloat(ctx context.Context, key string, delta decimal.Decimal) (decimal.Decimal, error) {
	r, err := c.Do(ctx, cmd("INCRBYFLOAT", key, delta.String()))
	if err != nil {
		return decimal.Zero, err
	}
	return asDecimal(r)
}

// Append appends value to key's existing string, creating it if absent, and
// returns the resulting length.
func (c *Client) Append(ctx context.Context, key, value string) (int64, error) {
	r, err := c.Do(ctx, cmd("APPEND", key, value))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// GetRange returns the substring of key's value between start and end
// (inclusive, Redis-style negative indices allowed).
func (c *Client) GetRange(ctx context.Context, key string, start, end int64) (string, error) {
	r, err := c.Do(ctx, cmd("GETRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(end, 10)))
	if err != nil {
		return "", err
	}
	s, _ := bulkString(r)
	return s, nil
}

// SetRange overwrites key's value at offset with value, zero-padding as
// needed, and returns the resulting length.
func (c *Client) SetRange(ctx context.Context, key string, offset int64, value string) (int64, error) {
	r, err := c.Do(ctx, cmd("SETRANGE", key, strconv.FormatInt(offset, 10), value))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// StrLen returns the length of key's value, or 0 if it does not exist.
func (c *Client) StrLen(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("STRLEN", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// BitCount counts set bits in key's value. Pass no range to count the whole string.
func (c *Client) BitCount(ctx context.Context, key string, byteRange ...int64) (int64, error) {
	args := []string{key}
	for _, v := range byteRange {
		args = append(args, strconv.FormatInt(v, 10))
	}
	r, err := c.Do(ctx, cmd("BITCOUNT", args...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// BitOp applies a bitwise op (AND/OR/XOR/NOT) across srcKeys, storing the
// result at destKey, and returns the resulting string's length.
func (c *Client) BitOp(ctx context.Context, op, destKey string, srcKeys ...string) (int64, error) {
	args := append([]string{op, destKey}, srcKeys...)
	r, err := c.Do(ctx, cmd("BITOP", args...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// GetBit returns the bit value at offset in key's value.
func (c *Client) GetBit(ctx context.Context, key string, offset int64) (int64, error) {
	r, err := c.Do(ctx, cmd("GETBIT", key, strconv.FormatInt(offset, 10)))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SetBit sets the bit at offset to value (0 or 1) and returns the prior bit.
func (c *Client) SetBit(ctx context.Context, key string, offset int64, value int) (int64, error) {
	r, err := c.Do(ctx, cmd("SETBIT", key, strconv.FormatInt(offset, 10), strconv.Itoa(value)))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// --- pipeline/transaction queueing counterparts (thin, untyped by design:
// the queued call's real result only becomes available from Exec) ---

func (p *Pipeline) Get(key string)                { p.queue(cmd("GET", key)) }
func (p *Pipeline) Set(key, value string)         { p.queue(cmd("SET", key, value)) }
func (p *Pipeline) Incr(key string)               { p.queue(cmd("INCR", key)) }
func (p *Pipeline) IncrBy(key string, delta int64) { p.queue(cmd("INCRBY", key, strconv.FormatInt(delta, 10))) }

// Send queues an arbitrary Command, for operations with no typed
// wrapper on Pipeline.
func (p *Pipeline) Send(c resp.Command) { p.queue(c) }

func (t *Tx) Get(key string)                { t.queue(cmd("GET", key)) }
func (t *Tx) Set(key, value string)         { t.queue(cmd("SET", key, value)) }
func (t *Tx) Incr(key string)               { t.queue(cmd("INCR", key)) }
func (t *Tx) IncrBy(key string, delta int64) { t.queue(cmd("INCRBY", key, strconv.FormatInt(delta, 10))) }

// Send queues an arbitrary Command, for operations with no typed wrapper on Tx.
func (t *Tx) Send(c resp.Command) { t.queue(c) }
