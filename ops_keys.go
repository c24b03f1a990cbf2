package redisconn

import (
	"context"
	"strconv"

	"redisconn/internal/resp"
)

// Del deletes keys and returns how many existed and were removed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	r, err := c.Do(ctx, cmd("DEL", keys...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// Exists counts how many of keys exist (a key repeated in the argument list
// counts once per occurrence, matching the server's own semantics).
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	r, err := c.Do(ctx, cmd("EXISTS", keys...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// Keys returns every key matching pattern (glob-style).
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	r, err := c.Do(ctx, cmd("KEYS", pattern))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// Type returns the type name of key's value ("string", "list", "set",
// "zset", "hash", or "none" if key does not exist).
func (c *Client) Type(ctx context.Context, key string) (string, error) {
	r, err := c.Do(ctx, cmd("TYPE", key))
	if err != nil {
		return "", err
	}
	return r.Str, nil
}

// Rename renames src to dst, overwriting dst if it exists.
func (c *Client) Rename(ctx context.Context, src, dst string) error {
	_, err := c.Do(ctx, cmd("RENAME", src, dst))
	return err
}

// RenameNx renames src to dst only if dst does not already exist.
func (c *Client) RenameNx(ctx context.Context, src, dst string) (bool, error) {
	r, err := c.Do(ctx, cmd("RENAMENX", src, dst))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// Expire sets key's TTL to ttlSeconds and reports whether key existed.
func (c *Client) Expire(ctx context.Context, key string, ttlSeconds int64) (bool, error) {
	r, err := c.Do(ctx, cmd("EXPIRE", key, strconv.FormatInt(ttlSeconds, 10)))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// PExpire is Expire with a millisecond TTL.
func (c *Client) PExpire(ctx context.Context, key string, ttlMillis int64) (bool, error) {
	r, err := c.Do(ctx, cmd("PEXPIRE", key, strconv.FormatInt(ttlMillis, 10)))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// ExpireAt sets key's expiration to a Unix timestamp in seconds.
func (c *Client) ExpireAt(ctx context.Context, key string, unixSeconds int64) (bool, error) {
	r, err := c.Do(ctx, cmd("EXPIREAT", key, strconv.FormatInt(unixSeconds, 10)))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// PExpireAt is ExpireAt with a millisecond Unix timestamp.
func (c *Client) PExpireAt(ctx context.Context, key string, unixMillis int64) (bool, error) {
	r, err := c.Do(ctx, cmd("PEXPIREAT", key, strconv.FormatInt(unixMillis, 10)))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// TTL returns key's remaining time to live in seconds, -1 if it has no
// expiry, or -2 if it does not exist.
func (c *Client) TTL(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("TTL", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// PTTL is TTL reported in milliseconds.
func (c *Client) PTTL(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("PTTL", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// Persist removes key's expiry and reports whether it had one.
func (c *Client) Persist(ctx context.Context, key string) (bool, error) {
	r, err := c.Do(ctx, cmd("PERSIST", key))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// RandomKey returns a random key, or (\"\", false) if the keyspace is empty.
func (c *Client) RandomKey(ctx context.Context) (string, bool, error) {
	r, err := c.Do(ctx, cmd("RANDOMKEY"))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// Move moves key to database db and reports whether it was moved.
func (c *Client) Move(ctx context.Context, key string, db int) (bool, error) {
	r, err := c.Do(ctx, cmd("MOVE", key, strconv.Itoa(db)))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// Dump returns key's serialized value in the server's DUMP format, or
// (nil, false) if key does not exist.
func (c *Client) Dump(ctx context.Context, key string) ([]byte, bool, error) {
	r, err := c.Do(ctx, cmd("DUMP", key))
	if err != nil {
		return nil, false, err
	}
	if r.Null {
		return nil, false, nil
	}
	return r.Bulk, true, nil
}

// Restore recreates key from a payload previously produced by Dump,
// expiring after ttlMillis (0 for no expiry).
func (c *Client) Restore(ctx context.Context, key string, ttlMillis int64, payload []byte) error {
	_, err := c.Do(ctx, resp.NewCommandBytes("RESTORE", []byte(key), []byte(strconv.FormatInt(ttlMillis, 10)), payload))
	return err
}

// Sort applies SORT to the collection at key with extra args (e.g. "LIMIT",
// "0", "10", "DESC", "STORE", "dest"). Without STORE the reply is the
// sorted elements; with STORE it is the stored length — both decode
// through the same method by output shape, matching the server's own
// command.
func (c *Client) Sort(ctx context.Context, key string, args ...string) ([]string, int64, error) {
	r, err := c.Do(ctx, withKeyVals("SORT", key, args...))
	if err != nil {
		return nil, 0, err
	}
	if r.Kind == resp.KindInteger {
		return nil, r.Integer, nil
	}
	return arrayStrings(r), 0, nil
}

func (p *Pipeline) Del(keys ...string)    { p.queue(cmd("DEL", keys...)) }
func (p *Pipeline) Expire(key string, ttlSeconds int64) {
	p.queue(cmd("EXPIRE", key, strconv.FormatInt(ttlSeconds, 10)))
}

func (t *Tx) Expire(key string, ttlSeconds int64) {
	t.queue(cmd("EXPIRE", key, strconv.FormatInt(ttlSeconds, 10)))
}
