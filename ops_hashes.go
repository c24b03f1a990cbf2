package redisconn

import (
	"context"

	"github.com/shopspring/decimal"
)

// HSet sets field to value in the hash at key and reports whether field was
// newly created.
func (c *Client) HSet(ctx context.Context, key, field, value string) (bool, error) {
	r, err := c.Do(ctx, cmd("HSET", key, field, value))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// HSetNx sets field to value only if field does not already exist.
func (c *Client) HSetNx(ctx context.Context, key, field, value string) (bool, error) {
	r, err := c.Do(ctx, cmd("HSETNX", key, field, value))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// HGet returns field's value, or (\"\", false) if absent.
func (c *Client) HGet(ctx context.Context, key, field string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("HGET", key, field))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// HMSet sets several fields at once. fieldsAndValues alternates field,
// value, field, value, ...
func (c *Client) HMSet(ctx context.Context, key string, fieldsAndValues ...string) error {
	_, err := c.Do(ctx, withKeyVals("HMSET", key, fieldsAndValues...))
	return err
}

// HMGet returns one value per requested field; a missing field's slot is nil.
func (c *Client) HMGet(ctx context.Context, key string, fields ...string) ([]*string, error) {
	r, err := c.Do(ctx, withKeyVals("HMGET", key, fields...))
	if err != nil {
		return nil, err
	}
	return arrayStringPtrs(r), nil
}

// HDel removes fields from the hash at key and returns how many were removed.
func (c *Client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("HDEL", key, fields...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// HExists reports whether field is present in the hash at key.
func (c *Client) HExists(ctx context.Context, key, field string) (bool, error) {
	r, err := c.Do(ctx, cmd("HEXISTS", key, field))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// HKeys returns every field name in the hash at key.
func (c *Client) HKeys(ctx context.Context, key string) ([]string, error) {
	r, err := c.Do(ctx, cmd("HKEYS", key))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// HVals returns every value in the hash at key.
func (c *Client) HVals(ctx context.Context, key string) ([]string, error) {
	r, err := c.Do(ctx, cmd("HVALS", key))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// HGetAll returns the hash at key as a field->value map.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	r, err := c.Do(ctx, cmd("HGETALL", key))
	if err != nil {
		return nil, err
	}
	flat := arrayStrings(r)
	out := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out[flat[i]] = flat[i+1]
	}
	return out, nil
}

// HLen returns the number of fields in the hash at key.
func (c *Client) HLen(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("HLEN", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// HIncrBy adds delta to field's integer value.
func (c *Client) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	r, err := c.Do(ctx, cmd("HINCRBY", key, field, decimal.NewFromInt(delta).String()))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// HIncrByFloat adds a decimal delta to field's value and returns the new value.
func (c *Client) HIncrByFloat(ctx context.Context, key, field string, delta decimal.Decimal) (decimal.Decimal, error) {
	r, err := c.Do(ctx, cmd("HINCRBYFLOAT", key, field, delta.String()))
	if err != nil {
		return decimal.Zero, err
	}
	return asDecimal(r)
}

func (p *Pipeline) HSet(key, field, value string) { p.queue(cmd("HSET", key, field, value)) }
func (p *Pipeline) HDel(key string, fields ...string) {
	p.queue(withKeyVals("HDEL", key, fields...))
}

func (t *Tx) HSet(key, field, value string) { t.queue(cmd("HSET", key, field, value)) }
func (t *Tx) HDel(key string, fields ...string) {
	t.queue(withKeyVals("HDEL", key, fields...))
}
