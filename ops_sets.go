package redisconn

import "context"

// SAdd adds members to the set at key and returns how many were newly added.
func (c *Client) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("SADD", key, members...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SRem removes members from the set at key and returns how many were removed.
func (c *Client) SRem(ctx context.Context, key string, members ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("SREM", key, members...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SMembers returns every member of the set at key.
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	r, err := c.Do(ctx, cmd("SMEMBERS", key))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// SIsMember reports whether member is in the set at key.
func (c *Client) SIsMember(ctx context.Context, key, member string) (bool, error) {
	r, err := c.Do(ctx, cmd("SISMEMBER", key, member))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

// SCard returns the cardinality of the set at key.
func (c *Client) SCard(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("SCARD", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SInter returns the intersection of the given sets.
func (c *Client) SInter(ctx context.Context, keys ...string) ([]string, error) {
	r, err := c.Do(ctx, cmd("SINTER", keys...))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// SInterStore stores the intersection of srcKeys at dest and returns its cardinality.
func (c *Client) SInterStore(ctx context.Context, dest string, srcKeys ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("SINTERSTORE", dest, srcKeys...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SUnion returns the union of the given sets.
func (c *Client) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	r, err := c.Do(ctx, cmd("SUNION", keys...))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// SUnionStore stores the union of srcKeys at dest and returns its cardinality.
func (c *Client) SUnionStore(ctx context.Context, dest string, srcKeys ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("SUNIONSTORE", dest, srcKeys...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SDiff returns the difference of the given sets, key[0] minus the rest.
func (c *Client) SDiff(ctx context.Context, keys ...string) ([]string, error) {
	r, err := c.Do(ctx, cmd("SDIFF", keys...))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// SDiffStore stores the difference of srcKeys at dest and returns its cardinality.
func (c *Client) SDiffStore(ctx context.Context, dest string, srcKeys ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("SDIFFSTORE", dest, srcKeys...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// SPop removes and returns a random member of the set at key.
func (c *Client) SPop(ctx context.Context, key string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("SPOP", key))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// SRandMember returns a random member of the set at key without removing it.
func (c *Client) SRandMember(ctx context.Context, key string) (string, bool, error) {
	r, err := c.Do(ctx, cmd("SRANDMEMBER", key))
	if err != nil {
		return "", false, err
	}
	s, ok := bulkString(r)
	return s, ok, nil
}

// SMove atomically moves member from src to dst and reports whether it was
// present in src.
func (c *Client) SMove(ctx context.Context, src, dst, member string) (bool, error) {
	r, err := c.Do(ctx, cmd("SMOVE", src, dst, member))
	if err != nil {
		return false, err
	}
	return asBool(r), nil
}

func (p *Pipeline) SAdd(key string, members ...string) { p.queue(withKeyVals("SADD", key, members...)) }
func (p *Pipeline) SRem(key string, members ...string) { p.queue(withKeyVals("SREM", key, members...)) }

func (t *Tx) SAdd(key string, members ...string) { t.queue(withKeyVals("SADD", key, members...)) }
func (t *Tx) SRem(key string, members ...string) { t.queue(withKeyVals("SREM", key, members...)) }
