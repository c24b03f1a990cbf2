package redisconn

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"redisconn/internal/resp"
)

// ZAdd adds scored members to the sorted set at key. members alternates
// score, member, score, member, ... and returns the count of newly added
// elements.
func (c *Client) ZAdd(ctx context.Context, key string, scoresAndMembers ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("ZADD", key, scoresAndMembers...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZRem removes members from the sorted set at key.
func (c *Client) ZRem(ctx context.Context, key string, members ...string) (int64, error) {
	r, err := c.Do(ctx, withKeyVals("ZREM", key, members...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZScored is one member and its score, the result shape for WITHSCORES
// range queries.
type ZScored struct {
	Member string
	Score  decimal.Decimal
}

func decodeZScored(r resp.Reply) ([]ZScored, error) {
	flat := arrayStrings(r)
	out := make([]ZScored, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		score, err := decimal.NewFromString(flat[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, ZScored{Member: flat[i], Score: score})
	}
	return out, nil
}

// ZRange returns members ranked [start, stop] in ascending order.
func (c *Client) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	r, err := c.Do(ctx, cmd("ZRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// ZRangeWithScores is ZRange with each member's score attached.
func (c *Client) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZScored, error) {
	r, err := c.Do(ctx, cmd("ZRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10), "WITHSCORES"))
	if err != nil {
		return nil, err
	}
	return decodeZScored(r)
}

// ZRevRange is ZRange's descending counterpart.
func (c *Client) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	r, err := c.Do(ctx, cmd("ZREVRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// ZRevRangeWithScores is ZRevRange with each member's score attached.
func (c *Client) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZScored, error) {
	r, err := c.Do(ctx, cmd("ZREVRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10), "WITHSCORES"))
	if err != nil {
		return nil, err
	}
	return decodeZScored(r)
}

// ZRangeByScore returns members with score in [min, max], ascending.
func (c *Client) ZRangeByScore(ctx context.Context, key, min, max string) ([]string, error) {
	r, err := c.Do(ctx, cmd("ZRANGEBYSCORE", key, min, max))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// ZRangeByScoreWithScores is ZRangeByScore with each member's score attached.
func (c *Client) ZRangeByScoreWithScores(ctx context.Context, key, min, max string) ([]ZScored, error) {
	r, err := c.Do(ctx, cmd("ZRANGEBYSCORE", key, min, max, "WITHSCORES"))
	if err != nil {
		return nil, err
	}
	return decodeZScored(r)
}

// ZRevRangeByScore is ZRangeByScore's descending counterpart; Redis expects
// max before min on the wire for this variant.
func (c *Client) ZRevRangeByScore(ctx context.Context, key, max, min string) ([]string, error) {
	r, err := c.Do(ctx, cmd("ZREVRANGEBYSCORE", key, max, min))
	if err != nil {
		return nil, err
	}
	return arrayStrings(r), nil
}

// ZRevRangeByScoreWithScores is ZRevRangeByScore with each member's score attached.
func (c *Client) ZRevRangeByScoreWithScores(ctx context.Context, key, max, min string) ([]ZScored, error) {
	r, err := c.Do(ctx, cmd("ZREVRANGEBYSCORE", key, max, min, "WITHSCORES"))
	if err != nil {
		return nil, err
	}
	return decodeZScored(r)
}

// ZCard returns the cardinality of the sorted set at key.
func (c *Client) ZCard(ctx context.Context, key string) (int64, error) {
	r, err := c.Do(ctx, cmd("ZCARD", key))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZCount counts members with score in [min, max].
func (c *Client) ZCount(ctx context.Context, key, min, max string) (int64, error) {
	r, err := c.Do(ctx, cmd("ZCOUNT", key, min, max))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZScore returns member's score, or (zero, false) if it's not in the set.
func (c *Client) ZScore(ctx context.Context, key, member string) (decimal.Decimal, bool, error) {
	r, err := c.Do(ctx, cmd("ZSCORE", key, member))
	if err != nil {
		return decimal.Zero, false, err
	}
	if r.Null {
		return decimal.Zero, false, nil
	}
	d, err := asDecimal(r)
	return d, true, err
}

// ZRank returns member's ascending rank, or (0, false) if it's not in the set.
func (c *Client) ZRank(ctx context.Context, key, member string) (int64, bool, error) {
	r, err := c.Do(ctx, cmd("ZRANK", key, member))
	if err != nil {
		return 0, false, err
	}
	if r.Null {
		return 0, false, nil
	}
	return r.Integer, true, nil
}

// ZRevRank is ZRank's descending counterpart.
func (c *Client) ZRevRank(ctx context.Context, key, member string) (int64, bool, error) {
	r, err := c.Do(ctx, cmd("ZREVRANK", key, member))
	if err != nil {
		return 0, false, err
	}
	if r.Null {
		return 0, false, nil
	}
	return r.Integer, true, nil
}

// ZIncrBy adds delta to member's score and returns the new score.
func (c *Client) ZIncrBy(ctx context.Context, key string, delta decimal.Decimal, member string) (decimal.Decimal, error) {
	r, err := c.Do(ctx, cmd("ZINCRBY", key, delta.String(), member))
	if err != nil {
		return decimal.Zero, err
	}
	return asDecimal(r)
}

// ZRemRangeByRank removes members ranked [start, stop] and returns the count removed.
func (c *Client) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (int64, error) {
	r, err := c.Do(ctx, cmd("ZREMRANGEBYRANK", key, strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZRemRangeByScore removes members with score in [min, max] and returns the count removed.
func (c *Client) ZRemRangeByScore(ctx context.Context, key, min, max string) (int64, error) {
	r, err := c.Do(ctx, cmd("ZREMRANGEBYSCORE", key, min, max))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZInterStore stores the intersection of srcKeys, scores summed, at dest.
func (c *Client) ZInterStore(ctx context.Context, dest string, numKeys int, srcKeys ...string) (int64, error) {
	args := append([]string{dest, strconv.Itoa(numKeys)}, srcKeys...)
	r, err := c.Do(ctx, cmd("ZINTERSTORE", args...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// ZUnionStore stores the union of srcKeys, scores summed, at dest.
func (c *Client) ZUnionStore(ctx context.Context, dest string, numKeys int, srcKeys ...string) (int64, error) {
	args := append([]string{dest, strconv.Itoa(numKeys)}, srcKeys...)
	r, err := c.Do(ctx, cmd("ZUNIONSTORE", args...))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

func (p *Pipeline) ZAdd(key string, scoresAndMembers ...string) {
	p.queue(withKeyVals("ZADD", key, scoresAndMembers...))
}
func (p *Pipeline) ZRem(key string, members ...string) { p.queue(withKeyVals("ZREM", key, members...)) }

func (t *Tx) ZAdd(key string, scoresAndMembers ...string) {
	t.queue(withKeyVals("ZADD", key, scoresAndMembers...))
}
func (t *Tx) ZRem(key string, members ...string) { t.queue(withKeyVals("ZREM", key, members...)) }
