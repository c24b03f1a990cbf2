package redisconn

import (
	"context"
	"strconv"
)

// Ping checks liveness; an empty message pings with no payload.
func (c *Client) Ping(ctx context.Context, message string) (string, error) {
	if message == "" {
		r, err := c.Do(ctx, cmd("PING"))
		if err != nil {
			return "", err
		}
		return r.Str, nil
	}
	r, err := c.Do(ctx, cmd("PING", message))
	if err != nil {
		return "", err
	}
	s, _ := bulkString(r)
	return s, nil
}

// Echo returns message unchanged, round-tripped through the server.
func (c *Client) Echo(ctx context.Context, message string) (string, error) {
	r, err := c.Do(ctx, cmd("ECHO", message))
	if err != nil {
		return "", err
	}
	s, _ := bulkString(r)
	return s, nil
}

// Info returns the server's INFO report, optionally scoped to one section.
func (c *Client) Info(ctx context.Context, section string) (string, error) {
	args := []string{}
	if section != "" {
		args = append(args, section)
	}
	r, err := c.Do(ctx, cmd("INFO", args...))
	if err != nil {
		return "", err
	}
	s, _ := bulkString(r)
	return s, nil
}

// DBSize returns the number of keys in the selected database.
func (c *Client) DBSize(ctx context.Context) (int64, error) {
	r, err := c.Do(ctx, cmd("DBSIZE"))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// FlushDB removes every key from the selected database.
func (c *Client) FlushDB(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("FLUSHDB"))
	return err
}

// FlushAll removes every key from every database.
func (c *Client) FlushAll(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("FLUSHALL"))
	return err
}

// Save performs a synchronous snapshot save.
func (c *Client) Save(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("SAVE"))
	return err
}

// BgSave triggers a background snapshot save.
func (c *Client) BgSave(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("BGSAVE"))
	return err
}

// BgRewriteAOF triggers a background append-only-file rewrite.
func (c *Client) BgRewriteAOF(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("BGREWRITEAOF"))
	return err
}

// ConfigGet returns config parameters matching pattern as a name->value map.
func (c *Client) ConfigGet(ctx context.Context, pattern string) (map[string]string, error) {
	r, err := c.Do(ctx, cmd("CONFIG", "GET", pattern))
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

// ConfigSet sets a single config parameter.
func (c *Client) ConfigSet(ctx context.Context, name, value string) error {
	_, err := c.Do(ctx, cmd("CONFIG", "SET", name, value))
	return err
}

// ConfigResetStat resets INFO's cumulative statistics counters.
func (c *Client) ConfigResetStat(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("CONFIG", "RESETSTAT"))
	return err
}

// LastSave returns the Unix timestamp of the last successful save.
func (c *Client) LastSave(ctx context.Context) (int64, error) {
	r, err := c.Do(ctx, cmd("LASTSAVE"))
	if err != nil {
		return 0, err
	}
	return r.Integer, nil
}

// Shutdown asks the server to shut down; nosave requests skipping a final save.
func (c *Client) Shutdown(ctx context.Context, nosave bool) error {
	if nosave {
		_, err := c.Do(ctx, cmd("SHUTDOWN", "NOSAVE"))
		return err
	}
	_, err := c.Do(ctx, cmd("SHUTDOWN"))
	return err
}

// Select switches the active database on a single leased connection. Since
// Do leases a fresh Core per call, this only affects that one Core for the
// rest of its time in the Pool; callers that need a persistent database
// selection should set Options.Database instead, which every dial applies
// once up front.
func (c *Client) Select(ctx context.Context, db int) error {
	_, err := c.Do(ctx, cmd("SELECT", strconv.Itoa(db)))
	return err
}
