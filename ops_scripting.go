package redisconn

import (
	"context"
	"strconv"

	"redisconn/internal/resp"
)

// Eval runs a Lua script with numKeys of keysAndArgs treated as KEYS[]
// and the remainder as ARGV[]. Scripts can return any reply shape, so
// Eval hands back the raw Reply for the caller to type-switch on,
// matching how the server itself leaves script return values untyped
// until the caller inspects them.
func (c *Client) Eval(ctx context.Context, script string, numKeys int, keysAndArgs ...string) (resp.Reply, error) {
	args := append([]string{script, strconv.Itoa(numKeys)}, keysAndArgs...)
	return c.Do(ctx, cmd("EVAL", args...))
}

// EvalSha is Eval by cached script SHA1 digest.
func (c *Client) EvalSha(ctx context.Context, sha1 string, numKeys int, keysAndArgs ...string) (resp.Reply, error) {
	args := append([]string{sha1, strconv.Itoa(numKeys)}, keysAndArgs...)
	return c.Do(ctx, cmd("EVALSHA", args...))
}

// ScriptLoad loads script into the script cache and returns its SHA1 digest.
func (c *Client) ScriptLoad(ctx context.Context, script string) (string, error) {
	r, err := c.Do(ctx, cmd("SCRIPT", "LOAD", script))
	if err != nil {
		return "", err
	}
	s, _ := bulkString(r)
	return s, nil
}

// ScriptExists reports, per sha1 in order, whether it is cached.
func (c *Client) ScriptExists(ctx context.Context, sha1s ...string) ([]bool, error) {
	args := append([]string{"EXISTS"}, sha1s...)
	r, err := c.Do(ctx, cmd("SCRIPT", args...))
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(r.Array))
	for i, e := range r.Array {
		out[i] = e.Integer != 0
	}
	return out, nil
}

// ScriptFlush clears the script cache.
func (c *Client) ScriptFlush(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("SCRIPT", "FLUSH"))
	return err
}

// ScriptKill terminates the currently running script, if any.
func (c *Client) ScriptKill(ctx context.Context) error {
	_, err := c.Do(ctx, cmd("SCRIPT", "KILL"))
	return err
}
