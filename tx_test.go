package redisconn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTxWatchExecSuccess exercises WATCH -> GET -> MULTI -> SET -> EXEC all
// on one Core, the sequence AtomicCounter relies on.
func TestTxWatchExecSuccess(t *testing.T) {
	addr := scriptedServer(t, []string{
		"+OK\r\n",             // WATCH
		"$2\r\n10\r\n",        // GET n
		"+OK\r\n",             // MULTI
		"+QUEUED\r\n",         // SET n 11 (queued)
		"*1\r\n+OK\r\n",       // EXEC
	})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = false
	c := NewClient(opts)
	defer c.Close()

	counter := c.NewAtomicCounter("n", 1)
	newVal, err := counter.Add(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 11, newVal)
}

// TestTxExecAbortReturnsNilOutcomes exercises the WATCH-aborted path: EXEC's
// null multi-bulk becomes a nil outcome slice with no error.
func TestTxExecAbortReturnsNilOutcomes(t *testing.T) {
	addr := scriptedServer(t, []string{
		"+OK\r\n",     // WATCH
		"+OK\r\n",     // MULTI
		"+QUEUED\r\n", // SET (queued)
		"*-1\r\n",     // EXEC aborted
	})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = false
	c := NewClient(opts)
	defer c.Close()

	tx, err := c.Watch(context.Background(), "n")
	require.NoError(t, err)
	tx.Set("n", "100")
	outcomes, err := tx.Exec()
	require.NoError(t, err)
	assert.Nil(t, outcomes)
}
