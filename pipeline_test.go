package redisconn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineExecPreservesOrder(t *testing.T) {
	addr := scriptedServer(t, []string{":1\r\n", ":2\r\n", "$1\r\n2\r\n"})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = false
	c := NewClient(opts)
	defer c.Close()

	pipe, err := c.Pipeline(context.Background())
	require.NoError(t, err)
	pipe.Incr("counter")
	pipe.Incr("counter")
	pipe.Get("counter")

	outcomes, err := pipe.Exec()
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.EqualValues(t, 1, outcomes[0].Reply.Integer)
	assert.EqualValues(t, 2, outcomes[1].Reply.Integer)
	assert.Equal(t, "2", string(outcomes[2].Reply.Bulk))
}

func TestPipelineQueueRejectsBlockingCommand(t *testing.T) {
	addr := scriptedServer(t, []string{"+OK\r\n"})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = false
	c := NewClient(opts)
	defer c.Close()

	pipe, err := c.Pipeline(context.Background())
	require.NoError(t, err)
	pipe.Send(cmd("BLPOP", "q", "5"))
	_, err = pipe.Exec()
	assert.Error(t, err)
}
