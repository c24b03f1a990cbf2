package redisconn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redisconn/internal/rerrors"
)

func TestClientDoSuccess(t *testing.T) {
	addr := scriptedServer(t, []string{"+OK\r\n"})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = false
	c := NewClient(opts)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "foo", "bar"))
}

func TestClientDoServerErrorStillReleasesCore(t *testing.T) {
	addr := scriptedServer(t, []string{"-ERR boom\r\n", "+PONG\r\n", "$-1\r\n"})
	opts := testOptions(addr)
	opts.HealthCheckOnLease = true
	opts.MaxConnections = 1
	c := NewClient(opts)
	defer c.Close()

	ctx := context.Background()
	_, err := c.Get(ctx, "foo")
	require.Error(t, err)
	var taxErr *rerrors.TaxonomyError
	require.True(t, errors.As(err, &taxErr))
	assert.Equal(t, rerrors.ServerErrorKind, taxErr.Kind)

	// The Core must have gone back to the Pool (Normal mode, not closed) for
	// a second Do on the same 1-connection Pool to succeed at all.
	_, err = c.Get(ctx, "foo")
	assert.NoError(t, err)
}
