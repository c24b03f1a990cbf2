//go:build integration

package redisconn_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	redisconn "redisconn"
	"redisconn/internal/resp"
)

func bulkStr(r resp.Reply) (string, bool) {
	if r.Kind != resp.KindBulkString || r.Null {
		return "", false
	}
	return string(r.Bulk), true
}

func blpopCommand(key string) resp.Command {
	return resp.NewCommand("BLPOP", key, "5")
}

var (
	containerHost string
	containerPort int
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(2 * time.Minute),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if ctr != nil {
			_ = ctr.Terminate(ctx)
		}
		_, _ = fmt.Fprintf(os.Stderr, "start redis container: %v\n", err)
		os.Exit(1)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "container host: %v\n", err)
		os.Exit(1)
	}
	port, err := ctr.MappedPort(ctx, "6379")
	if err != nil {
		_ = ctr.Terminate(ctx)
		_, _ = fmt.Fprintf(os.Stderr, "container port: %v\n", err)
		os.Exit(1)
	}

	containerHost = host
	containerPort = port.Int()

	code := m.Run()
	_ = ctr.Terminate(ctx)
	os.Exit(code)
}

func newTestClient(t *testing.T) *redisconn.Client {
	t.Helper()
	opts := redisconn.DefaultOptions()
	opts.Addr = fmt.Sprintf("%s:%d", containerHost, containerPort)
	opts.MaxConnections = 4
	c := redisconn.NewClient(opts)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// S1: SET/GET round-trips a value.
func TestS1SetGet(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", "bar"))
	v, ok, err := c.Get(ctx, "foo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bar", v)
}

// S2: WATCH/GET/MULTI/SET/EXEC succeeds with no concurrent writer, and
// aborts (nil outcomes) when a concurrent writer changes the watched key
// between WATCH and EXEC.
func TestS2CounterCAS(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "n", "10"))

	counter := c.NewAtomicCounter("n", 1)
	newVal, err := counter.Add(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 11, newVal)

	// Simulate the abort path directly against the Tx API so the test
	// observes the nil-outcome contract itself, not just the retrying
	// AtomicCounter's eventual success.
	tx, err := c.Watch(ctx, "n")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "n", "99")) // concurrent writer, different Core
	tx.Set("n", "100")
	outcomes, err := tx.Exec()
	require.NoError(t, err)
	assert.Nil(t, outcomes)

	v, _, err := c.Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, "99", v) // the aborted transaction never applied
}

// S3: a pipelined INCR against a non-numeric value surfaces a
// PipelinePartial whose outcome list still carries the successful GET.
func TestS3PipelinePartialError(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "abc"))

	pipe, err := c.Pipeline(ctx)
	require.NoError(t, err)
	pipe.Incr("k")
	pipe.Get("k")
	outcomes, err := pipe.Exec()
	require.Error(t, err)
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	s, _ := bulkStr(outcomes[1].Reply)
	assert.Equal(t, "abc", s)
}

// S4: a blocking command queued inside a transaction raises InvalidState
// without ever touching the wire.
func TestS4BlockingInMultiForbidden(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	tx, err := c.Multi(ctx)
	require.NoError(t, err)
	tx.Send(blpopCommand("q"))
	_, err = tx.Exec()
	require.Error(t, err)
}

// S5: a subscriber receives a published message, and unsubscribing to
// zero channels tears down the subscription.
func TestS5SubscribePublish(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sub, err := c.Subscribe(ctx, "ch")
	require.NoError(t, err)

	publisher := newTestClient(t)
	n, err := publisher.Publish(ctx, "ch", "hello")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, "ch", msg.Channel)
		assert.Equal(t, []byte("hello"), msg.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published message")
	}

	require.NoError(t, sub.Unsubscribe(ctx, "ch"))
	time.Sleep(100 * time.Millisecond)
	select {
	case _, open := <-sub.Messages():
		assert.False(t, open)
	default:
	}
}

// S6: a missing key's GET is the nil sentinel, distinct from an empty
// string's GET.
func TestS6NilVsEmptyBulk(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing-"+t.Name())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "empty-"+t.Name(), ""))
	v, ok, err := c.Get(ctx, "empty-"+t.Name())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", v)
}
