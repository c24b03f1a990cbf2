package pubsub

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redisconn/internal/resp"
	"redisconn/internal/transport"
)

// fakePush serves the far end of a net.Pipe: decode outgoing commands
// (discarding them — tests only care about what frames come back) and
// write a fixed sequence of push frames, decoupled the same way
// internal/core's test server is to avoid a net.Pipe deadlock.
func fakePush(t *testing.T, conn net.Conn, frames []string) {
	t.Helper()
	go func() {
		defer conn.Close()
		r := bufio.NewReader(conn)
		go func() {
			for {
				if _, err := resp.NewDecoder(r, 0).Decode(); err != nil {
					return
				}
			}
		}()
		for _, frame := range frames {
			if _, err := conn.Write([]byte(frame)); err != nil {
				return
			}
		}
		// keep the connection open until the test closes it, so the
		// reader goroutine blocks on the next ReadOne instead of
		// observing a premature EOF.
		<-make(chan struct{})
	}()
}

func newTestSubscription(t *testing.T, frames []string) *Subscription {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	fakePush(t, serverConn, frames)
	tr := transport.New(clientConn, transport.DefaultOptions())
	return New(tr, nil)
}

func recvMessage(t *testing.T, s *Subscription) Message {
	t.Helper()
	select {
	case msg, ok := <-s.Messages():
		require.True(t, ok, "messages channel closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestSubscribeAck(t *testing.T) {
	s := newTestSubscription(t, []string{
		"*3\r\n$9\r\nsubscribe\r\n$4\r\nnews\r\n:1\r\n",
	})
	defer s.Close()

	require.NoError(t, s.Subscribe(context.Background(), "news"))

	msg := recvMessage(t, s)
	assert.Equal(t, KindSubscribe, msg.Kind)
	assert.Equal(t, "news", msg.Channel)
	assert.EqualValues(t, 1, msg.Count)
	assert.Contains(t, s.Channels(), "news")
}

func TestMessageFrame(t *testing.T) {
	s := newTestSubscription(t, []string{
		"*3\r\n$9\r\nsubscribe\r\n$4\r\nnews\r\n:1\r\n",
		"*3\r\n$7\r\nmessage\r\n$4\r\nnews\r\n$5\r\nhello\r\n",
	})
	defer s.Close()

	require.NoError(t, s.Subscribe(context.Background(), "news"))
	_ = recvMessage(t, s) // subscribe ack

	msg := recvMessage(t, s)
	assert.Equal(t, KindMessage, msg.Kind)
	assert.Equal(t, "news", msg.Channel)
	assert.Equal(t, []byte("hello"), msg.Payload)
}

func TestPMessageFrame(t *testing.T) {
	s := newTestSubscription(t, []string{
		"*3\r\n$10\r\npsubscribe\r\n$5\r\nnews.\r\n:1\r\n",
		"*4\r\n$8\r\npmessage\r\n$5\r\nnews.\r\n$8\r\nnews.tec\r\n$5\r\nhello\r\n",
	})
	defer s.Close()

	require.NoError(t, s.PSubscribe(context.Background(), "news."))
	_ = recvMessage(t, s) // psubscribe ack

	msg := recvMessage(t, s)
	assert.Equal(t, KindPMessage, msg.Kind)
	assert.Equal(t, "news.", msg.Pattern)
	assert.Equal(t, "news.tec", msg.Channel)
	assert.Equal(t, []byte("hello"), msg.Payload)
}

func TestUnsubscribeToZeroClosesSubscription(t *testing.T) {
	s := newTestSubscription(t, []string{
		"*3\r\n$9\r\nsubscribe\r\n$4\r\nnews\r\n:1\r\n",
		"*3\r\n$11\r\nunsubscribe\r\n$4\r\nnews\r\n:0\r\n",
	})

	require.NoError(t, s.Subscribe(context.Background(), "news"))
	_ = recvMessage(t, s) // subscribe ack

	require.NoError(t, s.Unsubscribe(context.Background(), "news"))
	msg := recvMessage(t, s)
	assert.Equal(t, KindUnsubscribe, msg.Kind)
	assert.EqualValues(t, 0, msg.Count)

	// The reader goroutine tears itself down once channels and
	// patterns are both empty; Messages should close shortly after.
	select {
	case _, ok := <-s.Messages():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription did not close after draining to zero")
	}
}
