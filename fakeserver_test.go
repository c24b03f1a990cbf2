package redisconn

import (
	"bufio"
	"net"
	"testing"

	"redisconn/internal/resp"
)

// scriptedServer accepts connections on a local TCP listener and replies
// to every decoded command with the next entry in script, looping once
// exhausted — enough to exercise Pool/Client dial, lease, release, and
// health-check round trips without a real Redis server. Modeled on
// internal/core/core_test.go's fakeServer, generalized from one
// connection to Accept-in-a-loop since the Pool dials more than once.
func scriptedServer(t *testing.T, script []string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveScripted(conn, script)
		}
	}()
	return ln.Addr().String()
}

func serveScripted(conn net.Conn, script []string) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	decoder := resp.NewDecoder(r, 0)
	i := 0
	for {
		if _, err := decoder.Decode(); err != nil {
			return
		}
		reply := script[i%len(script)]
		i++
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}
