package redisconn

import (
	"strings"

	"github.com/shopspring/decimal"

	"redisconn/internal/resp"
)

// blockingCommands are forbidden inside a transaction and inside a
// pipeline — they block the server side, which would hang MULTI/EXEC's
// eager queued-ack reads.
var blockingCommands = map[string]bool{
	"BLPOP": true, "BRPOP": true, "BRPOPLPUSH": true,
}

// rejectedInTransaction reports whether cmd must never be queued inside a
// MULTI/pipeline: blocking commands (would hang the eager queued-ack reads)
// and SCRIPT KILL (kills whatever script is running server-side right now,
// not one queued by this transaction, so queuing it is always a mistake).
func rejectedInTransaction(c resp.Command) bool {
	if blockingCommands[c.Name] {
		return true
	}
	return strings.EqualFold(c.Name, "SCRIPT") && len(c.Args) > 0 && strings.EqualFold(string(c.Args[0]), "KILL")
}

func bulkString(r resp.Reply) (string, bool) {
	if r.Kind != resp.KindBulkString || r.Null {
		return "", false
	}
	return string(r.Bulk), true
}

func arrayStrings(r resp.Reply) []string {
	if r.Array == nil {
		return nil
	}
	out := make([]string, len(r.Array))
	for i, e := range r.Array {
		if s, ok := bulkString(e); ok {
			out[i] = s
		}
	}
	return out
}

// arrayStringPtrs mirrors arrayStrings but keeps nil bulk elements
// distinguishable from empty ones, for commands like MGET where a
// missing key's slot is nil rather than "".
func arrayStringPtrs(r resp.Reply) []*string {
	if r.Array == nil {
		return nil
	}
	out := make([]*string, len(r.Array))
	for i, e := range r.Array {
		if s, ok := bulkString(e); ok {
			v := s
			out[i] = &v
		}
	}
	return out
}

func isOK(r resp.Reply) bool {
	return r.Kind == resp.KindSimpleString && r.Str == "OK"
}

func asBool(r resp.Reply) bool {
	switch r.Kind {
	case resp.KindInteger:
		return r.Integer != 0
	case resp.KindSimpleString:
		return r.Str == "OK"
	default:
		return false
	}
}

func asDecimal(r resp.Reply) (decimal.Decimal, error) {
	s, ok := bulkString(r)
	if !ok {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func cmd(name string, args ...string) resp.Command { return resp.NewCommand(name, args...) }

func withKeyVals(name, key string, rest ...string) resp.Command {
	return resp.NewCommand(name, append([]string{key}, rest...)...)
}
