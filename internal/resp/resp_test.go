package resp

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeString(t *testing.T, s string) Reply {
	t.Helper()
	d := NewDecoder(bufio.NewReader(strings.NewReader(s)), 0)
	r, err := d.Decode()
	require.NoError(t, err)
	return r
}

func TestDecodeSimpleString(t *testing.T) {
	r := decodeString(t, "+OK\r\n")
	assert.Equal(t, KindSimpleString, r.Kind)
	assert.Equal(t, "OK", r.Str)
}

func TestDecodeError(t *testing.T) {
	r := decodeString(t, "-ERR value is not an integer\r\n")
	assert.Equal(t, KindError, r.Kind)
	assert.Equal(t, "ERR value is not an integer", r.Str)
	assert.True(t, r.IsError())
}

func TestDecodeInteger(t *testing.T) {
	r := decodeString(t, ":1000\r\n")
	assert.Equal(t, KindInteger, r.Kind)
	assert.EqualValues(t, 1000, r.Integer)

	r = decodeString(t, ":-1\r\n")
	assert.EqualValues(t, -1, r.Integer)
}

func TestDecodeBulkString(t *testing.T) {
	r := decodeString(t, "$3\r\nbar\r\n")
	assert.Equal(t, KindBulkString, r.Kind)
	assert.False(t, r.Null)
	assert.Equal(t, []byte("bar"), r.Bulk)
}

func TestDecodeNullBulkString(t *testing.T) {
	r := decodeString(t, "$-1\r\n")
	assert.Equal(t, KindBulkString, r.Kind)
	assert.True(t, r.Null)
	assert.Nil(t, r.Bulk)
}

func TestDecodeEmptyBulkStringIsNotNull(t *testing.T) {
	r := decodeString(t, "$0\r\n\r\n")
	assert.False(t, r.Null)
	assert.Equal(t, []byte{}, r.Bulk)
}

func TestDecodeMultiBulk(t *testing.T) {
	r := decodeString(t, "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
	assert.Equal(t, KindMultiBulk, r.Kind)
	require.Len(t, r.Array, 2)
	assert.Equal(t, []byte("foo"), r.Array[0].Bulk)
	assert.Equal(t, []byte("bar"), r.Array[1].Bulk)
}

func TestDecodeNullMultiBulk(t *testing.T) {
	r := decodeString(t, "*-1\r\n")
	assert.Equal(t, KindMultiBulk, r.Kind)
	assert.True(t, r.Null)
	assert.Nil(t, r.Array)
}

func TestDecodeNestedMultiBulk(t *testing.T) {
	r := decodeString(t, "*1\r\n*2\r\n:1\r\n:2\r\n")
	require.Len(t, r.Array, 1)
	inner := r.Array[0]
	assert.Equal(t, KindMultiBulk, inner.Kind)
	require.Len(t, inner.Array, 2)
	assert.EqualValues(t, 2, inner.Array[1].Integer)
}

func TestDecodeProtocolErrors(t *testing.T) {
	cases := []string{
		"",
		"?garbage\r\n",
		"$notanumber\r\nbar\r\n",
		"*2\r\n:1\r\n",        // truncated array
		"$3\r\nba\r\n",        // short payload
	}
	for _, c := range cases {
		d := NewDecoder(bufio.NewReader(strings.NewReader(c)), 0)
		_, err := d.Decode()
		assert.Error(t, err, "input %q should fail", c)
	}
}

func TestMaxReplySize(t *testing.T) {
	d := NewDecoder(bufio.NewReader(strings.NewReader("$10\r\n0123456789\r\n")), 4)
	_, err := d.Decode()
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestEncodeCommand(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, NewCommand("SET", "foo", "bar"))
	require.NoError(t, err)
	assert.Equal(t, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", buf.String())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	replies := []Reply{
		{Kind: KindSimpleString, Str: "OK"},
		{Kind: KindError, Str: "ERR boom"},
		{Kind: KindInteger, Integer: -42},
		{Kind: KindBulkString, Bulk: []byte("hello")},
		{Kind: KindBulkString, Null: true},
		{Kind: KindMultiBulk, Array: []Reply{{Kind: KindInteger, Integer: 1}}},
		{Kind: KindMultiBulk, Null: true},
	}
	for _, want := range replies {
		encoded := encodeReplyForTest(want)
		d := NewDecoder(bufio.NewReader(strings.NewReader(encoded)), 0)
		got, err := d.Decode()
		require.NoError(t, err)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Null, got.Null)
		assert.Equal(t, want.Str, got.Str)
		assert.Equal(t, want.Integer, got.Integer)
		assert.Equal(t, want.Bulk, got.Bulk)
	}
}

// encodeReplyForTest re-serializes a Reply for the round-trip test;
// the production code never needs to encode replies (only the server
// does), so this helper lives in the test file rather than resp.go.
func encodeReplyForTest(r Reply) string {
	switch r.Kind {
	case KindSimpleString:
		return "+" + r.Str + "\r\n"
	case KindError:
		return "-" + r.Str + "\r\n"
	case KindInteger:
		return ":" + itoa(r.Integer) + "\r\n"
	case KindBulkString:
		if r.Null {
			return "$-1\r\n"
		}
		return "$" + itoa(int64(len(r.Bulk))) + "\r\n" + string(r.Bulk) + "\r\n"
	case KindMultiBulk:
		if r.Null {
			return "*-1\r\n"
		}
		s := "*" + itoa(int64(len(r.Array))) + "\r\n"
		for _, item := range r.Array {
			s += encodeReplyForTest(item)
		}
		return s
	}
	return ""
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
