package redisconn

import (
	"log/slog"
	"time"
)

// Options configures a Pool (and, transitively, the Client built on
// it): network endpoint, sizing, health checking, and the
// ambient logger. Mirrors the plain-struct-plus-DefaultX constructor
// shape the teacher uses for server configuration.
type Options struct {
	// Network is "tcp" or "unix".
	Network string
	// Addr is host:port for "tcp", or a socket path for "unix".
	Addr string
	// Database selects the logical database via SELECT after dialing.
	Database int
	// Username, if non-empty, is sent along with Password as the Redis
	// 6+ ACL form "AUTH username password". Empty Username falls back
	// to the legacy single-argument "AUTH password" form.
	Username string
	// Password, if non-empty, is sent via AUTH after dialing.
	Password string

	// MaxConnections bounds how many Cores the Pool will create.
	MaxConnections int
	// IdleTimeout evicts a pooled Core that has sat unused longer than
	// this. Zero disables idle eviction.
	IdleTimeout time.Duration
	// EvictionInterval is how often the idle-eviction sweep runs. Zero
	// defaults to IdleTimeout/2, floored at one second.
	EvictionInterval time.Duration
	// HealthCheckOnLease, when true, pings a pooled Core before handing
	// it out and discards it (dialing a replacement) if the ping fails.
	HealthCheckOnLease bool

	DialTimeout     time.Duration
	ReadBufferSize  int
	WriteBufferSize int
	MaxReplySize    int64

	// SlowThreshold is the minimum command duration the Client's slow
	// command log records. Zero disables slow logging.
	SlowThreshold time.Duration
	// SlowLogSize bounds the number of retained slow-log entries.
	SlowLogSize int

	Logger *slog.Logger
}

// DefaultOptions returns sane defaults: up to 10 connections against
// localhost:6379, a 5 minute idle timeout, health-checked leases, and
// a 64-entry slow log at a 100ms threshold.
func DefaultOptions() Options {
	return Options{
		Network:            "tcp",
		Addr:               "localhost:6379",
		Database:           0,
		MaxConnections:     10,
		IdleTimeout:        5 * time.Minute,
		HealthCheckOnLease: true,
		DialTimeout:        5 * time.Second,
		ReadBufferSize:     4096,
		WriteBufferSize:    4096,
		SlowThreshold:      100 * time.Millisecond,
		SlowLogSize:        64,
		Logger:             slog.Default(),
	}
}

// fillDefaults fills zero-valued fields of o from DefaultOptions,
// leaving every field the caller actually set untouched. Fields where
// zero is itself a meaningful setting (IdleTimeout and SlowThreshold
// both disable a feature at zero, HealthCheckOnLease is a plain bool)
// are left alone rather than defaulted.
func fillDefaults(o Options) Options {
	d := DefaultOptions()
	if o.Network == "" {
		o.Network = d.Network
	}
	if o.Addr == "" {
		o.Addr = d.Addr
	}
	if o.MaxConnections == 0 {
		o.MaxConnections = d.MaxConnections
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = d.DialTimeout
	}
	if o.ReadBufferSize == 0 {
		o.ReadBufferSize = d.ReadBufferSize
	}
	if o.WriteBufferSize == 0 {
		o.WriteBufferSize = d.WriteBufferSize
	}
	if o.SlowLogSize == 0 {
		o.SlowLogSize = d.SlowLogSize
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
