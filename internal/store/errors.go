package store

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrConnection is returned when the store cannot be reached at all.
	ErrConnection = errors.New("store unreachable")

	// ErrScanInterrupted is returned when the store fails after a scan has
	// already produced keys. Partial results must be discarded.
	ErrScanInterrupted = errors.New("keyspace scan interrupted")

	// ErrCapabilityUnavailable marks an optional feature the store does not
	// offer (MEMORY USAGE, RediSearch, ...).
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)

// IsServerReply reports whether err is an error reply from the server, as
// opposed to a network or context failure. Server replies to optional
// commands mean the capability is missing or refused.
func IsServerReply(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr)
}
