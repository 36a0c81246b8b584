package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dbsmedya/keyprofiler/internal/store"
)

// capability is the result of probing one optional server feature.
type capability struct {
	Name string
	Err  error
}

// probeCapabilities checks the optional commands the profiler and the
// index listing depend on.
func probeCapabilities(ctx context.Context, c store.Commander) []capability {
	return []capability{
		{Name: "MEMORY USAGE", Err: probe(ctx, c, "MEMORY", "USAGE", "keyprofiler:probe")},
		{Name: "Search module", Err: probe(ctx, c, "FT._LIST")},
	}
}

func probe(ctx context.Context, c store.Commander, args ...interface{}) error {
	err := c.Do(ctx, args...).Err()
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	if store.IsServerReply(err) {
		return fmt.Errorf("%w: %w", store.ErrCapabilityUnavailable, err)
	}
	return err
}
