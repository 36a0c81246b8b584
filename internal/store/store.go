// Package store provides connection management and introspection helpers
// for the Redis-compatible store under analysis.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbsmedya/keyprofiler/internal/config"
	"github.com/dbsmedya/keyprofiler/internal/logger"
)

// Manager owns the client for the store being profiled.
type Manager struct {
	Client *redis.Client
	config *config.Config
	logger *logger.Logger

	maxRetries int
	backoff    time.Duration
}

// NewManager creates a new store manager from configuration.
func NewManager(cfg *config.Config, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Manager{
		config:     cfg,
		logger:     log,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

// WithRetry overrides the connection retry policy.
func (m *Manager) WithRetry(maxRetries int, backoff time.Duration) *Manager {
	if maxRetries > 0 {
		m.maxRetries = maxRetries
	}
	m.backoff = backoff
	return m
}

// Connect establishes the connection and verifies it with PING.
// Any failure is reported as ErrConnection.
func (m *Manager) Connect(ctx context.Context) error {
	client, err := m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConnection, m.config.Store.Addr(), err)
	}
	m.Client = client
	return nil
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context) (*redis.Client, error) {
	var err error
	backoff := m.backoff

	for i := 0; i < m.maxRetries; i++ {
		client := redis.NewClient(BuildOptions(m.config))

		pingCtx, cancel := context.WithTimeout(ctx, m.config.Timeouts.Dial)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}
		_ = client.Close()

		m.logger.Debugf("Connection attempt %d/%d to %s failed: %v", i+1, m.maxRetries, m.config.Store.Addr(), err)

		if i < m.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
}

// BuildOptions constructs client options from configuration.
func BuildOptions(cfg *config.Config) *redis.Options {
	readTimeout := cfg.Timeouts.ProfileCall
	if cfg.Timeouts.ScanCall > readTimeout {
		readTimeout = cfg.Timeouts.ScanCall
	}
	return &redis.Options{
		Addr:     cfg.Store.Addr(),
		Username: cfg.Store.Username,
		Password: cfg.Store.Password,
		DB:       cfg.Store.DB,
		// RESP2 keeps FT.INFO replies as flat attribute lists.
		Protocol:     2,
		DialTimeout:  cfg.Timeouts.Dial,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
		MaxRetries:   1,
		// Per-call deadlines come from the caller's context.
		ContextTimeoutEnabled: true,
	}
}

// Close closes the client.
func (m *Manager) Close() error {
	if m.Client == nil {
		return nil
	}
	if err := m.Client.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("%w: not connected", ErrConnection)
	}
	if err := m.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping failed: %w", ErrConnection, err)
	}
	return nil
}
