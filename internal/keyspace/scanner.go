package keyspace

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dbsmedya/keyprofiler/internal/store"
)

// ScanClient is the cursor command the scanner needs; *redis.Client satisfies it.
type ScanClient interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// ScanOptions configures a Scanner.
type ScanOptions struct {
	Match          string        // MATCH filter, empty or "*" for everything
	Count          int64         // COUNT hint per page
	CallTimeout    time.Duration // deadline for one SCAN call, 0 = none
	PagesPerSecond float64       // page pacing, 0 = unlimited

	// OnPage, if set, is called with the number of keys in every page.
	OnPage func(keys int)
}

// Scanner walks the keyspace with SCAN, one page at a time. It is a
// single-use iterator:
//
//	s := NewScanner(client, opts)
//	for s.Next(ctx) {
//		use(s.Key())
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	client  ScanClient
	opts    ScanOptions
	limiter *rate.Limiter

	cursor uint64
	page   []string
	pos    int
	pages  int
	done   bool

	key string
	err error
}

// NewScanner creates a scanner over client.
func NewScanner(client ScanClient, opts ScanOptions) *Scanner {
	if opts.Count <= 0 {
		opts.Count = 1000
	}
	s := &Scanner{client: client, opts: opts}
	if opts.PagesPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.PagesPerSecond), 1)
	}
	return s
}

// Next advances to the next key, fetching pages as needed. It returns
// false at the end of the keyspace or on error.
func (s *Scanner) Next(ctx context.Context) bool {
	for {
		if s.err != nil {
			return false
		}
		if s.pos < len(s.page) {
			s.key = s.page[s.pos]
			s.pos++
			return true
		}
		if s.done {
			return false
		}
		if err := s.fetch(ctx); err != nil {
			s.err = err
			return false
		}
	}
}

// Key returns the current key.
func (s *Scanner) Key() string {
	return s.key
}

// Err returns the error that stopped the scan, if any. A failure on the
// first page wraps store.ErrConnection; later failures wrap
// store.ErrScanInterrupted. Cancellation returns the context error.
func (s *Scanner) Err() error {
	return s.err
}

// Pages returns the number of SCAN pages fetched so far.
func (s *Scanner) Pages() int {
	return s.pages
}

func (s *Scanner) fetch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.opts.CallTimeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, s.opts.CallTimeout)
	}
	keys, cursor, err := s.client.Scan(callCtx, s.cursor, s.opts.Match, s.opts.Count).Result()
	cancel()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if s.pages == 0 {
			return fmt.Errorf("%w: scan: %w", store.ErrConnection, err)
		}
		return fmt.Errorf("%w: after %d pages: %w", store.ErrScanInterrupted, s.pages, err)
	}

	s.pages++
	s.page = keys
	s.pos = 0
	s.cursor = cursor
	if cursor == 0 {
		s.done = true
	}
	if s.opts.OnPage != nil {
		s.opts.OnPage(len(keys))
	}
	return nil
}
