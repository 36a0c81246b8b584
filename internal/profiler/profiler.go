// Package profiler takes bounded snapshots of individual keys: shape,
// memory footprint, expiry posture and a preview tailored to the shape.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbsmedya/keyprofiler/internal/logger"
	"github.com/dbsmedya/keyprofiler/internal/store"
)

// Store is the subset of the client the profiler needs. *redis.Client
// satisfies it.
type Store interface {
	Type(ctx context.Context, key string) *redis.StatusCmd
	MemoryUsage(ctx context.Context, key string, samples ...int) *redis.IntCmd
	Do(ctx context.Context, args ...interface{}) *redis.Cmd

	StrLen(ctx context.Context, key string) *redis.IntCmd
	GetRange(ctx context.Context, key string, start, end int64) *redis.StringCmd

	HLen(ctx context.Context, key string) *redis.IntCmd
	HScan(ctx context.Context, key string, cursor uint64, match string, count int64) *redis.ScanCmd

	LLen(ctx context.Context, key string) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd

	SCard(ctx context.Context, key string) *redis.IntCmd
	SScan(ctx context.Context, key string, cursor uint64, match string, count int64) *redis.ScanCmd

	ZCard(ctx context.Context, key string) *redis.IntCmd
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd

	XLen(ctx context.Context, stream string) *redis.IntCmd
	XRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
	XRevRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
}

// Options bounds the work done per key.
type Options struct {
	MaxElements    int
	MaxScalarBytes int64
	MaxText        int
	Timeout        time.Duration
}

// DefaultOptions returns the bounds used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxElements:    3,
		MaxScalarBytes: 64 * 1024,
		MaxText:        200,
		Timeout:        5 * time.Second,
	}
}

// Profiler snapshots keys. It holds no mutable state and is safe for
// concurrent use.
type Profiler struct {
	store  Store
	opts   Options
	logger *logger.Logger
}

// New creates a Profiler. Non-positive bounds fall back to the defaults.
func New(s Store, opts Options, log *logger.Logger) *Profiler {
	def := DefaultOptions()
	if opts.MaxElements <= 0 {
		opts.MaxElements = def.MaxElements
	}
	if opts.MaxScalarBytes <= 0 {
		opts.MaxScalarBytes = def.MaxScalarBytes
	}
	if opts.MaxText <= 0 {
		opts.MaxText = def.MaxText
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Profiler{store: s, opts: opts, logger: log}
}

// Options returns the effective bounds.
func (p *Profiler) Options() Options {
	return p.opts
}

// Profile snapshots a single key. A key that no longer exists yields a
// record with Miss set and a nil error. A failed type lookup or an expired
// per-key deadline yields a *ProfileError together with a record whose Err
// field is set. Failures of the optional steps (memory, TTL, preview) are
// recorded on the record and never fail the profile.
func (p *Profiler) Profile(ctx context.Context, key string) (SampleRecord, error) {
	start := time.Now()
	rec := SampleRecord{Key: key}

	callCtx := ctx
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	fail := func(step string, err error) (SampleRecord, error) {
		rec.Err = err.Error()
		rec.Duration = time.Since(start)
		return rec, &ProfileError{Key: key, Step: step, Err: err}
	}

	typ, err := p.store.Type(callCtx, key).Result()
	if err != nil {
		return fail("type", err)
	}
	rec.RawType = typ

	if typ == "none" {
		rec.Miss = true
		rec.TTL = TTLExpired
		rec.Duration = time.Since(start)
		return rec, nil
	}
	rec.Shape = ShapeFromType(typ)

	p.measureMemory(callCtx, &rec)
	p.readTTL(callCtx, &rec)

	// Deleted or expired between TYPE and TTL.
	if rec.TTL == TTLExpired {
		p.logger.WithKey(key).Debugw("Key vanished during profiling", "type", typ)
		rec.Miss = true
		rec.Shape = ShapeUnknown
		rec.MemoryBytes = nil
		rec.Duration = time.Since(start)
		return rec, nil
	}

	rec.Preview = p.preview(callCtx, key, rec.Shape, typ)

	if err := callCtx.Err(); err != nil {
		// The caller's own cancellation is reported as is.
		if ctx.Err() != nil {
			return fail("cancelled", ctx.Err())
		}
		return fail("timeout", err)
	}

	rec.Duration = time.Since(start)
	return rec, nil
}

func (p *Profiler) measureMemory(ctx context.Context, rec *SampleRecord) {
	n, err := p.store.MemoryUsage(ctx, rec.Key).Result()
	switch {
	case err == nil:
		rec.MemoryBytes = &n
	case errors.Is(err, redis.Nil):
		rec.MemoryNote = "key vanished before memory could be measured"
	case store.IsServerReply(err):
		rec.MemoryNote = fmt.Errorf("%w: %w", store.ErrCapabilityUnavailable, err).Error()
	default:
		rec.MemoryNote = err.Error()
	}
	if err != nil {
		p.logger.WithKey(rec.Key).Debugw("Memory usage unavailable", "error", err)
	}
}

func (p *Profiler) readTTL(ctx context.Context, rec *SampleRecord) {
	n, err := p.store.Do(ctx, "TTL", rec.Key).Int64()
	if err != nil {
		rec.TTL = TTLUnknown
		p.logger.WithKey(rec.Key).Debugw("TTL unavailable", "error", err)
		return
	}
	rec.TTL, rec.TTLSeconds = TTLFromReply(n)
}

func (p *Profiler) preview(ctx context.Context, key string, shape Shape, rawType string) Preview {
	switch shape {
	case ShapeScalar:
		return p.previewScalar(ctx, key)
	case ShapeMap:
		return p.previewMap(ctx, key)
	case ShapeList:
		return p.previewList(ctx, key)
	case ShapeSet:
		return p.previewSet(ctx, key)
	case ShapeOrderedSet:
		return p.previewOrderedSet(ctx, key)
	case ShapeAppendLog:
		return p.previewAppendLog(ctx, key)
	default:
		return Preview{Note: fmt.Sprintf("no preview for type %q", rawType)}
	}
}

func previewError(step string, err error) string {
	return fmt.Sprintf("%s: %v", step, err)
}

func (p *Profiler) previewScalar(ctx context.Context, key string) Preview {
	n, err := p.store.StrLen(ctx, key).Result()
	if err != nil {
		return Preview{Error: previewError("strlen", err)}
	}
	pv := Preview{Length: n, Encoding: EncodingText}
	if n == 0 {
		return pv
	}

	fetch := n
	if fetch > p.opts.MaxScalarBytes {
		fetch = p.opts.MaxScalarBytes
	}
	raw, err := p.store.GetRange(ctx, key, 0, fetch-1).Result()
	if err != nil {
		pv.Error = previewError("getrange", err)
		return pv
	}

	if n <= p.opts.MaxScalarBytes {
		if v, ok := decodeJSON(raw); ok {
			pv.Encoding = EncodingJSON
			pv.Value, pv.Truncated = truncateValue(v, p.opts.MaxElements, p.opts.MaxText, 0)
			return pv
		}
	}

	var cut bool
	pv.Text, cut = truncateText(raw, p.opts.MaxText)
	pv.Truncated = cut || n > fetch
	return pv
}

func (p *Profiler) previewMap(ctx context.Context, key string) Preview {
	n, err := p.store.HLen(ctx, key).Result()
	if err != nil {
		return Preview{Error: previewError("hlen", err)}
	}
	pv := Preview{Length: n}
	if n == 0 {
		return pv
	}

	kv, err := p.scanPages(ctx, key, p.store.HScan, 2)
	if err != nil {
		pv.Error = previewError("hscan", err)
		return pv
	}
	for i := 0; i+1 < len(kv) && len(pv.Fields) < p.opts.MaxElements; i += 2 {
		val, _ := truncateText(kv[i+1], p.opts.MaxText)
		pv.Fields = append(pv.Fields, Field{Name: kv[i], Value: val})
	}
	sort.Slice(pv.Fields, func(i, j int) bool { return pv.Fields[i].Name < pv.Fields[j].Name })
	pv.Truncated = int64(len(pv.Fields)) < n
	return pv
}

func (p *Profiler) previewList(ctx context.Context, key string) Preview {
	n, err := p.store.LLen(ctx, key).Result()
	if err != nil {
		return Preview{Error: previewError("llen", err)}
	}
	pv := Preview{Length: n}
	if n == 0 {
		return pv
	}

	items, err := p.store.LRange(ctx, key, 0, int64(p.opts.MaxElements)-1).Result()
	if err != nil {
		pv.Error = previewError("lrange", err)
		return pv
	}
	pv.Items = p.truncateAll(items)
	pv.Truncated = int64(len(items)) < n
	return pv
}

func (p *Profiler) previewSet(ctx context.Context, key string) Preview {
	n, err := p.store.SCard(ctx, key).Result()
	if err != nil {
		return Preview{Error: previewError("scard", err)}
	}
	pv := Preview{Length: n}
	if n == 0 {
		return pv
	}

	members, err := p.scanPages(ctx, key, p.store.SScan, 1)
	if err != nil {
		pv.Error = previewError("sscan", err)
		return pv
	}
	sort.Strings(members)
	if len(members) > p.opts.MaxElements {
		members = members[:p.opts.MaxElements]
	}
	pv.Items = p.truncateAll(members)
	pv.Truncated = int64(len(members)) < n
	return pv
}

func (p *Profiler) previewOrderedSet(ctx context.Context, key string) Preview {
	n, err := p.store.ZCard(ctx, key).Result()
	if err != nil {
		return Preview{Error: previewError("zcard", err)}
	}
	pv := Preview{Length: n}
	if n == 0 {
		return pv
	}

	zs, err := p.store.ZRangeWithScores(ctx, key, 0, int64(p.opts.MaxElements)-1).Result()
	if err != nil {
		pv.Error = previewError("zrange", err)
		return pv
	}
	for _, z := range zs {
		m, _ := truncateText(fmt.Sprint(z.Member), p.opts.MaxText)
		pv.Members = append(pv.Members, ScoredMember{Member: m, Score: z.Score})
	}
	pv.Truncated = int64(len(zs)) < n
	return pv
}

func (p *Profiler) previewAppendLog(ctx context.Context, key string) Preview {
	n, err := p.store.XLen(ctx, key).Result()
	if err != nil {
		return Preview{Error: previewError("xlen", err)}
	}
	pv := Preview{Length: n}
	if n == 0 {
		return pv
	}

	first, err := p.store.XRangeN(ctx, key, "-", "+", 1).Result()
	if err != nil {
		pv.Error = previewError("xrange", err)
		return pv
	}
	if len(first) > 0 {
		pv.FirstID = first[0].ID
	}

	last, err := p.store.XRevRangeN(ctx, key, "+", "-", 1).Result()
	if err != nil {
		pv.Error = previewError("xrevrange", err)
		return pv
	}
	if len(last) > 0 {
		pv.LastID = last[0].ID
	}
	pv.Truncated = n > 2
	return pv
}

// maxScanPages caps the cursor pages read for one collection preview.
const maxScanPages = 4

type scanFunc func(ctx context.Context, key string, cursor uint64, match string, count int64) *redis.ScanCmd

// scanPages follows an HSCAN/SSCAN cursor until MaxElements entries have
// arrived, the cursor wraps or maxScanPages pages were read. A page may be
// empty while the cursor is still non-zero. stride is the number of reply
// elements per entry (2 for field/value pairs).
func (p *Profiler) scanPages(ctx context.Context, key string, scan scanFunc, stride int) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	want := p.opts.MaxElements * stride
	for page := 0; page < maxScanPages; page++ {
		items, next, err := scan(ctx, key, cursor, "", int64(p.opts.MaxElements)).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		cursor = next
		if cursor == 0 || len(out) >= want {
			break
		}
	}
	return out, nil
}

func (p *Profiler) truncateAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i], _ = truncateText(s, p.opts.MaxText)
	}
	return out
}
