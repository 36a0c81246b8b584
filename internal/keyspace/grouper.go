package keyspace

import (
	"context"

	"github.com/elliotchance/orderedmap/v2"
)

// Bucket holds the keys that share one pattern, in discovery order.
type Bucket struct {
	Pattern string
	Keys    []string
}

// Len returns the number of keys in the bucket.
func (b *Bucket) Len() int {
	return len(b.Keys)
}

// Grouper partitions keys by their generalized pattern. Buckets are kept
// in the order their pattern was first seen.
type Grouper struct {
	buckets *orderedmap.OrderedMap[string, *Bucket]
	total   int
}

// NewGrouper creates an empty grouper.
func NewGrouper() *Grouper {
	return &Grouper{
		buckets: orderedmap.NewOrderedMap[string, *Bucket](),
	}
}

// Add generalizes key and appends it to its bucket. Duplicate keys are
// appended again; the grouper does not assume uniqueness.
func (g *Grouper) Add(key string) string {
	pattern := Generalize(key)
	b, ok := g.buckets.Get(pattern)
	if !ok {
		b = &Bucket{Pattern: pattern}
		g.buckets.Set(pattern, b)
	}
	b.Keys = append(b.Keys, key)
	g.total++
	return pattern
}

// Bucket returns the bucket for pattern.
func (g *Grouper) Bucket(pattern string) (*Bucket, bool) {
	return g.buckets.Get(pattern)
}

// Buckets returns all buckets in discovery order.
func (g *Grouper) Buckets() []*Bucket {
	out := make([]*Bucket, 0, g.buckets.Len())
	for el := g.buckets.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of distinct patterns.
func (g *Grouper) Len() int {
	return g.buckets.Len()
}

// Total returns the number of keys added.
func (g *Grouper) Total() int {
	return g.total
}

// KeySource yields keys one at a time; *Scanner implements it.
type KeySource interface {
	Next(ctx context.Context) bool
	Key() string
	Err() error
}

// GroupKeys drains src into a new Grouper in a single pass. If the source
// fails, the partial grouping is discarded and the error returned.
func GroupKeys(ctx context.Context, src KeySource) (*Grouper, error) {
	g := NewGrouper()
	for src.Next(ctx) {
		g.Add(src.Key())
	}
	if err := src.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
