package profiler

import (
	"fmt"
	"time"
)

// SampleRecord is the snapshot of one sampled key.
type SampleRecord struct {
	Key     string `json:"key" yaml:"key"`
	Shape   Shape  `json:"shape" yaml:"shape"`
	RawType string `json:"raw_type,omitempty" yaml:"raw_type,omitempty"`

	// Miss is set when the key disappeared between scan and profile.
	Miss bool `json:"miss,omitempty" yaml:"miss,omitempty"`

	// MemoryBytes is nil when the store did not report usage; MemoryNote
	// then says why.
	MemoryBytes *int64 `json:"memory_bytes,omitempty" yaml:"memory_bytes,omitempty"`
	MemoryNote  string `json:"memory_note,omitempty" yaml:"memory_note,omitempty"`

	TTL        TTLStatus `json:"ttl" yaml:"ttl"`
	TTLSeconds int64     `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`

	Preview  Preview       `json:"preview" yaml:"preview"`
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`

	// Err is set on records whose profile failed.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Preview is a bounded view of a value. Which fields are populated depends
// on the shape.
type Preview struct {
	// Encoding is "json" or "text" for scalars.
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	// Value is the decoded, truncated structure of a JSON scalar.
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`

	// Length is the byte length of a scalar or the cardinality of a collection.
	Length int64 `json:"length" yaml:"length"`

	Fields  []Field        `json:"fields,omitempty" yaml:"fields,omitempty"`
	Items   []string       `json:"items,omitempty" yaml:"items,omitempty"`
	Members []ScoredMember `json:"members,omitempty" yaml:"members,omitempty"`

	FirstID string `json:"first_id,omitempty" yaml:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty" yaml:"last_id,omitempty"`

	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Note      string `json:"note,omitempty" yaml:"note,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Field is one map entry.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ScoredMember is one ordered-set entry.
type ScoredMember struct {
	Member string  `json:"member" yaml:"member"`
	Score  float64 `json:"score" yaml:"score"`
}

// ProfileError reports a key whose profile could not be taken. The record
// returned alongside it is degraded and must not enter aggregates.
type ProfileError struct {
	Key  string
	Step string
	Err  error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %q: %s: %v", e.Key, e.Step, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}
