package profiler

import "fmt"

// Shape is the structural kind of value stored under a key.
type Shape int

// Shapes. ShapeUnknown covers store types the profiler has no preview for.
const (
	ShapeUnknown Shape = iota
	ShapeScalar
	ShapeMap
	ShapeList
	ShapeSet
	ShapeOrderedSet
	ShapeAppendLog
)

var shapeNames = [...]string{
	ShapeUnknown:    "unknown",
	ShapeScalar:     "scalar",
	ShapeMap:        "map",
	ShapeList:       "list",
	ShapeSet:        "set",
	ShapeOrderedSet: "ordered-set",
	ShapeAppendLog:  "append-log",
}

// Shapes lists every shape in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeScalar, ShapeMap, ShapeList, ShapeSet, ShapeOrderedSet, ShapeAppendLog, ShapeUnknown}
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return shapeNames[ShapeUnknown]
	}
	return shapeNames[s]
}

// MarshalText lets shapes serve as JSON and YAML map keys.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a shape name.
func (s *Shape) UnmarshalText(b []byte) error {
	for i, name := range shapeNames {
		if name == string(b) {
			*s = Shape(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", string(b))
}

// ShapeFromType maps a TYPE reply to a Shape.
func ShapeFromType(t string) Shape {
	switch t {
	case "string":
		return ShapeScalar
	case "hash":
		return ShapeMap
	case "list":
		return ShapeList
	case "set":
		return ShapeSet
	case "zset":
		return ShapeOrderedSet
	case "stream":
		return ShapeAppendLog
	default:
		return ShapeUnknown
	}
}

// TTLStatus is the expiry posture of a key at read time.
type TTLStatus int

// TTL statuses. TTLUnknown means the TTL query itself failed.
const (
	TTLUnknown TTLStatus = iota
	TTLPermanent
	TTLTimed
	TTLExpired
)

var ttlNames = [...]string{
	TTLUnknown:   "unknown",
	TTLPermanent: "permanent",
	TTLTimed:     "timed",
	TTLExpired:   "expired",
}

func (t TTLStatus) String() string {
	if t < 0 || int(t) >= len(ttlNames) {
		return ttlNames[TTLUnknown]
	}
	return ttlNames[t]
}

// MarshalText lets statuses serve as JSON and YAML map keys.
func (t TTLStatus) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a status name.
func (t *TTLStatus) UnmarshalText(b []byte) error {
	for i, name := range ttlNames {
		if name == string(b) {
			*t = TTLStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown ttl status %q", string(b))
}

// TTL reply sentinels.
const (
	ttlNoExpiry  = -1
	ttlKeyAbsent = -2
)

// TTLFromReply decodes a TTL reply in seconds.
func TTLFromReply(n int64) (TTLStatus, int64) {
	switch {
	case n == ttlNoExpiry:
		return TTLPermanent, 0
	case n == ttlKeyAbsent:
		return TTLExpired, 0
	case n >= 0:
		return TTLTimed, n
	default:
		return TTLUnknown, 0
	}
}
