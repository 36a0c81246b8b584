package profiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Scalar preview encodings.
const (
	EncodingJSON = "json"
	EncodingText = "text"
)

// maxDepth is the nesting level below which containers are summarised.
const maxDepth = 2

// decodeJSON decodes raw as a JSON object, array or string. Bare numbers
// and literals stay text.
func decodeJSON(raw string) (interface{}, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	switch trimmed[0] {
	case '{', '[', '"':
	default:
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Reject trailing data such as `{}{}`.
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, false
	}
	return v, true
}

// truncateValue bounds a decoded JSON value: strings by runes, objects by
// their first n sorted keys, arrays by their first n items. Containers at
// maxDepth are replaced with a one-line summary.
func truncateValue(v interface{}, n, maxText, depth int) (interface{}, bool) {
	switch t := v.(type) {
	case string:
		return truncateText(t, maxText)
	case []interface{}:
		if depth >= maxDepth {
			return fmt.Sprintf("[%d items]", len(t)), true
		}
		cut := len(t) > n
		if cut {
			t = t[:n]
		}
		out := make([]interface{}, len(t))
		for i, item := range t {
			var c bool
			out[i], c = truncateValue(item, n, maxText, depth+1)
			cut = cut || c
		}
		return out, cut
	case map[string]interface{}:
		if depth >= maxDepth {
			return fmt.Sprintf("{%d keys}", len(t)), true
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cut := len(keys) > n
		if cut {
			keys = keys[:n]
		}
		out := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			var c bool
			out[k], c = truncateValue(t[k], n, maxText, depth+1)
			cut = cut || c
		}
		return out, cut
	default:
		return t, false
	}
}

// truncateText returns s cut to at most max runes with an ellipsis marker.
// Invalid UTF-8 is replaced so previews of binary values stay printable.
func truncateText(s string, max int) (string, bool) {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	var b bytes.Buffer
	i := 0
	for _, r := range s {
		if i == max {
			break
		}
		b.WriteRune(r)
		i++
	}
	b.WriteString("...")
	return b.String(), true
}
