package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Commander runs raw commands; *redis.Client satisfies it.
type Commander interface {
	Do(ctx context.Context, args ...interface{}) *redis.Cmd
}

// SearchIndex is the metadata of one full-text index.
// Empty strings mean the server did not report the attribute.
type SearchIndex struct {
	Name           string        `json:"name" yaml:"name"`
	NumDocs        string        `json:"num_docs,omitempty" yaml:"num_docs,omitempty"`
	InvertedSizeMB string        `json:"inverted_sz_mb,omitempty" yaml:"inverted_sz_mb,omitempty"`
	Fields         []SearchField `json:"fields,omitempty" yaml:"fields,omitempty"`
	Err            string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// SearchField is one attribute definition of an index.
type SearchField struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Attribute  string `json:"attribute" yaml:"attribute"`
	Type       string `json:"type" yaml:"type"`
}

// ListSearchIndexes returns FT._LIST with FT.INFO details for each index.
// A store without the search module yields ErrCapabilityUnavailable.
// A failing FT.INFO for one index is recorded on that index only.
func ListSearchIndexes(ctx context.Context, c Commander) ([]SearchIndex, error) {
	names, err := c.Do(ctx, "FT._LIST").StringSlice()
	if err != nil {
		if IsServerReply(err) {
			return nil, fmt.Errorf("%w: full-text search: %w", ErrCapabilityUnavailable, err)
		}
		return nil, fmt.Errorf("FT._LIST: %w", err)
	}

	indexes := make([]SearchIndex, 0, len(names))
	for _, name := range names {
		idx := SearchIndex{Name: name}
		reply, err := c.Do(ctx, "FT.INFO", name).Result()
		if err != nil {
			idx.Err = err.Error()
		} else {
			parseIndexInfo(&idx, reply)
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// parseIndexInfo fills idx from an FT.INFO reply. RESP2 replies are a flat
// key/value list; RESP3 replies are maps. Unknown shapes leave idx empty.
func parseIndexInfo(idx *SearchIndex, reply interface{}) {
	info := make(map[string]interface{})
	switch v := reply.(type) {
	case []interface{}:
		for i := 0; i+1 < len(v); i += 2 {
			info[fmt.Sprint(v[i])] = v[i+1]
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			info[fmt.Sprint(k)] = val
		}
	default:
		return
	}

	if n, ok := info["num_docs"]; ok {
		idx.NumDocs = fmt.Sprint(n)
	}
	if sz, ok := info["inverted_sz_mb"]; ok {
		idx.InvertedSizeMB = fmt.Sprint(sz)
	}
	if attrs, ok := info["attributes"].([]interface{}); ok {
		for _, a := range attrs {
			if f, ok := parseField(a); ok {
				idx.Fields = append(idx.Fields, f)
			}
		}
	}
}

// parseField reads an attribute entry such as
// [identifier $.name attribute name type TEXT WEIGHT 1].
func parseField(a interface{}) (SearchField, bool) {
	var f SearchField
	switch v := a.(type) {
	case []interface{}:
		for i := 0; i+1 < len(v); i += 2 {
			setField(&f, fmt.Sprint(v[i]), fmt.Sprint(v[i+1]))
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			setField(&f, fmt.Sprint(k), fmt.Sprint(val))
		}
	default:
		return f, false
	}
	return f, f.Identifier != "" || f.Attribute != ""
}

func setField(f *SearchField, key, value string) {
	switch key {
	case "identifier":
		f.Identifier = value
	case "attribute":
		f.Attribute = value
	case "type":
		f.Type = value
	}
}
