package profiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"object", `{"a":1}`, true},
		{"array", ` [1,2] `, true},
		{"string", `"hello"`, true},
		{"number stays text", `42`, false},
		{"literal stays text", `true`, false},
		{"broken", `{"a":`, false},
		{"trailing data", `{}{}`, false},
		{"empty", ``, false},
		{"plain text", `hello world`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := decodeJSON(tt.raw)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDecodeJSONKeepsNumbers(t *testing.T) {
	v, ok := decodeJSON(`{"price":12345678901234567890}`)
	require.True(t, ok)
	obj := v.(map[string]interface{})
	assert.Equal(t, json.Number("12345678901234567890"), obj["price"])
}

func TestTruncateValue(t *testing.T) {
	v, ok := decodeJSON(`{
		"d": 4, "a": [1, 2, 3, 4, 5], "c": {"deep": {"deeper": [1]}}, "b": "abcdefghij"
	}`)
	require.True(t, ok)

	got, cut := truncateValue(v, 3, 5, 0)
	assert.True(t, cut)

	obj := got.(map[string]interface{})
	assert.Len(t, obj, 3, "first three sorted keys")
	assert.NotContains(t, obj, "d")
	assert.Equal(t, []interface{}{json.Number("1"), json.Number("2"), json.Number("3")}, obj["a"])
	assert.Equal(t, "abcde...", obj["b"])
	assert.Equal(t, map[string]interface{}{"deep": "{1 keys}"}, obj["c"])
}

func TestTruncateValueUntouched(t *testing.T) {
	v, ok := decodeJSON(`["x", {"k": "v"}]`)
	require.True(t, ok)

	got, cut := truncateValue(v, 3, 10, 0)
	assert.False(t, cut)
	assert.Equal(t, []interface{}{"x", map[string]interface{}{"k": "v"}}, got)
}

func TestTruncateValueNestedArraySummary(t *testing.T) {
	v, ok := decodeJSON(`[[[1,2],[3]]]`)
	require.True(t, ok)

	got, cut := truncateValue(v, 3, 10, 0)
	assert.True(t, cut)
	assert.Equal(t, []interface{}{[]interface{}{"[2 items]", "[1 items]"}}, got)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
		cut  bool
	}{
		{"short", "abc", 5, "abc", false},
		{"exact", "abcde", 5, "abcde", false},
		{"long", "abcdefgh", 5, "abcde...", true},
		{"runes not bytes", "ÆØÅæøå", 3, "ÆØÅ...", true},
		{"no limit", "abcdef", 0, "abcdef", false},
		{"invalid utf8", "ab\xffcd", 10, "ab�cd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := truncateText(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.cut, cut)
		})
	}
}
