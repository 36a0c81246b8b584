// Package keyspace turns a live keyspace into pattern buckets: it scans
// key names, generalizes each into a structural pattern, and groups them.
package keyspace

import (
	"strings"
	"unicode"
)

// Delimiter separates key segments.
const Delimiter = ":"

// Placeholder names the kind of identifier a trailing segment was
// recognised as. The zero value means the segment is a literal.
type Placeholder string

// Placeholders in precedence order: the first matching rule wins.
const (
	PlaceholderNone    Placeholder = ""
	PlaceholderUUID    Placeholder = "uuid"
	PlaceholderSKU     Placeholder = "sku_id"
	PlaceholderSetCode Placeholder = "set_code"
	PlaceholderID      Placeholder = "id"
)

// Token returns the placeholder as it appears in a pattern, e.g. "{uuid}".
func (p Placeholder) Token() string {
	if p == PlaceholderNone {
		return ""
	}
	return "{" + string(p) + "}"
}

// Generalize returns the pattern for key. Exactly one segment is ever
// replaced: the trailing identifier-like one. Literal words at the end of
// the key (such as "meta" or "cards") stay as they are, so the identifier
// they follow is the one generalized:
//
//	card:a1b2c3d4-e5f6-7890-abcd-ef1234567890  -> card:{uuid}
//	set:ABCD:cards                             -> set:{set_code}:cards
//	user:profile                               -> user:profile
//
// Any other non-identifier segment (empty, or holding characters such as
// '.' or '/') ends the search. The first segment is the namespace and is
// never replaced, so keys with fewer than two segments are returned
// unchanged.
func Generalize(key string) string {
	segments := strings.Split(key, Delimiter)
	if len(segments) < 2 {
		return key
	}

	for i := len(segments) - 1; i >= 1; i-- {
		p := Classify(segments[i])
		if p != PlaceholderNone {
			segments[i] = p.Token()
			return strings.Join(segments, Delimiter)
		}
		if !isLiteralWord(segments[i]) {
			break
		}
	}
	return key
}

// Classify reports which identifier rule segment satisfies, in precedence
// order uuid, sku_id, set_code, id.
func Classify(segment string) Placeholder {
	switch {
	case isUUID(segment):
		return PlaceholderUUID
	case isSKU(segment):
		return PlaceholderSKU
	case isSetCode(segment):
		return PlaceholderSetCode
	case isID(segment):
		return PlaceholderID
	default:
		return PlaceholderNone
	}
}

// uuidGroups are the group lengths of a canonical 8-4-4-4-12 UUID.
var uuidGroups = [...]int{8, 4, 4, 4, 12}

// isUUID checks the textual layout only; group contents are not required
// to be hex.
func isUUID(s string) bool {
	runes := []rune(s)
	if len(runes) != 36 {
		return false
	}
	pos := 0
	for g, n := range uuidGroups {
		for i := 0; i < n; i++ {
			if runes[pos] == '-' {
				return false
			}
			pos++
		}
		if g < len(uuidGroups)-1 {
			if runes[pos] != '-' {
				return false
			}
			pos++
		}
	}
	return true
}

func isSKU(s string) bool {
	if len(s) <= 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isSetCode(s string) bool {
	if len(s) != 3 && len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// isID accepts tokens made of letters, digits, '_' and '-' that carry at
// least one digit or upper-case letter. Plain lower-case words, optionally
// joined by '_' or '-', are literals rather than identifiers.
func isID(s string) bool {
	marked := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r) || unicode.IsNumber(r) || unicode.IsUpper(r) || unicode.IsTitle(r):
			marked = true
		case unicode.IsLetter(r), r == '_', r == '-':
		default:
			return false
		}
	}
	return marked
}

// isLiteralWord reports whether s is a lower-case word such as "meta",
// "cards" or "by_name".
func isLiteralWord(s string) bool {
	letter := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			letter = true
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return letter
}
