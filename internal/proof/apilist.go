package proof

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

type apiListKind int

const (
	apiAbsent apiListKind = iota
	apiSingle
	apiList
)

// APIList is the loosely typed API field as found in documents: absent, a
// single comma-delimited string, or a sequence of scalars.
type APIList struct {
	kind   apiListKind
	single string
	items  []any
}

// APIListOf classifies a raw decoded value. Values of any other shape are
// treated as absent.
func APIListOf(raw any) APIList {
	switch v := raw.(type) {
	case string:
		return APIList{kind: apiSingle, single: v}
	case []any:
		return APIList{kind: apiList, items: v}
	case []string:
		return APIList{kind: apiList, items: stringsToAny(v)}
	default:
		return APIList{}
	}
}

// Entries returns the clean ordered API names: every entry stringified and
// trimmed, empty entries dropped.
func (l APIList) Entries() []string {
	var raw []string
	switch l.kind {
	case apiSingle:
		raw = strings.Split(l.single, ",")
	case apiList:
		for _, item := range l.items {
			if s, ok := scalarText(item); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// formatAPIEntries renders entries as a comma-joined back-quoted list.
func formatAPIEntries(entries []string) string {
	quoted := make([]string, len(entries))
	for i, e := range entries {
		quoted[i] = "`" + e + "`"
	}
	return strings.Join(quoted, ", ")
}

var backquotedSpan = regexp.MustCompile("`([^`]+)`")

// parseAPIEntries is the inverse of formatAPIEntries applied to a whole
// annotation line such as "API (2分): `Foo.bar`, `Baz`". Back-quoted spans are
// preferred; without any, the text is split on commas and stray back-quotes
// are trimmed.
func parseAPIEntries(line string) []string {
	if _, rest, ok := strings.Cut(line, ":"); ok {
		line = rest
	}
	text := strings.TrimSpace(line)

	var out []string
	if matches := backquotedSpan.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		for _, m := range matches {
			if entry := strings.TrimSpace(m[1]); entry != "" {
				out = append(out, entry)
			}
		}
		return out
	}
	for _, part := range strings.Split(text, ",") {
		if entry := strings.Trim(part, " `"); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// scalarText stringifies strings, numbers and booleans. Anything else
// (nil, objects, arrays) has no text form.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// textOf reads an optional text field, treating non-scalars as empty.
func textOf(v any) string {
	s, _ := scalarText(v)
	return s
}
