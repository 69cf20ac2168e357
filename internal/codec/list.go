// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package codec

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// caseInsensitiveCollator sorts SET columns ascending and
// case-insensitively. golang.org/x/text/collate gives a real
// locale-aware comparator instead of a hand-rolled ASCII-only lowercase
// sort, which matters once submission tags start carrying non-ASCII text.
var caseInsensitiveCollator = collate.New(language.Und, collate.IgnoreCase)

// FormatList encodes a list of non-empty strings as `|e1||e2||...||en|`.
// An empty list encodes to the empty string.
func FormatList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteByte('|')
		b.WriteString(v)
		b.WriteByte('|')
	}
	return b.String()
}

// ParseList decodes a `|e1||e2||...||en|` cell back into its elements.
// It strips exactly one leading and one trailing pipe, then splits on the
// double pipe separator, dropping any empty elements produced by the split.
func ParseList(cell string) []string {
	if cell == "" {
		return nil
	}
	s := cell
	if strings.HasPrefix(s, "|") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "|") {
		s = s[:len(s)-1]
	}
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "||")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FormatSet sorts values ascending, case-insensitively, then encodes them
// like FormatList. Duplicate elements (compared case-insensitively) are
// collapsed, keeping the first-seen casing.
func FormatSet(values []string) string {
	seen := make(map[string]string, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = v
		order = append(order, v)
	}
	sort.Slice(order, func(i, j int) bool {
		return caseInsensitiveCollator.CompareString(order[i], order[j]) < 0
	})
	return FormatList(order)
}

// ParseSet decodes a set cell the same way ParseList does; the on-disk
// encoding is already sorted, so no re-sort is required on read.
func ParseSet(cell string) []string {
	return ParseList(cell)
}
