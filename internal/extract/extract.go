// Package extract pulls candidate hostnames and pagination cursors out of
// loosely-structured JSON documents.
//
// Upstream response shapes are not contractually fixed, so extraction walks
// the decoded any-tree (string | []any | map[string]any) with a tolerant
// depth-first heuristic instead of a schema. False positives are expected and
// filtered later by scope checking.
package extract

import (
	"iter"
	"sort"
	"strings"
)

// candidateKeys are checked first on every mapping; non-empty string values
// under them are emitted directly.
var candidateKeys = []string{"domain", "subdomain", "fqdn", "name", "host"}

// containerKeys are likely collection fields; they are recursed into after
// the candidate keys.
var containerKeys = []string{"subdomains", "results", "data", "items"}

// cursorKeys are likely pagination fields, checked in priority order at each
// mapping level before recursing.
var cursorKeys = []string{"page_state", "next_page_state", "next", "cursor"}

// Candidates walks tree depth-first and lazily yields every candidate
// hostname string it finds. A string node yields itself; a sequence yields
// the concatenation of its elements' extractions in order; a mapping yields
// string values under the candidate keys, then recurses into the container
// keys, then into every remaining mapping- or sequence-valued field. The
// fallback deliberately over-approximates (container fields are visited
// twice); downstream deduplication and scope filtering keep that harmless,
// and it guarantees no data is missed in unknown shapes.
//
// The walk is pure and stateless: two calls on the same tree yield the same
// sequence. Mapping fields outside the priority lists are visited in sorted
// key order since Go maps do not iterate deterministically.
func Candidates(tree any) iter.Seq[string] {
	return func(yield func(string) bool) {
		walkCandidates(tree, yield)
	}
}

func walkCandidates(node any, yield func(string) bool) bool {
	switch v := node.(type) {
	case string:
		return yield(v)
	case []any:
		for _, item := range v {
			if !walkCandidates(item, yield) {
				return false
			}
		}
	case map[string]any:
		for _, k := range candidateKeys {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				if !yield(strings.TrimSpace(s)) {
					return false
				}
			}
		}
		for _, k := range containerKeys {
			switch v[k].(type) {
			case []any, map[string]any, string:
				if !walkCandidates(v[k], yield) {
					return false
				}
			}
		}
		for _, k := range sortedKeys(v) {
			switch v[k].(type) {
			case []any, map[string]any:
				if !walkCandidates(v[k], yield) {
					return false
				}
			}
		}
	}
	return true
}

// Cursor returns the opaque next-page token found in tree, or "" when the
// document carries none. Priority keys are checked at each mapping level
// before recursing into children, so the shallowest match wins; ties at the
// same level resolve by key priority, then by sorted field order.
func Cursor(tree any) string {
	switch v := tree.(type) {
	case map[string]any:
		for _, k := range cursorKeys {
			if s, ok := v[k].(string); ok && s != "" {
				return s
			}
		}
		for _, k := range sortedKeys(v) {
			if cursor := Cursor(v[k]); cursor != "" {
				return cursor
			}
		}
	case []any:
		for _, item := range v {
			if cursor := Cursor(item); cursor != "" {
				return cursor
			}
		}
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
