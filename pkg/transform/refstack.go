package transform

import "strings"

type refEntry struct {
	depth     int
	canonical string
}

// refStack holds the canonical references of the open elements that carried
// one. Depths are non-decreasing from bottom to top.
type refStack []refEntry

func (s refStack) top() (refEntry, bool) {
	if len(s) == 0 {
		return refEntry{}, false
	}
	return s[len(s)-1], true
}

// resolve computes the canonical form of raw against the innermost entry.
func (s refStack) resolve(raw string) string {
	if strings.HasPrefix(raw, "/") {
		return raw
	}
	if top, ok := s.top(); ok {
		return top.canonical + "/" + raw
	}
	return raw
}

func (s *refStack) push(depth int, canonical string) {
	*s = append(*s, refEntry{depth: depth, canonical: canonical})
}

// popFrom drops every entry opened at depth or deeper.
func (s *refStack) popFrom(depth int) {
	stack := *s
	for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
		stack = stack[:len(stack)-1]
	}
	*s = stack
}
