package model

import (
	"strconv"
	"strings"
)

// CompletionSet holds completed item indices in canonical decimal form.
// Insertion order is kept so the persisted value is stable.
type CompletionSet struct {
	order []string
	index map[string]struct{}
}

func NewCompletionSet(indices ...string) CompletionSet {
	s := CompletionSet{index: make(map[string]struct{}, len(indices))}
	for _, raw := range indices {
		s.Add(raw)
	}
	return s
}

// Add inserts index and reports whether the set changed. Values that are not
// non-negative integers are ignored.
func (s *CompletionSet) Add(index string) bool {
	canonical, ok := CanonicalIndex(index)
	if !ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, exists := s.index[canonical]; exists {
		return false
	}
	s.index[canonical] = struct{}{}
	s.order = append(s.order, canonical)
	return true
}

func (s CompletionSet) Has(i int) bool {
	_, ok := s.index[strconv.Itoa(i)]
	return ok
}

func (s CompletionSet) Len() int {
	return len(s.order)
}

func (s CompletionSet) Strings() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// CanonicalIndex normalizes "007" and " 7" to "7".
func CanonicalIndex(raw string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return "", false
	}
	return strconv.Itoa(n), true
}
