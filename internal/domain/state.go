package domain

import "sort"

// PublicationState is the set of identities already emitted or marked.
type PublicationState map[string]struct{}

// NewPublicationState builds a state from identities.
func NewPublicationState(ids ...string) PublicationState {
	s := make(PublicationState, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether the identity is already processed.
func (s PublicationState) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks an identity as processed. Empty identities are ignored.
func (s PublicationState) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Merge adds every identity from ids.
func (s PublicationState) Merge(ids []string) {
	for _, id := range ids {
		s.Add(id)
	}
}

// Clone returns an independent copy.
func (s PublicationState) Clone() PublicationState {
	out := make(PublicationState, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Len returns the number of identities.
func (s PublicationState) Len() int {
	return len(s)
}

// Sorted returns identities in lexical order for stable persistence.
func (s PublicationState) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
