package models

import (
	"encoding/json"
	"sort"
)

// IDSet is a set of reminder ids. A nil IDSet is empty and safe to query.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Slice returns the ids in sorted order
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array of strings.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes an array of strings.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
