package userstate

import (
	"encoding/json"
	"slices"
)

// IDSet is a set of condition ids that remembers insertion order. It
// serializes as a JSON array and deserializes from one, dropping repeats.
type IDSet struct {
	order   []int
	members map[int]struct{}
}

// NewIDSet builds a set from ids in order, ignoring repeats.
func NewIDSet(ids ...int) *IDSet {
	s := &IDSet{members: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports membership.
func (s *IDSet) Has(id int) bool {
	_, ok := s.members[id]
	return ok
}

// Add inserts id and reports whether it was new.
func (s *IDSet) Add(id int) bool {
	if s.members == nil {
		s.members = make(map[int]struct{})
	}
	if s.Has(id) {
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *IDSet) Remove(id int) bool {
	if !s.Has(id) {
		return false
	}
	delete(s.members, id)
	s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
	return true
}

// Toggle flips membership and returns the new state.
func (s *IDSet) Toggle(id int) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Len returns the number of members.
func (s *IDSet) Len() int {
	return len(s.order)
}

// IDs returns the members in insertion order.
func (s *IDSet) IDs() []int {
	return append([]int{}, s.order...)
}

// Sorted returns the members in ascending order, for stable keys.
func (s *IDSet) Sorted() []int {
	ids := s.IDs()
	slices.Sort(ids)
	return ids
}

func (s *IDSet) MarshalJSON() ([]byte, error) {
	if s == nil || s.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.order)
}

func (s *IDSet) UnmarshalJSON(b []byte) error {
	var ids []int
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = *NewIDSet(ids...)
	return nil
}
