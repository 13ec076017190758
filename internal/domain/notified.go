package domain

// NotifiedSet is the set of listing ids that were already sent out.
// It remembers insertion order so the persisted array stays stable across runs.
type NotifiedSet struct {
	order []string
	index map[string]struct{}
}

// NewNotifiedSet builds a set from ids, dropping duplicates and keeping the first occurrence.
func NewNotifiedSet(ids ...string) *NotifiedSet {
	s := &NotifiedSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *NotifiedSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Add inserts id and reports whether it was not present yet.
func (s *NotifiedSet) Add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *NotifiedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns a copy of the ids in insertion order.
func (s *NotifiedSet) IDs() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns an independent copy.
func (s *NotifiedSet) Clone() *NotifiedSet {
	return NewNotifiedSet(s.IDs()...)
}
