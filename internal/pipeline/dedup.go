package pipeline

import "rentwatch-engine/internal/domain"

// NewListings keeps the listings of all whose id is not in known, in order.
// Listings without an id cannot be tracked and are always kept.
// A non-empty id seen twice in all is kept only the first time.
func NewListings(all []domain.Listing, known *domain.NotifiedSet) []domain.Listing {
	var out []domain.Listing
	seen := make(map[string]struct{})
	for _, l := range all {
		if l.ID == "" {
			out = append(out, l)
			continue
		}
		if known.Has(l.ID) {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}

// MergeIDs returns known plus the ids of fresh, leaving known untouched.
// Empty ids are never recorded.
func MergeIDs(known *domain.NotifiedSet, fresh []domain.Listing) *domain.NotifiedSet {
	out := known.Clone()
	for _, l := range fresh {
		if l.ID != "" {
			out.Add(l.ID)
		}
	}
	return out
}
