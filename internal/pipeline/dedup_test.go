package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentwatch-engine/internal/domain"
)

func TestNewListings(t *testing.T) {
	tests := []struct {
		name  string
		all   []string
		known []string
		want  []string
	}{
		{"nothing known", []string{"1", "2"}, nil, []string{"1", "2"}},
		{"all known", []string{"1", "2"}, []string{"2", "1"}, nil},
		{"keeps order", []string{"3", "1", "4", "2"}, []string{"1"}, []string{"3", "4", "2"}},
		{"empty ids always new", []string{"", "1", ""}, []string{"1", ""}, []string{"", ""}},
		{"duplicate id in one run", []string{"7", "8", "7"}, nil, []string{"7", "8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var all []domain.Listing
			for _, id := range tt.all {
				all = append(all, domain.Listing{ID: id})
			}
			known := domain.NewNotifiedSet(tt.known...)

			got := NewListings(all, known)

			var gotIDs []string
			for _, l := range got {
				gotIDs = append(gotIDs, l.ID)
				if l.ID != "" {
					assert.False(t, known.Has(l.ID), "known id %q leaked", l.ID)
				}
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}

func TestMergeIDs(t *testing.T) {
	known := domain.NewNotifiedSet("9")
	fresh := []domain.Listing{{ID: "1"}, {ID: ""}, {ID: "2"}, {ID: "9"}}

	got := MergeIDs(known, fresh)

	assert.Equal(t, []string{"9", "1", "2"}, got.IDs())
	assert.Equal(t, []string{"9"}, known.IDs(), "input set must not change")
}
