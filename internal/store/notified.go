package store

import (
	"context"
	"fmt"

	"rentwatch-engine/internal/domain"
)

// NotifiedKey is the single record holding every id that was sent out.
const NotifiedKey = "sent_listings"

// KV is the durable key-value capability both backends provide.
type KV interface {
	GetJSON(ctx context.Context, key string, dst any) (found bool, err error)
	PutJSON(ctx context.Context, key string, v any) error
}

// NotifiedStore keeps the notified id set as one JSON array in a KV.
type NotifiedStore struct {
	KV  KV
	Key string
}

func NewNotifiedStore(kv KV) *NotifiedStore {
	return &NotifiedStore{KV: kv, Key: NotifiedKey}
}

// ReadNotifiedIDs returns the stored set, or an empty one when nothing was written yet.
func (s *NotifiedStore) ReadNotifiedIDs(ctx context.Context) (*domain.NotifiedSet, error) {
	var ids []string
	if _, err := s.KV.GetJSON(ctx, s.Key, &ids); err != nil {
		return nil, fmt.Errorf("read notified ids: %w", err)
	}
	return domain.NewNotifiedSet(ids...), nil
}

// WriteNotifiedIDs replaces the stored array with the full set.
func (s *NotifiedStore) WriteNotifiedIDs(ctx context.Context, set *domain.NotifiedSet) error {
	if err := s.KV.PutJSON(ctx, s.Key, set.IDs()); err != nil {
		return fmt.Errorf("write notified ids: %w", err)
	}
	return nil
}
