package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandeepkv93/checkd/internal/model"
)

// ChecklistStore maps checklist keys to ordered item labels under
// "checklist:{key}".
type ChecklistStore struct {
	kv KV
}

func NewChecklistStore(kv KV) *ChecklistStore {
	return &ChecklistStore{kv: kv}
}

func (s *ChecklistStore) Put(ctx context.Context, key string, items []string) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode checklist %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, model.ChecklistKey(key), string(raw)); err != nil {
		return fmt.Errorf("put checklist %s: %w", key, err)
	}
	return nil
}

// Get returns an empty list when key has no checklist.
func (s *ChecklistStore) Get(ctx context.Context, key string) ([]string, error) {
	raw, err := s.kv.Get(ctx, model.ChecklistKey(key))
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get checklist %s: %w", key, err)
	}
	items := make([]string, 0)
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode checklist %s: %w", key, err)
	}
	return items, nil
}

func (s *ChecklistStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, model.ChecklistKey(key)); err != nil {
		return fmt.Errorf("delete checklist %s: %w", key, err)
	}
	return nil
}
