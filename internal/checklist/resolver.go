package checklist

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/checkd/internal/model"
)

// ChecklistStore is the subset of storage.ChecklistStore the package needs.
type ChecklistStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Put(ctx context.Context, key string, items []string) error
	Delete(ctx context.Context, key string) error
}

// CompletionStore is the subset of storage.CompletionStore the package needs.
type CompletionStore interface {
	Get(ctx context.Context, key string) (model.CompletionSet, error)
	MarkDone(ctx context.Context, key string, index int) (bool, error)
}

type Resolver struct {
	checklists ChecklistStore
}

func NewResolver(checklists ChecklistStore) *Resolver {
	return &Resolver{checklists: checklists}
}

// Resolve picks the checklist for day: the exact date entry, else the weekday
// default, else the placeholder. The result is always written back under the
// date key so later toggles refer to a frozen copy, unaffected by edits to the
// weekday default. day is interpreted in its own location.
func (r *Resolver) Resolve(ctx context.Context, day time.Time) ([]string, string, error) {
	key := model.DateKey(day)
	items, err := r.checklists.Get(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", key, err)
	}
	if len(items) == 0 {
		items, err = r.checklists.Get(ctx, model.WeekdayKey(day))
		if err != nil {
			return nil, "", fmt.Errorf("resolve %s weekday fallback: %w", key, err)
		}
	}
	if len(items) == 0 {
		items = model.CloneItems(model.Placeholder)
	}
	if err := r.checklists.Put(ctx, key, items); err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", key, err)
	}
	return items, key, nil
}
