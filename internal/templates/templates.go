// Package templates seeds checklists from a YAML file of the form
//
//	mon: [Standup, Review inbox]
//	2026-01-13: [Dentist]
//
// Keys are weekday keys or dates; each value replaces the stored list.
package templates

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/checkd/internal/model"
)

var ErrEmptyTemplate = errors.New("templates: template has no items")

// Set maps a checklist key to its items.
type Set map[string][]string

// Putter is satisfied by storage.ChecklistStore.
type Putter interface {
	Put(ctx context.Context, key string, items []string) error
}

func Load(path string) (Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("templates: read %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Set, error) {
	var decoded map[string][]string
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("templates: decode: %w", err)
	}
	set := make(Set, len(decoded))
	for key, items := range decoded {
		key = model.NormalizeKey(strings.TrimSpace(key))
		if key == "" {
			return nil, model.ErrEmptyKey
		}
		cleaned := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				cleaned = append(cleaned, item)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyTemplate, key)
		}
		set[key] = cleaned
	}
	return set, nil
}

// Keys returns the template keys in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apply writes every template, in key order. It stops at the first failure.
func Apply(ctx context.Context, checklists Putter, set Set) error {
	for _, key := range set.Keys() {
		if err := checklists.Put(ctx, key, set[key]); err != nil {
			return fmt.Errorf("templates: apply %s: %w", key, err)
		}
	}
	return nil
}
