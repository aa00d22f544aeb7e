package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandeepkv93/checkd/internal/model"
)

// CompletionStore maps checklist keys to completed item indices under
// "done:{key}". MarkDone goes through KV.Update, so concurrent toggles on the
// same key are serialized by the backend instead of racing on a plain
// read-then-write.
type CompletionStore struct {
	kv KV
}

func NewCompletionStore(kv KV) *CompletionStore {
	return &CompletionStore{kv: kv}
}

func (s *CompletionStore) Get(ctx context.Context, key string) (model.CompletionSet, error) {
	raw, err := s.kv.Get(ctx, model.DoneKey(key))
	if errors.Is(err, ErrNotFound) {
		return model.NewCompletionSet(), nil
	}
	if err != nil {
		return model.CompletionSet{}, fmt.Errorf("get completions %s: %w", key, err)
	}
	return decodeCompletions(key, raw)
}

// MarkDone adds index to the set for key and reports whether it was new.
func (s *CompletionStore) MarkDone(ctx context.Context, key string, index int) (bool, error) {
	if index < 0 {
		return false, fmt.Errorf("storage: negative completion index %d", index)
	}
	added := false
	err := s.kv.Update(ctx, model.DoneKey(key), func(current string, found bool) (string, error) {
		set := model.NewCompletionSet()
		if found {
			decoded, err := decodeCompletions(key, current)
			if err != nil {
				return "", err
			}
			set = decoded
		}
		added = set.Add(strconv.Itoa(index))
		if !added {
			return "", ErrSkipWrite
		}
		raw, err := json.Marshal(set.Strings())
		if err != nil {
			return "", fmt.Errorf("encode completions %s: %w", key, err)
		}
		return string(raw), nil
	})
	if err != nil {
		return false, fmt.Errorf("mark done %s[%d]: %w", key, index, err)
	}
	return added, nil
}

// decodeCompletions accepts indices written as JSON strings or numbers.
func decodeCompletions(key, raw string) (model.CompletionSet, error) {
	values := make([]any, 0)
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return model.CompletionSet{}, fmt.Errorf("decode completions %s: %w", key, err)
	}
	indices := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case string:
			indices = append(indices, t)
		case float64:
			indices = append(indices, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	return model.NewCompletionSet(indices...), nil
}
