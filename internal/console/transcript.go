package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandeepkv93/checkd/internal/views"
)

// ChatID is the single chat the console simulates.
const ChatID int64 = 1

var ErrUnknownMessage = errors.New("console: unknown message")

// Transcript is an in-process messenger that keeps every message it is
// asked to deliver, in order. Edits rewrite the stored message in place.
type Transcript struct {
	mu      sync.Mutex
	entries []views.ConsoleEntry
	nextID  int64
}

func NewTranscript() *Transcript {
	return &Transcript{nextID: 1}
}

func (t *Transcript) SendText(_ context.Context, _ int64, text string) error {
	t.append(views.ConsoleEntry{Text: text})
	return nil
}

func (t *Transcript) SendControls(_ context.Context, _ int64, payload views.Payload) error {
	t.append(views.ConsoleEntry{Text: payload.Text(), Controls: cloneControls(payload.Controls)})
	return nil
}

func (t *Transcript) EditMessage(_ context.Context, _ int64, messageID int64, payload views.Payload) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].ID != messageID {
			continue
		}
		t.entries[i].Text = payload.Text()
		t.entries[i].Controls = cloneControls(payload.Controls)
		t.entries[i].Edited = true
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownMessage, messageID)
}

func (t *Transcript) append(entry views.ConsoleEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry.ID = t.nextID
	t.nextID++
	t.entries = append(t.entries, entry)
}

// Entries returns a copy of the transcript.
func (t *Transcript) Entries() []views.ConsoleEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]views.ConsoleEntry, len(t.entries))
	for i, entry := range t.entries {
		entry.Controls = cloneControls(entry.Controls)
		out[i] = entry
	}
	return out
}

// Active is the most recent message that carries controls.
func (t *Transcript) Active() (views.ConsoleEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.entries) - 1; i >= 0; i-- {
		if len(t.entries[i].Controls) > 0 {
			entry := t.entries[i]
			entry.Controls = cloneControls(entry.Controls)
			return entry, true
		}
	}
	return views.ConsoleEntry{}, false
}

func cloneControls(in []views.Control) []views.Control {
	if len(in) == 0 {
		return nil
	}
	out := make([]views.Control, len(in))
	copy(out, in)
	return out
}
