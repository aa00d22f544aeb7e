package checklist

import (
	"context"
	"errors"
	"sync"

	"github.com/sandeepkv93/checkd/internal/model"
	"github.com/sandeepkv93/checkd/internal/storage"
	"github.com/sandeepkv93/checkd/internal/views"
)

type sentMessage struct {
	ChatID    int64
	MessageID int64
	Text      string
	Payload   *views.Payload
	Edit      bool
}

type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *recordingMessenger) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *recordingMessenger) SendControls(_ context.Context, chatID int64, p views.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: p.Text(), Payload: &p})
	return nil
}

func (m *recordingMessenger) EditMessage(_ context.Context, chatID, messageID int64, p views.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, MessageID: messageID, Text: p.Text(), Payload: &p, Edit: true})
	return nil
}

func (m *recordingMessenger) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	kv          *storage.MemoryKV
	checklists  *storage.ChecklistStore
	completions *storage.CompletionStore
	messenger   *recordingMessenger
	controller  *Controller
	resolver    *Resolver
}

func newFixture() *fixture {
	kv := storage.NewMemoryKV()
	f := &fixture{
		kv:          kv,
		checklists:  storage.NewChecklistStore(kv),
		completions: storage.NewCompletionStore(kv),
		messenger:   &recordingMessenger{},
	}
	f.controller = NewController(f.checklists, f.completions, f.messenger, nil)
	f.resolver = NewResolver(f.checklists)
	return f
}

var errStoreDown = errors.New("store down")

type failingChecklists struct{}

func (failingChecklists) Get(context.Context, string) ([]string, error) { return nil, errStoreDown }
func (failingChecklists) Put(context.Context, string, []string) error { return errStoreDown }
func (failingChecklists) Delete(context.Context, string) error { return errStoreDown }

type failingCompletions struct{}

func (failingCompletions) Get(context.Context, string) (model.CompletionSet, error) {
	return model.CompletionSet{}, errStoreDown
}

func (failingCompletions) MarkDone(context.Context, string, int) (bool, error) {
	return false, errStoreDown
}
