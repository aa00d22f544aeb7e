package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/checkd/internal/checklist"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type textCall struct {
	ChatID int64
	Text   string
}

type toggleCall struct {
	Ref   checklist.MessageRef
	Token string
}

type mockEvents struct {
	mu        sync.Mutex
	texts     []textCall
	toggles   []toggleCall
	toggleErr error
}

func (m *mockEvents) HandleText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, textCall{ChatID: chatID, Text: text})
	return nil
}

func (m *mockEvents) HandleToggle(_ context.Context, ref checklist.MessageRef, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles = append(m.toggles, toggleCall{Ref: ref, Token: token})
	return m.toggleErr
}

type mockAnswerer struct {
	ids []string
}

func (m *mockAnswerer) AnswerCallback(_ context.Context, id string) error {
	m.ids = append(m.ids, id)
	return nil
}

func postUpdate(t *testing.T, h http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookDispatchesTextMessage(t *testing.T) {
	events := &mockEvents{}
	srv := New(Config{}, events, nil)

	rec := postUpdate(t, srv.Handler(), `{"update_id":1,"message":{"message_id":10,"chat":{"id":42},"text":"/list 2026-01-13"}}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events.texts, 1)
	assert.Equal(t, textCall{ChatID: 42, Text: "/list 2026-01-13"}, events.texts[0])
	assert.Empty(t, events.toggles)
}

func TestWebhookDispatchesCallbackAndAnswers(t *testing.T) {
	events := &mockEvents{}
	answerer := &mockAnswerer{}
	srv := New(Config{}, events, answerer)

	body := `{"update_id":2,"callback_query":{"id":"cb-9","data":"toggle:0:2026-01-13","message":{"message_id":77,"chat":{"id":42}}}}`
	rec := postUpdate(t, srv.Handler(), body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, events.toggles, 1)
	assert.Equal(t, checklist.MessageRef{ChatID: 42, MessageID: 77}, events.toggles[0].Ref)
	assert.Equal(t, "toggle:0:2026-01-13", events.toggles[0].Token)
	assert.Equal(t, []string{"cb-9"}, answerer.ids)
}

func TestWebhookFailureStillAnswersOK(t *testing.T) {
	events := &mockEvents{toggleErr: errors.New("store down")}
	answerer := &mockAnswerer{}
	srv := New(Config{}, events, answerer)

	body := `{"update_id":3,"callback_query":{"id":"cb-1","data":"toggle:0:mon","message":{"message_id":1,"chat":{"id":1}}}}`
	rec := postUpdate(t, srv.Handler(), body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cb-1"}, answerer.ids)
}

func TestWebhookIgnoresUnsupportedUpdates(t *testing.T) {
	events := &mockEvents{}
	srv := New(Config{}, events, nil)

	for _, body := range []string{
		`{"update_id":4}`,
		`{"update_id":5,"message":{"message_id":1,"chat":{"id":1}}}`,
		`{"update_id":6,"callback_query":{"id":"x","data":"toggle:0:mon"}}`,
	} {
		rec := postUpdate(t, srv.Handler(), body, nil)
		assert.Equal(t, http.StatusOK, rec.Code, body)
	}
	assert.Empty(t, events.texts)
	assert.Empty(t, events.toggles)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	srv := New(Config{}, &mockEvents{}, nil)
	rec := postUpdate(t, srv.Handler(), `{"update_id":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookSecret(t *testing.T) {
	events := &mockEvents{}
	srv := New(Config{WebhookSecret: "s3cret"}, events, nil)
	body := `{"update_id":7,"message":{"message_id":1,"chat":{"id":1},"text":"/help"}}`

	rec := postUpdate(t, srv.Handler(), body, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postUpdate(t, srv.Handler(), body, map[string]string{secretHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, events.texts)

	rec = postUpdate(t, srv.Handler(), body, map[string]string{secretHeader: "s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, events.texts, 1)
}

func TestRequestIDHeader(t *testing.T) {
	srv := New(Config{}, &mockEvents{}, nil)

	rec := postUpdate(t, srv.Handler(), `{"update_id":8}`, map[string]string{requestIDHeader: "req-123"})
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))

	rec = postUpdate(t, srv.Handler(), `{"update_id":9}`, nil)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := New(Config{}, &mockEvents{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	postUpdate(t, srv.Handler(), `{"update_id":10}`, nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "checkd_events_total")
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New(Config{}, &mockEvents{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	cancel()
	require.NoError(t, <-done)
}
