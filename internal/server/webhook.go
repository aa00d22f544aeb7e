package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/checkd/internal/checklist"
	"github.com/sandeepkv93/checkd/internal/metrics"
	"github.com/sandeepkv93/checkd/internal/telegram"
)

// handleWebhook answers 200 even when handling fails: the provider would
// otherwise redeliver, and a failed event is simply dropped.
func (s *Server) handleWebhook(c *gin.Context) {
	if s.secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(secretHeader)), []byte(s.secret)) != 1 {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid secret token"})
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed update"})
		return
	}

	logger := loggerFrom(c).With("update_id", update.UpdateID)
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		s.handleCallback(c, logger, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		s.handleText(c, logger, update.Message)
	default:
		metrics.Observe(metrics.EventIgnored, time.Now(), nil)
		logger.Debug("update ignored")
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) handleCallback(c *gin.Context, logger *slog.Logger, cb *telegram.CallbackQuery) {
	ctx := c.Request.Context()
	start := time.Now()
	ref := checklist.MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.MessageID}
	err := s.events.HandleToggle(ctx, ref, cb.Data)
	metrics.Observe(metrics.EventToggle, start, err)
	if err != nil {
		logger.Error("toggle failed", "chat_id", ref.ChatID, "message_id", ref.MessageID, "data", cb.Data, "error", err)
	}
	if s.answerer == nil {
		return
	}
	if err := s.answerer.AnswerCallback(ctx, cb.ID); err != nil {
		logger.Warn("answer callback failed", "callback_id", cb.ID, "error", err)
	}
}

func (s *Server) handleText(c *gin.Context, logger *slog.Logger, msg *telegram.Message) {
	start := time.Now()
	err := s.events.HandleText(c.Request.Context(), msg.Chat.ID, msg.Text)
	metrics.Observe(metrics.EventText, start, err)
	if err != nil {
		logger.Error("command failed", "chat_id", msg.Chat.ID, "error", err)
	}
}
