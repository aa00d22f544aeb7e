// Package server receives the chat provider's webhook and hands events to
// the checklist controller.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sandeepkv93/checkd/internal/checklist"
)

const (
	secretHeader    = "X-Telegram-Bot-Api-Secret-Token"
	requestIDHeader = "X-Request-Id"
	loggerKey       = "logger"
	shutdownTimeout = 5 * time.Second
)

// EventHandler is implemented by checklist.Controller.
type EventHandler interface {
	HandleText(ctx context.Context, chatID int64, text string) error
	HandleToggle(ctx context.Context, ref checklist.MessageRef, token string) error
}

// CallbackAnswerer acknowledges button presses. It may be nil.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID string) error
}

type Config struct {
	// WebhookSecret, when set, must match the secret token header.
	WebhookSecret string
	Logger        *slog.Logger
}

type Server struct {
	router   *gin.Engine
	events   EventHandler
	answerer CallbackAnswerer
	secret   string
	logger   *slog.Logger
}

func New(cfg Config, events EventHandler, answerer CallbackAnswerer) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()

	s := &Server{
		router:   router,
		events:   events,
		answerer: answerer,
		secret:   cfg.WebhookSecret,
		logger:   logger.With("component", "server"),
	}

	router.Use(gin.Recovery(), s.requestLogger())
	router.POST("/webhook", s.handleWebhook)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		logger := s.logger.With("request_id", id)
		c.Set(loggerKey, logger)

		start := time.Now()
		c.Next()
		logger.Debug("request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
