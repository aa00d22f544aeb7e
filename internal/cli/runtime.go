package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sandeepkv93/checkd/internal/config"
	"github.com/sandeepkv93/checkd/internal/logging"
	"github.com/sandeepkv93/checkd/internal/storage"
	"github.com/sandeepkv93/checkd/internal/telegram"
	"github.com/sandeepkv93/checkd/internal/templates"
)

// runtime holds what every command needs: settings, logger and stores.
type runtime struct {
	cfg         config.Config
	logger      *slog.Logger
	kv          storage.KV
	checklists  *storage.ChecklistStore
	completions *storage.CompletionStore
}

func openRuntime(opts *rootOptions, logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format, logOut)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(cfg.Store.Driver, cfg.Store.Path, logger.With("component", "storage"))
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "driver", cfg.Store.Driver, "path", cfg.Store.Path)

	return &runtime{
		cfg:         cfg,
		logger:      logger,
		kv:          kv,
		checklists:  storage.NewChecklistStore(kv),
		completions: storage.NewCompletionStore(kv),
	}, nil
}

func (r *runtime) Close() error {
	return r.kv.Close()
}

// applyTemplates seeds checklists from templates.path when configured.
func (r *runtime) applyTemplates(ctx context.Context) error {
	path := r.cfg.Templates.Path
	if path == "" {
		return nil
	}
	set, err := templates.Load(path)
	if err != nil {
		return err
	}
	if err := templates.Apply(ctx, r.checklists, set); err != nil {
		return err
	}
	r.logger.Info("templates applied", "path", path, "keys", len(set))
	return nil
}

func (r *runtime) telegramClient() (*telegram.Client, error) {
	if err := r.cfg.RequireTelegram(); err != nil {
		return nil, err
	}
	client, err := telegram.NewClient(telegram.ClientConfig{
		Token:         r.cfg.Telegram.Token,
		BaseURL:       r.cfg.Telegram.APIURL,
		RatePerSecond: r.cfg.Telegram.RatePerSecond,
		Logger:        r.logger.With("component", "telegram"),
	})
	if err != nil {
		return nil, fmt.Errorf("telegram client: %w", err)
	}
	return client, nil
}

func closeWith(err *error, r *runtime) {
	if cerr := r.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("close store: %w", cerr))
	}
}
