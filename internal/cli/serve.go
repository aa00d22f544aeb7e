package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/checkd/internal/checklist"
	"github.com/sandeepkv93/checkd/internal/metrics"
	"github.com/sandeepkv93/checkd/internal/scheduler"
	"github.com/sandeepkv93/checkd/internal/server"
	"github.com/sandeepkv93/checkd/internal/templates"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and the daily checklist schedule",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			rt, err := openRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeWith(&err, rt)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *runtime) error {
	cfg := rt.cfg
	if err := rt.applyTemplates(ctx); err != nil {
		return err
	}
	client, err := rt.telegramClient()
	if err != nil {
		return err
	}

	var runner *scheduler.Daily
	var daily *checklist.Daily
	if cfg.Schedule.Enabled {
		if err := cfg.RequireChat(); err != nil {
			return err
		}
		clock, err := cfg.ScheduleClock()
		if err != nil {
			return err
		}
		daily = checklist.NewDaily(checklist.NewResolver(rt.checklists), client, cfg.Telegram.ChatID, cfg.Zone(), rt.logger)
		runner = scheduler.NewDaily(scheduler.NewEngine(4), clock, cfg.Zone(), rt.logger.With("component", "scheduler"))
	}

	controller := checklist.NewController(rt.checklists, rt.completions, client, rt.logger.With("component", "checklist"))
	srv := server.New(server.Config{WebhookSecret: cfg.Telegram.WebhookSecret, Logger: rt.logger}, controller, client)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.Server.Addr)
	})
	if runner != nil {
		g.Go(func() error {
			return runner.Run(gctx, observedFire(daily))
		})
	} else {
		rt.logger.Info("daily schedule disabled")
	}

	if cfg.Templates.Watch && cfg.Templates.Path != "" {
		g.Go(func() error {
			return templates.Watch(gctx, cfg.Templates.Path, rt.logger.With("component", "templates"), func(ctx context.Context, set templates.Set) error {
				return templates.Apply(ctx, rt.checklists, set)
			})
		})
	}

	rt.logger.Info("checkd serving", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
	return g.Wait()
}

// observedFire records every daily send in the trigger metrics.
func observedFire(daily *checklist.Daily) scheduler.FireFunc {
	return func(ctx context.Context, at time.Time) error {
		start := time.Now()
		err := daily.Fire(ctx, at)
		metrics.ObserveTrigger(err)
		metrics.Observe(metrics.EventTrigger, start, err)
		return err
	}
}
