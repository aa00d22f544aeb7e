package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/checkd/internal/checklist"
)

func newTriggerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Send today's checklist once and exit",
		Long:  "Send today's checklist once and exit. Meant for an external cron in place of the built-in schedule.",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			rt, err := openRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeWith(&err, rt)

			if err := rt.cfg.RequireChat(); err != nil {
				return err
			}
			if err := rt.applyTemplates(cmd.Context()); err != nil {
				return err
			}
			client, err := rt.telegramClient()
			if err != nil {
				return err
			}
			daily := checklist.NewDaily(checklist.NewResolver(rt.checklists), client, rt.cfg.Telegram.ChatID, rt.cfg.Zone(), rt.logger)
			return observedFire(daily)(cmd.Context(), time.Now())
		},
	}
}
