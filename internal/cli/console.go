package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/checkd/internal/checklist"
	"github.com/sandeepkv93/checkd/internal/console"
)

func newConsoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Drive checklists from a local terminal instead of Telegram",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			// Log lines would tear the full-screen view.
			rt, err := openRuntime(opts, io.Discard)
			if err != nil {
				return err
			}
			defer closeWith(&err, rt)

			if err := rt.applyTemplates(cmd.Context()); err != nil {
				return err
			}
			transcript := console.NewTranscript()
			controller := checklist.NewController(rt.checklists, rt.completions, transcript, rt.logger)
			daily := checklist.NewDaily(checklist.NewResolver(rt.checklists), transcript, console.ChatID, rt.cfg.Zone(), rt.logger)

			program := tea.NewProgram(
				console.NewModel(cmd.Context(), controller, daily, transcript),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = program.Run()
			return err
		},
	}
}
