package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/checkd/internal/commands"
	"github.com/sandeepkv93/checkd/internal/model"
	"github.com/sandeepkv93/checkd/internal/views"
)

const (
	msgUnknownCommand = "Unknown command"
	msgNoChecklist    = "No checklist for this date"
)

const helpText = `Commands:
/addlist YYYY-MM-DD Task1;Task2;Task3 - save a checklist (use mon..sun for weekday defaults)
/removelist YYYY-MM-DD - delete a checklist
/list YYYY-MM-DD - show a checklist`

// Controller reacts to inbound chat events.
type Controller struct {
	checklists  ChecklistStore
	completions CompletionStore
	messenger   Messenger
	logger      *slog.Logger
}

func NewController(checklists ChecklistStore, completions CompletionStore, messenger Messenger, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		checklists:  checklists,
		completions: completions,
		messenger:   messenger,
		logger:      logger,
	}
}

// HandleText runs a chat command and replies in chatID. Usage problems and
// unknown commands are answered in chat; only store and delivery failures
// are returned.
func (c *Controller) HandleText(ctx context.Context, chatID int64, text string) error {
	reply, err := c.reply(ctx, text)
	if err != nil {
		return err
	}
	if err := c.messenger.SendText(ctx, chatID, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

func (c *Controller) reply(ctx context.Context, text string) (string, error) {
	cmd, err := commands.Parse(text)
	if err != nil {
		var ce *commands.CommandError
		if errors.As(err, &ce) && ce.Code == commands.ErrCodeInvalidArgument {
			return ce.Usage, nil
		}
		return msgUnknownCommand, nil
	}
	res, err := commands.Execute(ctx, cmd, commands.Handlers{
		AddList:    c.defineChecklist,
		RemoveList: c.removeChecklist,
		List:       c.listChecklist,
		Help: func(context.Context) (commands.Result, error) {
			return commands.Result{Message: helpText}, nil
		},
	})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Controller) defineChecklist(ctx context.Context, args commands.AddListArgs) (commands.Result, error) {
	if err := (model.Checklist{Key: args.Key, Items: args.Items}).Validate(); err != nil {
		return commands.Result{Message: commands.UsageAddList}, nil
	}
	if err := c.checklists.Put(ctx, args.Key, args.Items); err != nil {
		return commands.Result{}, err
	}
	c.logger.Info("checklist defined", "key", args.Key, "items", len(args.Items))
	return commands.Result{Message: fmt.Sprintf("✅ Checklist saved for %s", args.Key)}, nil
}

// removeChecklist leaves done:{key} in place; a later define on the same key
// starts with those indices already checked.
func (c *Controller) removeChecklist(ctx context.Context, args commands.RemoveListArgs) (commands.Result, error) {
	if err := c.checklists.Delete(ctx, args.Key); err != nil {
		return commands.Result{}, err
	}
	c.logger.Info("checklist removed", "key", args.Key)
	return commands.Result{Message: fmt.Sprintf("✅ Checklist removed for %s", args.Key)}, nil
}

func (c *Controller) listChecklist(ctx context.Context, args commands.ListArgs) (commands.Result, error) {
	items, err := c.checklists.Get(ctx, args.Key)
	if err != nil {
		return commands.Result{}, err
	}
	if len(items) == 0 {
		return commands.Result{Message: msgNoChecklist}, nil
	}
	return commands.Result{Message: strings.Join(items, "\n")}, nil
}

// HandleToggle marks the item named by token done and edits ref to show the
// new state. A checklist that no longer exists renders as an empty payload.
func (c *Controller) HandleToggle(ctx context.Context, ref MessageRef, token string) error {
	toggle, err := model.ParseToggle(token)
	if err != nil {
		return err
	}
	added, err := c.completions.MarkDone(ctx, toggle.Key, toggle.Index)
	if err != nil {
		return err
	}
	payload, err := c.Current(ctx, toggle.Key)
	if err != nil {
		return err
	}
	c.logger.Debug("item toggled", "key", toggle.Key, "index", toggle.Index, "changed", added)
	if err := c.messenger.EditMessage(ctx, ref.ChatID, ref.MessageID, payload); err != nil {
		return fmt.Errorf("edit message %d: %w", ref.MessageID, err)
	}
	return nil
}

// Current renders the stored state of key.
func (c *Controller) Current(ctx context.Context, key string) (views.Payload, error) {
	items, err := c.checklists.Get(ctx, key)
	if err != nil {
		return views.Payload{}, err
	}
	done, err := c.completions.Get(ctx, key)
	if err != nil {
		return views.Payload{}, err
	}
	return views.Render(key, items, done), nil
}
