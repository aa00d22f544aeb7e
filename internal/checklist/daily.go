package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/checkd/internal/views"
)

// Daily sends the day's checklist as a new message.
type Daily struct {
	resolver  *Resolver
	messenger Messenger
	chatID    int64
	zone      *time.Location
	logger    *slog.Logger
}

func NewDaily(resolver *Resolver, messenger Messenger, chatID int64, zone *time.Location, logger *slog.Logger) *Daily {
	if zone == nil {
		zone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Daily{resolver: resolver, messenger: messenger, chatID: chatID, zone: zone, logger: logger}
}

// Fire resolves today's checklist, as seen from the configured zone, and
// sends it with every item unchecked. Completion state is neither read nor
// reset, so re-firing on the same day shows a clean list.
func (d *Daily) Fire(ctx context.Context, now time.Time) error {
	today := now.In(d.zone)
	items, key, err := d.resolver.Resolve(ctx, today)
	if err != nil {
		return err
	}
	if err := d.messenger.SendControls(ctx, d.chatID, views.Fresh(key, items)); err != nil {
		return fmt.Errorf("send daily checklist %s: %w", key, err)
	}
	d.logger.Info("daily checklist sent", "key", key, "items", len(items), "chat_id", d.chatID)
	return nil
}
