package analytics

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/decodedesk/decodedesk/internal/events"
)

// Phrases longer than this are not harvested as landing-page examples.
const maxExampleLen = 120

// Consumer listens on the translation event subject and folds events into
// the daily aggregates and the example-phrase pool.
type Consumer struct {
	repo        Repository
	consumerMgr *events.ConsumerManager
}

func NewConsumer(repo Repository, consumerMgr *events.ConsumerManager) *Consumer {
	return &Consumer{
		repo:        repo,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, events.StreamEvents, "analytics-aggregator", events.SubjectTranslation)
	if err != nil {
		return err
	}

	slog.Info("analytics consumer started", "consumer", "analytics-aggregator")

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(events.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("analytics consumer: fetching events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var event events.TranslationEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("analytics consumer: unmarshaling event", "error", err)
		_ = msg.Nak()
		return
	}

	if err := c.repo.BumpDailyStat(ctx, event.Timestamp, event.Mode, !event.Authenticated); err != nil {
		slog.Error("analytics consumer: bumping daily stat", "error", err, "mode", event.Mode)
		_ = msg.Nak()
		return
	}

	// Short successful phrases feed the example pool; harvest failures are
	// not worth a redelivery once the stat is already counted.
	if event.Original != "" && event.Translation != "" &&
		len(event.Original) <= maxExampleLen && len(event.Translation) <= maxExampleLen {
		if err := c.repo.UpsertExample(ctx, event.Mode, event.Original, event.Translation); err != nil {
			slog.Warn("analytics consumer: upserting example", "error", err)
		}
	}

	_ = msg.Ack()
}
