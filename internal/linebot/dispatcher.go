package linebot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/topupbotapp/topupbot/internal/cache"
	"github.com/topupbotapp/topupbot/internal/logging"
	"github.com/topupbotapp/topupbot/internal/notify"
	"github.com/topupbotapp/topupbot/internal/observability"
	"github.com/topupbotapp/topupbot/internal/order"
	"github.com/topupbotapp/topupbot/internal/replies"
)

// eventIdempotencyTTL is how long processed webhook event IDs are kept for
// deduplication (LINE may redeliver events).
const eventIdempotencyTTL = 24 * time.Hour

// Dispatcher handles decoded webhook events one at a time, in delivery
// order. It is stateless across events: each event is handled from its own
// payload only, with no per-user session memory.
type Dispatcher struct {
	ids           *order.Generator
	sender        ReplySender
	cacheProvider cache.Provider
	notifier      notify.Notifier
	copy          replies.Copy
	metrics       *observability.Metrics
	logger        *slog.Logger
}

type DispatcherDeps struct {
	Generator     *order.Generator
	Sender        ReplySender
	CacheProvider cache.Provider
	Notifier      notify.Notifier
	Copy          replies.Copy
	Metrics       *observability.Metrics
	Logger        *slog.Logger
}

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	ids := deps.Generator
	if ids == nil {
		ids = order.NewGenerator()
	}

	return &Dispatcher{
		ids:           ids,
		sender:        deps.Sender,
		cacheProvider: deps.CacheProvider,
		notifier:      notifier,
		copy:          deps.Copy,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}
}

// Dispatch processes a webhook batch sequentially. A failure in one event
// never aborts the remaining events.
func (d *Dispatcher) Dispatch(ctx context.Context, events []webhook.EventInterface) {
	for _, event := range events {
		d.dispatchOne(ctx, event)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, event webhook.EventInterface) {
	logger := logging.FromContext(ctx, d.logger)
	eventType := event.GetType()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling event", "type", eventType, "panic", r)
			d.metrics.EventResult(eventType, observability.ResultFailed)
		}
	}()

	switch e := event.(type) {
	case webhook.MessageEvent:
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			d.metrics.EventResult(eventType, observability.ResultIgnored)
			return
		}
		if d.alreadyHandled(ctx, e.WebhookEventId) {
			logger.Info("skipping already-processed event", "event_id", e.WebhookEventId)
			d.metrics.EventResult(eventType, observability.ResultDuplicate)
			return
		}
		d.handleText(ctx, e.ReplyToken, text.Text)
		d.markHandled(ctx, e.WebhookEventId)
		d.metrics.EventResult(eventType, observability.ResultProcessed)

	case webhook.PostbackEvent:
		if e.Postback == nil {
			d.metrics.EventResult(eventType, observability.ResultIgnored)
			return
		}
		if d.alreadyHandled(ctx, e.WebhookEventId) {
			logger.Info("skipping already-processed event", "event_id", e.WebhookEventId)
			d.metrics.EventResult(eventType, observability.ResultDuplicate)
			return
		}
		handled := d.handlePostback(ctx, e.ReplyToken, e.Postback.Data)
		d.markHandled(ctx, e.WebhookEventId)
		if handled {
			d.metrics.EventResult(eventType, observability.ResultProcessed)
		} else {
			d.metrics.EventResult(eventType, observability.ResultIgnored)
		}

	default:
		d.metrics.EventResult(eventType, observability.ResultIgnored)
	}
}

func (d *Dispatcher) handleText(ctx context.Context, replyToken, text string) {
	logger := logging.FromContext(ctx, d.logger)

	o, err := order.Parse(text)
	if err != nil {
		d.reply(ctx, replyToken, &messaging_api.TextMessage{Text: d.copy.Usage})
		return
	}

	orderID := d.ids.Generate(o.Game)
	logger.Info("order parsed", "game", o.Game, "items", len(o.Items), "total", o.Total, "order_id", orderID)

	if err := d.reply(ctx, replyToken, PaymentCard(o, orderID, d.copy)); err != nil {
		return
	}

	if err := d.notifier.NotifyOrderCreated(ctx, o, orderID); err != nil {
		logger.Warn("failed to send order notification", "order_id", orderID, "error", err)
	}
}

// handlePostback matches the round-tripped action data by substring
// containment and reports whether a reply was sent.
func (d *Dispatcher) handlePostback(ctx context.Context, replyToken, data string) bool {
	switch {
	case strings.Contains(data, ActionPaid):
		d.reply(ctx, replyToken, &messaging_api.TextMessage{Text: d.copy.PaidPrompt})
		return true
	case strings.Contains(data, ActionLast5):
		d.reply(ctx, replyToken, &messaging_api.TextMessage{Text: d.copy.Last5Prompt})
		return true
	default:
		return false
	}
}

func (d *Dispatcher) reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error {
	if err := d.sender.Reply(ctx, replyToken, messages); err != nil {
		logging.FromContext(ctx, d.logger).Error("failed to send reply", "error", err)
		d.metrics.ReplyResult(observability.ResultFailed)
		return err
	}
	d.metrics.ReplyResult(observability.ResultOK)
	return nil
}

func (d *Dispatcher) alreadyHandled(ctx context.Context, eventID string) bool {
	if eventID == "" || d.cacheProvider == nil {
		return false
	}
	_, err := d.cacheProvider.Get(ctx, cache.EventKey("line", eventID))
	return err == nil
}

func (d *Dispatcher) markHandled(ctx context.Context, eventID string) {
	if eventID == "" || d.cacheProvider == nil {
		return
	}
	if err := d.cacheProvider.Set(ctx, cache.EventKey("line", eventID), "processed", eventIdempotencyTTL); err != nil {
		logging.FromContext(ctx, d.logger).Error("failed to mark event as processed in cache", "error", err)
	}
}
