package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/topupbotapp/topupbot/internal/logging"
)

// dispatchTimeout bounds background processing of one webhook batch.
const dispatchTimeout = 30 * time.Second

// Webhook receives LINE callback batches. The provider retries webhooks
// that respond slowly, so the batch is acknowledged with 200 as soon as the
// signature checks out; event handling runs on a detached goroutine and its
// failures never reach the acknowledgment path.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	if h.config.LineChannelSecret == "" {
		// Degraded mode: acknowledge so the provider keeps the webhook
		// enabled, but nothing can be verified or processed.
		logger.Error("webhook received but LINE_CHANNEL_SECRET is not configured")
		w.WriteHeader(http.StatusOK)
		return
	}

	callback, err := webhook.ParseRequest(h.config.LineChannelSecret, r)
	if err != nil {
		logger.Error("failed to read webhook payload", "error", err)
		http.Error(w, "Invalid webhook", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.metrics.BatchAccepted()

	events := callback.Events
	if len(events) == 0 {
		return
	}
	logger.Info("webhook batch accepted", "events", len(events))

	// The request context dies once the handler returns; detach from it
	// but keep the request-scoped logger.
	dispatchCtx := logging.WithLogger(context.WithoutCancel(ctx), logger)
	go func() {
		dispatchCtx, cancel := context.WithTimeout(dispatchCtx, dispatchTimeout)
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic while dispatching webhook events", "panic", rec)
			}
		}()
		h.dispatcher.Dispatch(dispatchCtx, events)
	}()
}
