package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/topupbotapp/topupbot/internal/config"
	"github.com/topupbotapp/topupbot/internal/logging"
	"github.com/topupbotapp/topupbot/internal/observability"
)

const maxWebhookBodyBytes = 1 << 20 // 1 MB

// Dispatcher processes a decoded webhook batch.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []webhook.EventInterface)
}

// Handlers provides the HTTP surface of the bot: the webhook endpoint and
// the liveness endpoints the hosting platform polls.
type Handlers struct {
	config     *config.Config
	dispatcher Dispatcher
	metrics    *observability.Metrics
	logger     *slog.Logger
}

type Dependencies struct {
	Config     *config.Config
	Dispatcher Dispatcher
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("handlers dependencies: dispatcher is required")
	}
	if deps.Metrics == nil {
		return nil, fmt.Errorf("handlers dependencies: metrics are required")
	}

	return &Handlers{
		config:     deps.Config,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.With("component", "handlers"),
	}, nil
}

// Root answers the messaging provider's endpoint verification, which
// expects a plain success response.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Health is the hosting platform's liveness probe. It carries no order
// logic and must stay green even in degraded (credential-less) mode.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode health response", "error", err)
	}
}

// Metrics serves the prometheus endpoint.
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.Handler().ServeHTTP(w, r)
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
