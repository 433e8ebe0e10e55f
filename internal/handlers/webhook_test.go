package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/topupbotapp/topupbot/internal/config"
	"github.com/topupbotapp/topupbot/internal/observability"
)

const testChannelSecret = "test-channel-secret"

type stubDispatcher struct {
	batches chan []webhook.EventInterface
}

func newStubDispatcher() *stubDispatcher {
	return &stubDispatcher{batches: make(chan []webhook.EventInterface, 1)}
}

func (s *stubDispatcher) Dispatch(_ context.Context, events []webhook.EventInterface) {
	s.batches <- events
}

func newTestHandlers(t *testing.T, cfg *config.Config, dispatcher Dispatcher) *Handlers {
	t.Helper()
	h, err := New(Dependencies{
		Config:     cfg,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return h
}

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

const callbackBody = `{
	"destination": "U00000000000000000000000000000000",
	"events": [{
		"type": "message",
		"mode": "active",
		"timestamp": 1700000000000,
		"webhookEventId": "evt-1",
		"deliveryContext": {"isRedelivery": false},
		"replyToken": "reply-token-1",
		"source": {"type": "user", "userId": "U1"},
		"message": {"type": "text", "id": "m1", "text": "逆水寒 2500*10", "quoteToken": "q1"}
	}]
}`

func TestWebhookAcknowledgesThenDispatches(t *testing.T) {
	t.Parallel()

	dispatcher := newStubDispatcher()
	h := newTestHandlers(t, &config.Config{LineChannelSecret: testChannelSecret}, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(callbackBody))
	req.Header.Set("x-line-signature", signBody(testChannelSecret, callbackBody))
	rr := httptest.NewRecorder()

	h.Webhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	select {
	case events := <-dispatcher.batches:
		if len(events) != 1 {
			t.Fatalf("dispatched %d events, want 1", len(events))
		}
		msg, ok := events[0].(webhook.MessageEvent)
		if !ok {
			t.Fatalf("event is %T, want MessageEvent", events[0])
		}
		if msg.ReplyToken != "reply-token-1" {
			t.Errorf("reply token = %q, want reply-token-1", msg.ReplyToken)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("batch was never dispatched")
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Parallel()

	dispatcher := newStubDispatcher()
	h := newTestHandlers(t, &config.Config{LineChannelSecret: testChannelSecret}, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(callbackBody))
	req.Header.Set("x-line-signature", signBody("wrong-secret", callbackBody))
	rr := httptest.NewRecorder()

	h.Webhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	select {
	case <-dispatcher.batches:
		t.Fatal("events from an unverified request must not be dispatched")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookDegradedModeStillAcknowledges(t *testing.T) {
	t.Parallel()

	dispatcher := newStubDispatcher()
	h := newTestHandlers(t, &config.Config{}, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(callbackBody))
	rr := httptest.NewRecorder()

	h.Webhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d in degraded mode", rr.Code, http.StatusOK)
	}
	select {
	case <-dispatcher.batches:
		t.Fatal("no events should be dispatched without a channel secret")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookEmptyBatch(t *testing.T) {
	t.Parallel()

	body := `{"destination": "U00000000000000000000000000000000", "events": []}`
	dispatcher := newStubDispatcher()
	h := newTestHandlers(t, &config.Config{LineChannelSecret: testChannelSecret}, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("x-line-signature", signBody(testChannelSecret, body))
	rr := httptest.NewRecorder()

	h.Webhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	select {
	case <-dispatcher.batches:
		t.Fatal("an empty batch should not be dispatched")
	case <-time.After(100 * time.Millisecond):
	}
}
