package linebot

// Package linebot renders and dispatches LINE messages for the top-up order
// flow.

import (
	"context"
	"errors"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// ReplySender delivers messages for a reply token. Delivery is at-most-once:
// callers log and drop failed replies, they never retry.
type ReplySender interface {
	Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error
}

// Gateway sends replies through the LINE Messaging API.
type Gateway struct {
	api *messaging_api.MessagingApiAPI
}

func NewGateway(channelAccessToken string) (*Gateway, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging API client: %w", err)
	}
	return &Gateway{api: api}, nil
}

func (g *Gateway) Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error {
	// The generated API client has no context-aware call; honor
	// cancellation before handing off.
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := g.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// DisabledGateway stands in when channel credentials are missing. Every
// reply fails, so degraded mode surfaces in logs instead of crashing the
// acknowledgment path.
type DisabledGateway struct{}

func (DisabledGateway) Reply(context.Context, string, []messaging_api.MessageInterface) error {
	return errors.New("messaging gateway disabled: LINE channel access token not configured")
}
