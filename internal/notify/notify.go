package notify

// Package notify sends the shop admin a notification for each confirmed
// order. Orders are not persisted, so this email is the only durable record
// the admin gets.

import (
	"context"
	"fmt"
	"strings"

	resend "github.com/resend/resend-go/v3"

	"github.com/topupbotapp/topupbot/internal/order"
)

type Notifier interface {
	NotifyOrderCreated(ctx context.Context, o *order.Order, orderID string) error
}

// ResendNotifier emails order summaries via the Resend API.
type ResendNotifier struct {
	client *resend.Client
	from   string
	to     string
}

func NewResendNotifier(apiKey, from, to string) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n *ResendNotifier) NotifyOrderCreated(ctx context.Context, o *order.Order, orderID string) error {
	if o == nil {
		return fmt.Errorf("order is required")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "訂單編號：%s\n", orderID)
	fmt.Fprintf(&body, "遊戲：%s\n", o.Game)
	for _, item := range o.Items {
		fmt.Fprintf(&body, "%d×%d=%d\n", item.Amount, item.Qty, item.Sub)
	}
	fmt.Fprintf(&body, "應付總額：%d\n", o.Total)

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("新訂單 %s", orderID),
		Text:    body.String(),
	}
	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send order notification via resend: %w", err)
	}
	return nil
}

// NoopNotifier is used when notification email is not configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyOrderCreated(context.Context, *order.Order, string) error {
	return nil
}
