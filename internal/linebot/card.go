package linebot

import (
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/topupbotapp/topupbot/internal/order"
	"github.com/topupbotapp/topupbot/internal/replies"
)

// Postback action markers. Buttons carry these in their data payload;
// dispatch matches by substring containment because the platform may append
// its own fields to the round-tripped data.
const (
	ActionPaid  = "action=paid"
	ActionLast5 = "action=last5"
)

func postbackData(action, orderID string) string {
	return fmt.Sprintf("%s&orderId=%s", action, orderID)
}

// ItemsText renders order items as "amount×qty=sub" entries joined by 、.
func ItemsText(items []order.Item) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%d×%d=%d", item.Amount, item.Qty, item.Sub))
	}
	return strings.Join(parts, "、")
}

// PaymentCard builds the payment-confirmation Flex message for an order.
// Rendering is pure: the same order and order number always produce a
// structurally identical message.
func PaymentCard(o *order.Order, orderID string, c replies.Copy) *messaging_api.FlexMessage {
	return &messaging_api.FlexMessage{
		AltText: c.CardAltText,
		Contents: &messaging_api.FlexBubble{
			Size: messaging_api.FlexBubbleSIZE_MEGA,
			Body: &messaging_api.FlexBox{
				Layout:  messaging_api.FlexBoxLAYOUT_VERTICAL,
				Spacing: "md",
				Contents: []messaging_api.FlexComponentInterface{
					&messaging_api.FlexText{
						Text:   c.CardTitle,
						Weight: messaging_api.FlexTextWEIGHT_BOLD,
						Size:   "xl",
					},
					&messaging_api.FlexText{
						Text: c.CardCaution,
						Size: "sm",
						Wrap: true,
					},
					&messaging_api.FlexSeparator{Margin: "md"},
					&messaging_api.FlexBox{
						Layout:  messaging_api.FlexBoxLAYOUT_VERTICAL,
						Spacing: "sm",
						Margin:  "md",
						Contents: []messaging_api.FlexComponentInterface{
							&messaging_api.FlexText{Text: "遊戲：" + o.Game, Wrap: true},
							&messaging_api.FlexText{Text: "明細：" + ItemsText(o.Items), Wrap: true},
							&messaging_api.FlexText{
								Text:   fmt.Sprintf("應付總額：%d", o.Total),
								Weight: messaging_api.FlexTextWEIGHT_BOLD,
								Size:   "lg",
								Wrap:   true,
							},
							&messaging_api.FlexText{
								Text:  "訂單編號：" + orderID,
								Size:  "sm",
								Wrap:  true,
								Color: "#666666",
							},
						},
					},
					&messaging_api.FlexText{
						Text:   c.CardDisclaimer,
						Size:   "xs",
						Wrap:   true,
						Color:  "#888888",
						Margin: "md",
					},
				},
			},
			Footer: &messaging_api.FlexBox{
				Layout:  messaging_api.FlexBoxLAYOUT_VERTICAL,
				Spacing: "sm",
				Contents: []messaging_api.FlexComponentInterface{
					&messaging_api.FlexButton{
						Style: messaging_api.FlexButtonSTYLE_PRIMARY,
						Action: &messaging_api.PostbackAction{
							Label: c.PaidLabel,
							Data:  postbackData(ActionPaid, orderID),
						},
					},
					&messaging_api.FlexButton{
						Style: messaging_api.FlexButtonSTYLE_SECONDARY,
						Action: &messaging_api.PostbackAction{
							Label: c.Last5Label,
							Data:  postbackData(ActionLast5, orderID),
						},
					},
				},
			},
		},
	}
}
