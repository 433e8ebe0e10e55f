package linebot

import (
	"reflect"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/topupbotapp/topupbot/internal/order"
	"github.com/topupbotapp/topupbot/internal/replies"
)

func testOrder() *order.Order {
	return &order.Order{
		Game:         "逆水寒",
		RawItemsText: "2500*10 170*5 240*1",
		Items: []order.Item{
			{Amount: 2500, Qty: 10, Sub: 25000},
			{Amount: 170, Qty: 5, Sub: 850},
			{Amount: 240, Qty: 1, Sub: 240},
		},
		Total: 26090,
	}
}

func TestItemsText(t *testing.T) {
	t.Parallel()

	got := ItemsText(testOrder().Items)
	want := "2500×10=25000、170×5=850、240×1=240"
	if got != want {
		t.Errorf("ItemsText() = %q, want %q", got, want)
	}
}

func TestPaymentCardIsDeterministic(t *testing.T) {
	t.Parallel()

	o := testOrder()
	first := PaymentCard(o, "逆水寒-20240305-1234", replies.Defaults())
	second := PaymentCard(o, "逆水寒-20240305-1234", replies.Defaults())

	if !reflect.DeepEqual(first, second) {
		t.Error("PaymentCard() is not deterministic for identical input")
	}
}

func TestPaymentCardContents(t *testing.T) {
	t.Parallel()

	orderID := "逆水寒-20240305-1234"
	msg := PaymentCard(testOrder(), orderID, replies.Defaults())

	if msg.AltText != "付款確認" {
		t.Errorf("AltText = %q, want %q", msg.AltText, "付款確認")
	}

	bubble, ok := msg.Contents.(*messaging_api.FlexBubble)
	if !ok {
		t.Fatalf("Contents is %T, want *FlexBubble", msg.Contents)
	}

	var texts []string
	var collect func(components []messaging_api.FlexComponentInterface)
	collect = func(components []messaging_api.FlexComponentInterface) {
		for _, c := range components {
			switch v := c.(type) {
			case *messaging_api.FlexText:
				texts = append(texts, v.Text)
			case *messaging_api.FlexBox:
				collect(v.Contents)
			}
		}
	}
	collect(bubble.Body.Contents)

	joined := strings.Join(texts, "\n")
	for _, want := range []string{
		"🧾 付款確認",
		"遊戲：逆水寒",
		"明細：2500×10=25000、170×5=850、240×1=240",
		"應付總額：26090",
		"訂單編號：" + orderID,
		"⚠️ 未收到款項前不會進行儲值",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("card body is missing %q\nbody:\n%s", want, joined)
		}
	}

	if bubble.Footer == nil || len(bubble.Footer.Contents) != 2 {
		t.Fatal("card footer should hold exactly two buttons")
	}

	wantData := []string{
		"action=paid&orderId=" + orderID,
		"action=last5&orderId=" + orderID,
	}
	for i, c := range bubble.Footer.Contents {
		button, ok := c.(*messaging_api.FlexButton)
		if !ok {
			t.Fatalf("footer component %d is %T, want *FlexButton", i, c)
		}
		action, ok := button.Action.(*messaging_api.PostbackAction)
		if !ok {
			t.Fatalf("button %d action is %T, want *PostbackAction", i, button.Action)
		}
		if action.Data != wantData[i] {
			t.Errorf("button %d data = %q, want %q", i, action.Data, wantData[i])
		}
	}
}

func TestPaymentCardTotalIsBold(t *testing.T) {
	t.Parallel()

	msg := PaymentCard(testOrder(), "逆水寒-20240305-1234", replies.Defaults())
	bubble := msg.Contents.(*messaging_api.FlexBubble)

	found := false
	var walk func(components []messaging_api.FlexComponentInterface)
	walk = func(components []messaging_api.FlexComponentInterface) {
		for _, c := range components {
			switch v := c.(type) {
			case *messaging_api.FlexText:
				if strings.HasPrefix(v.Text, "應付總額") {
					found = true
					if v.Weight != messaging_api.FlexTextWEIGHT_BOLD {
						t.Errorf("total line weight = %q, want bold", v.Weight)
					}
				}
			case *messaging_api.FlexBox:
				walk(v.Contents)
			}
		}
	}
	walk(bubble.Body.Contents)

	if !found {
		t.Error("card body has no total line")
	}
}
