package order

// Package order parses free-form chat text describing a top-up purchase
// into a structured order.

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable is returned when the text does not describe a valid order.
var ErrUnparsable = errors.New("order text is unparsable")

// Item is a single amount×quantity entry within an order.
// Sub is always Amount*Qty.
type Item struct {
	Amount int
	Qty    int
	Sub    int
}

// Order is a parsed purchase request. Items preserves input order and is
// never empty; Total is the sum of all item subtotals.
type Order struct {
	Game         string
	RawItemsText string
	Items        []Item
	Total        int
}

// Whitespace classes include \p{Z} so that full-width spaces (U+3000),
// common in Chinese IME input, separate tokens the same way ASCII spaces do.
var (
	pairPattern       = regexp.MustCompile(`\d+[\s\p{Z}]*[*xX][\s\p{Z}]*\d+`)
	strictPairPattern = regexp.MustCompile(`^(\d+)[*xX](\d+)$`)
	newlineRuns       = regexp.MustCompile(`\n+`)
	whitespace        = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Parse converts raw user text into an Order.
//
// Two input forms are accepted: a single line starting with the game name
// followed by amount×quantity pairs ("逆水寒 2500*10 170*5"), or the game
// name on its own line followed by pairs on subsequent lines. Multiplier
// symbols are *, x, or X.
func Parse(text string) (*Order, error) {
	trimmed := strings.TrimSpace(text)

	var game, rawItems string

	lines := make([]string, 0, 4)
	for _, line := range newlineRuns.Split(trimmed, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) >= 2 {
		game = lines[0]
		rawItems = strings.Join(lines[1:], " ")
	} else {
		parts := whitespace.Split(trimmed, -1)
		game = parts[0]
		rawItems = strings.Join(parts[1:], " ")
	}

	pairs := pairPattern.FindAllString(rawItems, -1)
	if game == "" || len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no game name or no amount*qty pairs", ErrUnparsable)
	}

	items := make([]Item, 0, len(pairs))
	total := 0
	for _, pair := range pairs {
		m := strictPairPattern.FindStringSubmatch(whitespace.ReplaceAllString(pair, ""))
		if m == nil {
			continue
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		sub := amount * qty
		total += sub
		items = append(items, Item{Amount: amount, Qty: qty, Sub: sub})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no valid amount*qty pairs", ErrUnparsable)
	}

	return &Order{
		Game:         game,
		RawItemsText: rawItems,
		Items:        items,
		Total:        total,
	}, nil
}
