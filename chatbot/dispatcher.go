package chatbot

import (
	"context"
	"fmt"
	"strings"

	"pizzabot-api/models"

	"go.uber.org/zap"
)

// intent pairs a trigger predicate with its handler
type intent struct {
	name   string
	match  func(msg string) bool
	handle func(tc *turnContext, msg string)
}

// turnContext collects the bot replies for a single turn
type turnContext struct {
	ctx     context.Context
	s       *Session
	replies []models.Message
}

func (tc *turnContext) say(text string) {
	tc.replies = append(tc.replies, models.Message{Text: text})
}

func (tc *turnContext) sayf(format string, args ...any) {
	tc.say(fmt.Sprintf(format, args...))
}

// intents builds the trigger table. Predicates are plain substring
// checks and are not mutually exclusive, so the order of this list is
// a semantic tie-break: the first match wins and the order must not
// change.
func (b *Bot) intents() []intent {
	return []intent{
		{"greeting", matchAny("hi", "hello", "yo", "hey"), b.greet},
		{"show-menu", matchAny("show menu", "list items"), b.showMenuIntent},
		{"select-branch", func(m string) bool { return strings.HasPrefix(m, "select branch") }, b.selectBranch},
		{"category-filter", matchAny("vegetarian", "non-veg"), b.filterCategory},
		{"add-topping", matchAny("add topping", "extra"), b.addTopping},
		{"add-to-cart", matchAny("add to cart"), b.addToCart},
		{"view-cart", matchAny("show cart", "view cart"), b.viewCart},
		{"pay", matchAny("pay", "checkout"), b.pay},
		{"track-order", matchAny("track order", "status"), b.trackOrder},
		{"order-history", matchAny("order history", "past orders"), b.orderHistory},
		{"promo", matchAny("promo", "discount"), b.applyPromo},
		{"profile-update", matchAny("profile", "address"), b.updateProfile},
		{"feedback", matchAny("feedback", "rate"), b.feedback},
		{"support", matchAny("support", "help"), b.support},
		{"account", matchAny("settings", "password", "log out"), b.manageAccount},
	}
}

func matchAny(subs ...string) func(string) bool {
	return func(msg string) bool {
		for _, sub := range subs {
			if strings.Contains(msg, sub) {
				return true
			}
		}
		return false
	}
}

// dispatch routes one lower-cased utterance through the intent table.
// No keyword match falls through to the catalog item lookup. Store
// failures are converted to user-visible messages inside the handlers
// and never propagate past this point.
func (b *Bot) dispatch(s *Session, raw string) []models.Message {
	msg := strings.ToLower(strings.TrimSpace(raw))
	tc := &turnContext{ctx: s.ctx, s: s}
	b.log.Debug("processing user message", zap.String("message", msg))
	for _, in := range b.table {
		if in.match(msg) {
			b.log.Debug("matched intent", zap.String("intent", in.name))
			in.handle(tc, msg)
			return tc.replies
		}
	}
	b.lookupItem(tc, msg)
	return tc.replies
}
