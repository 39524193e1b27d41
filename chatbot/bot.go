// Package chatbot is the command interpreter behind the ordering chat
// surface: it maps free-text utterances onto a fixed intent set,
// threads per-session state through the handlers, and talks to the
// remote store for catalog, cart, order and profile data.
package chatbot

import (
	"time"

	"pizzabot-api/store"

	"go.uber.org/zap"
)

// Bot holds the shared, session-independent pieces: the store client,
// the resolver, the cart engine and the ordered intent table.
type Bot struct {
	store    store.Store
	log      *zap.Logger
	resolver *Resolver
	cart     *CartEngine
	table    []intent
}

type Option func(*Bot)

// WithMenuFetchTimeout overrides the deadline applied to catalog
// reads. Production keeps the default; tests shrink it.
func WithMenuFetchTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.resolver.menuTimeout = d
	}
}

func New(st store.Store, log *zap.Logger, opts ...Option) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bot{
		store:    st,
		log:      log,
		resolver: NewResolver(st, log),
		cart:     NewCartEngine(st, log),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.table = b.intents()
	return b
}
