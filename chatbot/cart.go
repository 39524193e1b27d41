package chatbot

import (
	"context"
	"fmt"
	"strings"

	"pizzabot-api/models"
	"pizzabot-api/store"

	"go.uber.org/zap"
)

// CartEngine owns cart mutation: merge by item identity, quantity
// accumulation and total recomputation, as a read-modify-write against
// the cart's single store path.
type CartEngine struct {
	store store.Store
	log   *zap.Logger
}

func NewCartEngine(st store.Store, log *zap.Logger) *CartEngine {
	return &CartEngine{store: st, log: log}
}

// AddToCart loads the user's cart (or starts an empty one scoped to
// branchCode), merges the item, and writes the whole cart back. The
// store is last-writer-wins with no locking, so adds for one user must
// be serialized by the caller; the session worker guarantees that for
// the single-active-session case.
func (e *CartEngine) AddToCart(ctx context.Context, userID, branchCode string, item models.MenuItem) (*models.Cart, error) {
	path := "carts/" + models.CartID(userID)
	snap, err := e.store.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	cart := models.NewCart(userID, branchCode)
	if snap.Exists() {
		if err := snap.Decode(cart); err != nil {
			return nil, fmt.Errorf("loading cart: %w", err)
		}
	}
	cart.AddItem(item)
	if err := e.store.Set(ctx, path, cart); err != nil {
		return nil, fmt.Errorf("saving cart: %w", err)
	}
	e.log.Debug("cart saved", zap.String("path", path), zap.Int("lines", len(cart.Items)))
	return cart, nil
}

// ViewCart renders a read-only summary of the user's cart
func (e *CartEngine) ViewCart(ctx context.Context, userID string) (string, error) {
	snap, err := e.store.Get(ctx, "carts/"+models.CartID(userID))
	if err != nil {
		return "", err
	}
	var cart models.Cart
	if snap.Exists() {
		if err := snap.Decode(&cart); err != nil {
			return "", err
		}
	}
	if len(cart.Items) == 0 {
		return "Your cart is empty.", nil
	}
	var sb strings.Builder
	sb.WriteString("Your Cart:\n")
	for _, item := range cart.Items {
		fmt.Fprintf(&sb, "%s - LKR %.2f x %d\n", item.Name, item.UnitPrice, item.Quantity)
	}
	fmt.Fprintf(&sb, "Total: LKR %.2f", cart.TotalPrice)
	return sb.String(), nil
}
