package models

// CartItem is a single line in a cart. Identity for merging is ItemID;
// UnitPrice is a snapshot of the menu price at the time of adding.
type CartItem struct {
	ItemID    string  `json:"menuID"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageURL,omitempty"`
}

// Cart is one user's cart, persisted whole under carts/{cartId}.
// TotalItems and TotalPrice are derived from Items and must be
// recomputed after every mutation, never set independently.
type Cart struct {
	ID         string     `json:"cartID"`
	BranchCode string     `json:"branchID"`
	UserID     string     `json:"customerID"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// CartID derives the store key for a user's cart
func CartID(userID string) string {
	return "c_" + userID
}

// NewCart creates an empty cart scoped to a branch
func NewCart(userID, branchCode string) *Cart {
	return &Cart{
		ID:         CartID(userID),
		BranchCode: branchCode,
		UserID:     userID,
		Items:      []CartItem{},
	}
}

// AddItem merges a menu item into the cart: an existing line with the
// same ItemID gains quantity 1, otherwise a new line is appended.
// Totals are recomputed from the full item collection.
func (c *Cart) AddItem(item MenuItem) {
	for i := range c.Items {
		if c.Items[i].ItemID == item.ID {
			c.Items[i].Quantity++
			c.Recompute()
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		ImageURL:  item.ImageURL,
	})
	c.Recompute()
}

// Recompute rebuilds the derived totals from Items. Always a full
// sweep, never incremental, so the totals cannot drift.
func (c *Cart) Recompute() {
	totalItems := 0
	totalPrice := 0.0
	for _, item := range c.Items {
		totalItems += item.Quantity
		totalPrice += float64(item.Quantity) * item.UnitPrice
	}
	c.TotalItems = totalItems
	c.TotalPrice = totalPrice
}
