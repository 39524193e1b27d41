package models

// PaymentMethod is how the customer chose to pay at checkout
type PaymentMethod string

const (
	PaymentCardOnline     PaymentMethod = "Card Online"
	PaymentCardOnDelivery PaymentMethod = "Card on Delivery"
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
)

// OrderStatus represents all possible states of an order's lifecycle
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusConfirmed      OrderStatus = "Confirmed"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// Order is persisted under orders/{userId}/{pushId}. The chatbot only
// creates orders (status Pending); later transitions belong to the
// employee and deliveryman flows.
type Order struct {
	ID       string        `json:"orderID,omitempty"`
	UserID   string        `json:"customerID,omitempty"`
	ItemName string        `json:"name"`
	Payment  PaymentMethod `json:"payment"`
	Status   OrderStatus   `json:"status"`
}
