package models

// Message is one entry in a conversation transcript. The transcript is
// append-only; ordering is insertion order.
type Message struct {
	Text     string `json:"text"`
	FromUser bool   `json:"isFromUser"`
}
