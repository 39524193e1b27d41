package models

// Category classifies a menu item for category filtering
type Category string

const (
	CategoryVegetarian    Category = "Vegetarian"
	CategoryNonVegetarian Category = "Non-Vegetarian"
)

// MenuItem is one catalog entry, persisted under menu/{itemId}.
// Price may arrive as an integer or a float from the store; the
// snapshot decoder normalizes both to float64.
type MenuItem struct {
	ID          string   `json:"menuID"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Branches    []string `json:"branches"`
	ImageURL    string   `json:"imageURL,omitempty"`
}

// SoldAt reports whether the item is available at the given branch
func (m MenuItem) SoldAt(branchCode string) bool {
	for _, b := range m.Branches {
		if b == branchCode {
			return true
		}
	}
	return false
}

// Branch is a physical outlet, persisted under branches/{code}
type Branch struct {
	Code      string  `json:"branchID"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
