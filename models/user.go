package models

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer    UserRole = "customer"
	RoleEmployee    UserRole = "employee"
	RoleDeliveryman UserRole = "deliveryman"
	RoleAdmin       UserRole = "admin"
)

// User is persisted under users/{userId}. The chatbot's profile-update
// intent writes the address and name fields; auth owns the rest.
type User struct {
	ID           string   `json:"userID,omitempty"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash,omitempty"`
	Role         UserRole `json:"role"`
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
}
