package models

// Role of an operator.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
)

// User is an office operator. There are no credentials; the active user
// is fixed at startup.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	LastSeen string   `json:"last_seen,omitempty"`
}
