package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the application record for an identity-provider account.
// Permissions is stored for the back office but never consulted: every
// admin is fully privileged.
type User struct {
	ID          string    `json:"id" bson:"id"`
	ExternalID  string    `json:"externalId" bson:"externalId"`
	Email       string    `json:"email" bson:"email,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role        Role      `json:"role" bson:"role"`
	Permissions []string  `json:"permissions" bson:"permissions"`
	LastLogin   time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
