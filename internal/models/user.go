package models

import (
	"time"
)

const (
	RoleParent = "parent"
	RoleDad    = "dad"
	RoleAdmin  = "admin"
)

type User struct {
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	Role      string    `firestore:"role" json:"role"` // "parent", "dad" or "admin"
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// KnownRole reports whether role is one the marketplace routes on.
func KnownRole(role string) bool {
	switch role {
	case RoleParent, RoleDad, RoleAdmin:
		return true
	}
	return false
}
