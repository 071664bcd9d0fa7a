package models

import (
	"time"
)

// Dad is the provider profile stored under dads/{uid}, keyed by the owning user's uid.
type Dad struct {
	UID         string    `firestore:"uid" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	Bio         string    `firestore:"bio" json:"bio"`
	PhotoURL    string    `firestore:"photoURL" json:"photoURL,omitempty"`
	PhotoPath   string    `firestore:"photoPath" json:"-"`
	Status      string    `firestore:"status" json:"status"` // "pending", "approved" or "rejected"
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}
