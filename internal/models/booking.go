package models

import (
	"time"
)

type Booking struct {
	BookingID       string    `firestore:"id" json:"id"`
	DadUID          string    `firestore:"dadUid" json:"dadUid"`
	DadEmail        string    `firestore:"dadEmail" json:"dadEmail"`
	ParentUID       string    `firestore:"parentUid" json:"parentUid"`
	ParentEmail     string    `firestore:"parentEmail" json:"parentEmail"`
	Date            string    `firestore:"date" json:"date"` // YYYY-MM-DD
	Message         string    `firestore:"message" json:"message"`
	Status          string    `firestore:"status" json:"status"`
	NotifyAttempted bool      `firestore:"notifyAttempted" json:"-"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}
