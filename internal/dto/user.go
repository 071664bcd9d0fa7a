package dto

import "github.com/GregMSThompson/dadhelper-backend/internal/models"

// Destinations returned by session resolution; they mirror the web app's routes.
const (
	DestinationLogin        = "/login"
	DestinationProfile      = "/profile"
	DestinationParentHome   = "/profile/parent"
	DestinationDadDashboard = "/profile/dad"
	DestinationAdmin        = "/admin"
)

type RegisterRequest struct {
	Role string `json:"role" validate:"required,oneof=parent dad"`
}

// SessionResponse tells the client where a signed-in identity belongs.
// Pending is set for dads whose profile has not been approved yet.
type SessionResponse struct {
	User        *models.User `json:"user,omitempty"`
	Role        string       `json:"role,omitempty"`
	Destination string       `json:"destination"`
	Pending     bool         `json:"pending"`
}

type EnsureUserResponse struct {
	User    *models.User `json:"user"`
	Created bool         `json:"created"`
}
