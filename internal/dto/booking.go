package dto

type CreateBookingRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Message string `json:"message" validate:"required,max=4000"`
}

// BookingFilter narrows an in-memory booking list. Empty fields match everything.
type BookingFilter struct {
	Status string
	Search string
}
