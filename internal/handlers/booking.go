package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/middleware"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/internal/response"
)

type BookingService interface {
	Submit(ctx context.Context, dadUID, parentUID, parentEmail string, req dto.CreateBookingRequest) (*models.Booking, error)
	ListForParent(ctx context.Context, parentUID string) ([]*models.Booking, error)
	ListForDad(ctx context.Context, dadUID, status string) ([]*models.Booking, error)
	DadSetStatus(ctx context.Context, dadUID, bookingID, status string) (*models.Booking, error)
	ListForAdmin(ctx context.Context, filter dto.BookingFilter) ([]*models.Booking, error)
	AdminSetStatus(ctx context.Context, bookingID, status string) (*models.Booking, error)
}

type bookingHandlers struct {
	ResponseHandler response.ResponseHandler
	BookingSvc      BookingService
}

func NewBookingHandlers(deps *Deps) *bookingHandlers {
	return &bookingHandlers{
		ResponseHandler: deps.ResponseHandler,
		BookingSvc:      deps.BookingSvc,
	}
}

func (h *bookingHandlers) BookingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.ListMine)
	return r
}

// ListMine is the parent dashboard.
func (h *bookingHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.BookingSvc.ListForParent(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, bookings)
}
