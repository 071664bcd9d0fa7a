package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/response"
)

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	DadSvc          DadService
	BookingSvc      BookingService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		DadSvc:          deps.DadSvc,
		BookingSvc:      deps.BookingSvc,
	}
}

// AdminRoutes must be mounted behind FirebaseAuth and RequireRole(admin).
func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/dads", h.ListDads)
	r.Patch("/dads/{uid}", h.SetDadStatus)
	r.Patch("/dads/{uid}/profile", h.UpdateDadProfile)
	r.Get("/bookings", h.ListBookings)
	r.Patch("/bookings/{id}", h.SetBookingStatus)
	return r
}

func (h *adminHandlers) ListDads(w http.ResponseWriter, r *http.Request) {
	dads, err := h.DadSvc.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dads)
}

func (h *adminHandlers) SetDadStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	dad, err := h.DadSvc.SetStatus(r.Context(), chi.URLParam(r, "uid"), req.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dad)
}

func (h *adminHandlers) UpdateDadProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDadProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	dad, err := h.DadSvc.UpdateProfile(r.Context(), chi.URLParam(r, "uid"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dad)
}

func (h *adminHandlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookings, err := h.BookingSvc.ListForAdmin(r.Context(), dto.BookingFilter{
		Status: q.Get("status"),
		Search: q.Get("q"),
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, bookings)
}

func (h *adminHandlers) SetBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	b, err := h.BookingSvc.AdminSetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, b)
}
