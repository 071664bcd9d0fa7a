package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/middleware"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/internal/response"
	"github.com/GregMSThompson/dadhelper-backend/internal/services"
)

type DadService interface {
	ListApproved(ctx context.Context) ([]*models.Dad, error)
	GetPublic(ctx context.Context, uid string) (*models.Dad, error)
	GetOwn(ctx context.Context, uid string) (*models.Dad, error)
	UpdateProfile(ctx context.Context, uid string, req dto.UpdateDadProfileRequest) (*models.Dad, error)
	UploadPhoto(ctx context.Context, uid string, upload dto.PhotoUpload, body io.Reader) (*models.Dad, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Dad, error)
	SetStatus(ctx context.Context, uid, status string) (*models.Dad, error)
}

type dadHandlers struct {
	ResponseHandler response.ResponseHandler
	DadSvc          DadService
	BookingSvc      BookingService
}

func NewDadHandlers(deps *Deps) *dadHandlers {
	return &dadHandlers{
		ResponseHandler: deps.ResponseHandler,
		DadSvc:          deps.DadSvc,
		BookingSvc:      deps.BookingSvc,
	}
}

// DadRoutes mixes public browse routes with authenticated ones, so the caller
// passes in the auth and dad-role middleware.
func (h *dadHandlers) DadRoutes(authn, dadOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDads)
	r.Get("/{uid}", h.GetDad)
	r.With(authn).Post("/{uid}/bookings", h.CreateBooking)

	r.Route("/me", func(r chi.Router) {
		r.Use(authn, dadOnly)
		r.Get("/", h.GetMe)
		r.Patch("/", h.UpdateMe)
		r.Put("/photo", h.UploadPhoto)
		r.Get("/bookings", h.ListMyBookings)
		r.Patch("/bookings/{id}", h.SetMyBookingStatus)
	})
	return r
}

func (h *dadHandlers) ListDads(w http.ResponseWriter, r *http.Request) {
	dads, err := h.DadSvc.ListApproved(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dads)
}

func (h *dadHandlers) GetDad(w http.ResponseWriter, r *http.Request) {
	dad, err := h.DadSvc.GetPublic(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dad)
}

func (h *dadHandlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	ctx := r.Context()
	b, err := h.BookingSvc.Submit(ctx, chi.URLParam(r, "uid"), middleware.UID(ctx), middleware.Email(ctx), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, b)
}

func (h *dadHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	dad, err := h.DadSvc.GetOwn(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dad)
}

func (h *dadHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDadProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	dad, err := h.DadSvc.UpdateProfile(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dad)
}

// UploadPhoto accepts a multipart form with a single "photo" file. The content
// type is sniffed from the bytes rather than trusted from the client.
func (h *dadHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxPhotoBytes+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("photo is too large"))
			return
		}
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("expected multipart form with a photo field"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("photo field is required"))
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("could not read photo"))
		return
	}
	head = head[:n]

	upload := dto.PhotoUpload{
		ContentType: http.DetectContentType(head),
		Size:        header.Size,
	}
	body := io.MultiReader(bytes.NewReader(head), file)

	dad, err := h.DadSvc.UploadPhoto(r.Context(), middleware.UID(r.Context()), upload, body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dad)
}

func (h *dadHandlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.BookingSvc.ListForDad(r.Context(), middleware.UID(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, bookings)
}

func (h *dadHandlers) SetMyBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	b, err := h.BookingSvc.DadSetStatus(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, b)
}
