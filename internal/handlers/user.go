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

type UserService interface {
	Register(ctx context.Context, uid, email string, req dto.RegisterRequest) (*models.User, error)
	EnsureUser(ctx context.Context, uid, email string) (dto.EnsureUserResponse, error)
	ResolveSession(ctx context.Context, uid string) (dto.SessionResponse, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

// UserRoutes expects FirebaseAuth to run first.
func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Register)
	r.Post("/session", h.EnsureSession)
	r.Get("/me", h.Me)
	return r
}

func (h *userHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	email := middleware.Email(r.Context())

	user, err := h.UserSvc.Register(r.Context(), uid, email, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, user)
}

// EnsureSession is called after every sign-in.
func (h *userHandlers) EnsureSession(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	email := middleware.Email(r.Context())

	resp, err := h.UserSvc.EnsureUser(r.Context(), uid, email)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	h.ResponseHandler.WriteSuccess(w, r, status, resp)
}

func (h *userHandlers) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.UserSvc.ResolveSession(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
