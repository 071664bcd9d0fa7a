package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/dadhelper-backend/internal/handlers"
	"github.com/GregMSThompson/dadhelper-backend/internal/middleware"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
)

// Options carries the cross-cutting middleware the API router is built with.
type Options struct {
	Auth    *middleware.Middleware
	Metrics interface {
		Middleware(http.Handler) http.Handler
		Handler() http.Handler
	}
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(chimiddleware.Timeout(60 * time.Second))

	hh := handlers.NewHealthHandlers(deps)
	ush := handlers.NewUserHandlers(deps)
	dah := handlers.NewDadHandlers(deps)
	bkh := handlers.NewBookingHandlers(deps)
	adh := handlers.NewAdminHandlers(deps)

	authn := opts.Auth.FirebaseAuth

	r.Get("/healthz", hh.Health)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Mount("/dads", dah.DadRoutes(authn, opts.Auth.RequireRole(models.RoleDad)))

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Mount("/users", ush.UserRoutes())
		r.Mount("/bookings", bkh.BookingRoutes())
		r.With(opts.Auth.RequireRole(models.RoleAdmin)).Mount("/admin", adh.AdminRoutes())
	})

	return r
}
