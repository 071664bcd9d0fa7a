package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	gcsclient "github.com/GregMSThompson/dadhelper-backend/internal/client/gcs"
	"github.com/GregMSThompson/dadhelper-backend/internal/bootstrap"
	"github.com/GregMSThompson/dadhelper-backend/internal/config"
	"github.com/GregMSThompson/dadhelper-backend/internal/handlers"
	"github.com/GregMSThompson/dadhelper-backend/internal/metrics"
	"github.com/GregMSThompson/dadhelper-backend/internal/middleware"
	"github.com/GregMSThompson/dadhelper-backend/internal/response"
	"github.com/GregMSThompson/dadhelper-backend/internal/router"
	"github.com/GregMSThompson/dadhelper-backend/internal/server"
	"github.com/GregMSThompson/dadhelper-backend/internal/services"
	"github.com/GregMSThompson/dadhelper-backend/internal/store"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// config
	cfg, err := config.New()
	exitOnError("invalid configuration", err, logger.New("error", "api", logger.NewCloudRunHandler))

	// bootstrap
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	m := metrics.New()

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	dstore := store.NewDadStore(bs.Firestore)
	bstore := store.NewBookingStore(bs.Firestore)

	// clients
	photos := gcsclient.NewAdapter(bs.Storage, cfg.PhotoBucket)

	// services
	userv := services.NewUserService(ustore, dstore, bs.Firebase)
	dserv := services.NewDadService(dstore, photos, m)
	bserv := services.NewBookingService(bstore, dstore, m)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.UserSvc = userv
	deps.DadSvc = dserv
	deps.BookingSvc = bserv
	deps.Service = "api"
	deps.Version = cfg.AppVersion

	// router
	mw := middleware.NewMiddleware(bs.Firebase, userv, rh)
	r := router.NewRouter(deps, router.Options{Auth: mw, Metrics: m})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = server.Run(ctx, server.New(cfg.Port, r), bs.Log)
	exitOnError("server failed", err, bs.Log)
}
