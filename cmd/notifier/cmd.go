package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	sendgridclient "github.com/GregMSThompson/dadhelper-backend/internal/client/sendgrid"
	"github.com/GregMSThompson/dadhelper-backend/internal/bootstrap"
	"github.com/GregMSThompson/dadhelper-backend/internal/config"
	"github.com/GregMSThompson/dadhelper-backend/internal/handlers"
	"github.com/GregMSThompson/dadhelper-backend/internal/metrics"
	"github.com/GregMSThompson/dadhelper-backend/internal/notify"
	"github.com/GregMSThompson/dadhelper-backend/internal/server"
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
	exitOnError("invalid configuration", err, logger.New("error", "notifier", logger.NewCloudRunHandler))

	// bootstrap
	bs, err := bootstrap.RunNotifier(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	m := metrics.New()

	bstore := store.NewBookingStore(bs.Firestore)
	mailer := sendgridclient.NewAdapter(bs.SendgridKey, cfg.MailFromName, cfg.MailFromAddress, bs.Log)
	n := notify.New(bstore, mailer, m)

	// Cloud Run needs a listening port; it also serves health and metrics.
	hh := handlers.NewHealthHandlers(&handlers.Deps{Service: "notifier", Version: cfg.AppVersion})
	r := chi.NewRouter()
	r.Get("/healthz", hh.Health)
	r.Handle("/metrics", m.Handler())
	srv := server.New(cfg.Port, r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, bs.Log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx, srv, bs.Log) })
	g.Go(func() error { return n.Run(ctx) })

	exitOnError("notifier failed", g.Wait(), bs.Log)
	bs.Log.Info("notifier stopped")
}
