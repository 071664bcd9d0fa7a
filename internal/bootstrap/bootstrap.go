package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/dadhelper-backend/internal/config"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Storage   *storage.Client
	// SendgridKey is only resolved for the notifier.
	SendgridKey string
}

// Run wires the clients the API needs.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, "api", logger.NewCloudRunHandler)
	if err := cfg.ValidateAPI(); err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID, bs.Log)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Storage, err = InitStorage(applicationCtx)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// RunNotifier wires the clients the booking notifier needs.
func RunNotifier(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, "notifier", logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID, bs.Log)
	if err != nil {
		return bs, err
	}
	bs.SendgridKey, err = ResolveSendgridKey(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("failed to close firestore client", "error", err)
		}
	}
	if bs.Storage != nil {
		if err := bs.Storage.Close(); err != nil {
			bs.Log.Warn("failed to close storage client", "error", err)
		}
	}
}
