package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
)

// InitFirestore connects to the project's default database. The client library
// honours FIRESTORE_EMULATOR_HOST on its own; it is logged so local runs are obvious.
func InitFirestore(ctx context.Context, projectID string, log *slog.Logger) (*firestore.Client, error) {
	if host := os.Getenv("FIRESTORE_EMULATOR_HOST"); host != "" {
		log.Info("using firestore emulator", "host", host)
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("while creating Firestore client: %w", err)
	}
	return client, nil
}
