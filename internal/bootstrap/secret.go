package bootstrap

import (
	"context"
	"fmt"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/GregMSThompson/dadhelper-backend/internal/config"
)

// ResolveSendgridKey prefers an explicit SENDGRIDAPIKEY and otherwise reads the
// latest version of the configured Secret Manager secret.
func ResolveSendgridKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.SendgridAPIKey != "" {
		return cfg.SendgridAPIKey, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("while creating Secret Manager client: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", cfg.ProjectID, cfg.SendgridKeySecret),
	})
	if err != nil {
		return "", fmt.Errorf("while reading secret %s: %w", cfg.SendgridKeySecret, err)
	}
	return string(resp.GetPayload().GetData()), nil
}
