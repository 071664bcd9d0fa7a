package gcsclient

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
)

// Adapter writes dad profile photos to a single Cloud Storage bucket.
type Adapter struct {
	client *storage.Client
	bucket string
}

func NewAdapter(client *storage.Client, bucket string) *Adapter {
	return &Adapter{client: client, bucket: bucket}
}

// Upload streams body to objectPath and returns the object's public URL.
func (a *Adapter) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if a.bucket == "" {
		return "", errs.NewExternalServiceError("storage", "photo bucket is not configured", false, nil)
	}

	// Cancelling the writer's context aborts the upload instead of committing a partial object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(w, body); err != nil {
		cancel()
		_ = w.Close()
		return "", errs.NewExternalServiceError("storage", "failed to upload photo", true, err)
	}
	if err := w.Close(); err != nil {
		return "", errs.NewExternalServiceError("storage", "failed to upload photo", true, err)
	}
	return PublicURL(a.bucket, objectPath), nil
}

// Delete removes an object. A missing object is not an error.
func (a *Adapter) Delete(ctx context.Context, objectPath string) error {
	err := a.client.Bucket(a.bucket).Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return errs.NewExternalServiceError("storage", "failed to delete photo", true, err)
	}
	return nil
}

func PublicURL(bucket, objectPath string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + objectPath
}
