package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/pkg/helpers"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

// MaxPhotoBytes caps the size of an uploaded profile photo.
const MaxPhotoBytes = 5 << 20

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type dadStore interface {
	GetDad(ctx context.Context, uid string) (*models.Dad, error)
	ListDads(ctx context.Context) ([]*models.Dad, error)
	UpdateProfile(ctx context.Context, uid string, displayName, bio *string) error
	SetStatus(ctx context.Context, uid, status string) error
	SetPhoto(ctx context.Context, uid, photoURL, photoPath string) error
}

// photoStorage writes profile photos to object storage and returns their public URL.
type photoStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

type dadService struct {
	store   dadStore
	photos  photoStorage
	metrics statusRecorder
}

func NewDadService(store dadStore, photos photoStorage, metrics statusRecorder) *dadService {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &dadService{store: store, photos: photos, metrics: metrics}
}

// ListApproved returns the browse view: approved profiles only.
func (s *dadService) ListApproved(ctx context.Context) ([]*models.Dad, error) {
	return s.listWithStatus(ctx, models.StatusApproved)
}

// GetPublic returns a profile only if it is approved; anything else reads as not found.
func (s *dadService) GetPublic(ctx context.Context, uid string) (*models.Dad, error) {
	dad, err := s.store.GetDad(ctx, uid)
	if err != nil {
		return nil, err
	}
	if dad.Status != models.StatusApproved {
		return nil, errs.NewNotFoundError("dad not found")
	}
	return dad, nil
}

func (s *dadService) GetOwn(ctx context.Context, uid string) (*models.Dad, error) {
	return s.store.GetDad(ctx, uid)
}

func (s *dadService) UpdateProfile(ctx context.Context, uid string, req dto.UpdateDadProfileRequest) (*models.Dad, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.DisplayName == nil && req.Bio == nil {
		return nil, errs.NewValidationError("nothing to update")
	}
	displayName := helpers.TrimmedPtr(req.DisplayName)
	bio := helpers.TrimmedPtr(req.Bio)

	if err := s.store.UpdateProfile(ctx, uid, displayName, bio); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("dad profile updated", "dad_uid", uid)
	return s.store.GetDad(ctx, uid)
}

// UploadPhoto stores a new profile photo at dads/{uid}/{uuid}{ext} and
// replaces the previous one.
func (s *dadService) UploadPhoto(ctx context.Context, uid string, upload dto.PhotoUpload, body io.Reader) (*models.Dad, error) {
	log := logger.FromContext(ctx)

	if upload.Size <= 0 {
		return nil, errs.NewValidationError("photo is empty")
	}
	if upload.Size > MaxPhotoBytes {
		return nil, errs.NewValidationError(fmt.Sprintf("photo must be at most %d bytes", MaxPhotoBytes))
	}
	ext, ok := photoExtensions[upload.ContentType]
	if !ok {
		return nil, errs.NewValidationError("photo must be a JPEG, PNG or WebP image")
	}

	dad, err := s.store.GetDad(ctx, uid)
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("dads/%s/%s%s", uid, uuid.New().String(), ext)
	url, err := s.photos.Upload(ctx, objectPath, upload.ContentType, io.LimitReader(body, MaxPhotoBytes))
	if err != nil {
		log.Error("failed to upload photo", "path", objectPath, "error", err)
		return nil, err
	}
	if err := s.store.SetPhoto(ctx, uid, url, objectPath); err != nil {
		if delErr := s.photos.Delete(ctx, objectPath); delErr != nil {
			log.Warn("failed to remove orphaned photo", "path", objectPath, "error", delErr)
		}
		return nil, err
	}

	if dad.PhotoPath != "" && dad.PhotoPath != objectPath {
		if err := s.photos.Delete(ctx, dad.PhotoPath); err != nil {
			log.Warn("failed to delete previous photo", "path", dad.PhotoPath, "error", err)
		}
	}

	log.Info("dad photo uploaded", "path", objectPath, "size", upload.Size)
	dad.PhotoURL = url
	dad.PhotoPath = objectPath
	return dad, nil
}

// ListByStatus backs the admin review list. An empty status means pending.
func (s *dadService) ListByStatus(ctx context.Context, status string) ([]*models.Dad, error) {
	status, err := listStatus(status, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return s.listWithStatus(ctx, status)
}

// SetStatus approves or rejects a pending profile. Repeating the current
// decision is a no-op.
func (s *dadService) SetStatus(ctx context.Context, uid, requested string) (*models.Dad, error) {
	dad, err := s.store.GetDad(ctx, uid)
	if err != nil {
		return nil, err
	}
	next, changed, err := transition("dad", dad.Status, requested)
	if err != nil {
		return nil, err
	}
	if !changed {
		return dad, nil
	}
	if err := s.store.SetStatus(ctx, uid, next); err != nil {
		return nil, err
	}
	s.metrics.StatusChanged("dad", next)
	logger.FromContext(ctx).Info("dad status changed", "dad_uid", uid, "from", dad.Status, "to", next)
	dad.Status = next
	return dad, nil
}

func (s *dadService) listWithStatus(ctx context.Context, status string) ([]*models.Dad, error) {
	all, err := s.store.ListDads(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Dad, 0, len(all))
	for _, d := range all {
		if d.Status == status {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
