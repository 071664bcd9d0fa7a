package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
)

type dadStore struct {
	client *firestore.Client
}

func NewDadStore(client *firestore.Client) *dadStore {
	return &dadStore{client: client}
}

func (s *dadStore) collection() *firestore.CollectionRef {
	return s.client.Collection("dads")
}

func (s *dadStore) CreateDad(ctx context.Context, dad *models.Dad) error {
	now := time.Now()
	if dad.CreatedAt.IsZero() {
		dad.CreatedAt = now
	}
	dad.UpdatedAt = now

	_, err := s.collection().Doc(dad.UID).Create(ctx, dad)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("dad profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create dad profile", err)
	}
	return nil
}

func (s *dadStore) GetDad(ctx context.Context, uid string) (*models.Dad, error) {
	doc, err := s.collection().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("dad not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get dad profile", err)
	}
	return decodeDad(doc)
}

// ListDads returns the whole collection; callers filter in memory.
func (s *dadStore) ListDads(ctx context.Context) ([]*models.Dad, error) {
	docs, err := s.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list dads", err)
	}
	dads := make([]*models.Dad, 0, len(docs))
	for _, d := range docs {
		dad, err := decodeDad(d)
		if err != nil {
			return nil, err
		}
		dads = append(dads, dad)
	}
	return dads, nil
}

func (s *dadStore) UpdateProfile(ctx context.Context, uid string, displayName, bio *string) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if displayName != nil {
		updates = append(updates, firestore.Update{Path: "displayName", Value: *displayName})
	}
	if bio != nil {
		updates = append(updates, firestore.Update{Path: "bio", Value: *bio})
	}
	return s.update(ctx, uid, updates, "failed to update dad profile")
}

func (s *dadStore) SetStatus(ctx context.Context, uid, dadStatus string) error {
	return s.update(ctx, uid, []firestore.Update{
		{Path: "status", Value: dadStatus},
		{Path: "updatedAt", Value: time.Now()},
	}, "failed to update dad status")
}

func (s *dadStore) SetPhoto(ctx context.Context, uid, photoURL, photoPath string) error {
	return s.update(ctx, uid, []firestore.Update{
		{Path: "photoURL", Value: photoURL},
		{Path: "photoPath", Value: photoPath},
		{Path: "updatedAt", Value: time.Now()},
	}, "failed to update dad photo")
}

func (s *dadStore) update(ctx context.Context, uid string, updates []firestore.Update, message string) error {
	_, err := s.collection().Doc(uid).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("dad not found")
		}
		return errs.NewDatabaseError("update", message, err)
	}
	return nil
}

func decodeDad(doc *firestore.DocumentSnapshot) (*models.Dad, error) {
	var dad models.Dad
	if err := doc.DataTo(&dad); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse dad profile", err)
	}
	// Profiles written by the web client keep the id only on the document.
	if dad.UID == "" {
		dad.UID = doc.Ref.ID
	}
	return &dad, nil
}
