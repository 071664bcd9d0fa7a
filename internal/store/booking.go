package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

type bookingStore struct {
	client *firestore.Client
}

func NewBookingStore(client *firestore.Client) *bookingStore {
	return &bookingStore{client: client}
}

func (s *bookingStore) collection() *firestore.CollectionRef {
	return s.client.Collection("bookings")
}

func (s *bookingStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err := s.collection().Doc(b.BookingID).Create(ctx, b)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("booking already exists")
		}
		return errs.NewDatabaseError("create", "failed to create booking", err)
	}
	return nil
}

func (s *bookingStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("booking not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get booking", err)
	}
	return decodeBooking(doc)
}

// ListBookings returns the whole collection; callers filter in memory.
func (s *bookingStore) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.list(ctx, s.collection().Query)
}

func (s *bookingStore) ListByParent(ctx context.Context, parentUID string) ([]*models.Booking, error) {
	return s.list(ctx, s.collection().Where("parentUid", "==", parentUID))
}

func (s *bookingStore) ListByDad(ctx context.Context, dadUID string) ([]*models.Booking, error) {
	return s.list(ctx, s.collection().Where("dadUid", "==", dadUID))
}

func (s *bookingStore) SetStatus(ctx context.Context, id, bookingStatus string) error {
	_, err := s.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: bookingStatus},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("booking not found")
		}
		return errs.NewDatabaseError("update", "failed to update booking status", err)
	}
	return nil
}

// ClaimNotification flips notifyAttempted to true inside a transaction and
// reports whether this caller won the flip. A booking is claimed at most once.
func (s *bookingStore) ClaimNotification(ctx context.Context, id string) (bool, error) {
	ref := s.collection().Doc(id)
	var claimed bool

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if attempted, err := doc.DataAt("notifyAttempted"); err == nil {
			if done, ok := attempted.(bool); ok && done {
				return nil
			}
		}
		claimed = true
		return tx.Update(ref, []firestore.Update{
			{Path: "notifyAttempted", Value: true},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, errs.NewNotFoundError("booking not found")
		}
		return false, errs.NewDatabaseError("update", "failed to claim booking notification", err)
	}
	return claimed, nil
}

// WatchUnnotified streams bookings that have not been claimed for notification
// yet, calling fn once per newly added document. It blocks until ctx is done.
func (s *bookingStore) WatchUnnotified(ctx context.Context, fn func(context.Context, *models.Booking) error) error {
	log := logger.FromContext(ctx)
	it := s.collection().Where("notifyAttempted", "==", false).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
				return nil
			}
			return errs.NewDatabaseError("watch", "booking snapshot listener failed", err)
		}

		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}
			b, err := decodeBooking(change.Doc)
			if err != nil {
				log.Error("skipping undecodable booking", "booking_id", change.Doc.Ref.ID, "error", err)
				continue
			}
			if err := fn(ctx, b); err != nil {
				return err
			}
		}
	}
}

func (s *bookingStore) list(ctx context.Context, q firestore.Query) ([]*models.Booking, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	bookings := make([]*models.Booking, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list bookings", err)
		}
		b, err := decodeBooking(doc)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func decodeBooking(doc *firestore.DocumentSnapshot) (*models.Booking, error) {
	var b models.Booking
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse booking", err)
	}
	if b.BookingID == "" {
		b.BookingID = doc.Ref.ID
	}
	b.Status = models.NormalizeStatus(b.Status)
	return &b, nil
}
