package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

type bookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	ListByParent(ctx context.Context, parentUID string) ([]*models.Booking, error)
	ListByDad(ctx context.Context, dadUID string) ([]*models.Booking, error)
	SetStatus(ctx context.Context, id, status string) error
}

type bookingDadLookup interface {
	GetDad(ctx context.Context, uid string) (*models.Dad, error)
}

type bookingRecorder interface {
	statusRecorder
	BookingSubmitted()
}

type bookingService struct {
	store   bookingStore
	dads    bookingDadLookup
	metrics bookingRecorder
}

func NewBookingService(store bookingStore, dads bookingDadLookup, metrics bookingRecorder) *bookingService {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &bookingService{store: store, dads: dads, metrics: metrics}
}

// Submit books an approved dad on behalf of the caller. The booking always
// starts pending.
func (s *bookingService) Submit(ctx context.Context, dadUID, parentUID, parentEmail string, req dto.CreateBookingRequest) (*models.Booking, error) {
	log := logger.FromContext(ctx)

	req.Date = strings.TrimSpace(req.Date)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	dad, err := s.dads.GetDad(ctx, dadUID)
	if err != nil {
		return nil, err
	}
	if dad.Status != models.StatusApproved {
		return nil, errs.NewNotFoundError("dad not found")
	}

	b := &models.Booking{
		BookingID:   uuid.New().String(),
		DadUID:      dad.UID,
		DadEmail:    dad.Email,
		ParentUID:   parentUID,
		ParentEmail: parentEmail,
		Date:        req.Date,
		Message:     req.Message,
		Status:      models.StatusPending,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		log.Error("failed to create booking", "dad_uid", dadUID, "error", err)
		return nil, err
	}

	s.metrics.BookingSubmitted()
	log.Info("booking submitted", "booking_id", b.BookingID, "dad_uid", dadUID, "date", b.Date)
	return b, nil
}

// ListForParent returns the caller's own bookings.
func (s *bookingService) ListForParent(ctx context.Context, parentUID string) ([]*models.Booking, error) {
	all, err := s.store.ListByParent(ctx, parentUID)
	if err != nil {
		return nil, err
	}
	return filterBookings(all, func(b *models.Booking) bool {
		return b.ParentUID == parentUID
	}), nil
}

// ListForDad returns bookings addressed to the dad, optionally narrowed by status.
func (s *bookingService) ListForDad(ctx context.Context, dadUID, status string) ([]*models.Booking, error) {
	status, err := listStatus(status, "")
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListByDad(ctx, dadUID)
	if err != nil {
		return nil, err
	}
	return filterBookings(all, func(b *models.Booking) bool {
		return b.DadUID == dadUID && (status == "" || b.Status == status)
	}), nil
}

// DadSetStatus lets a dad decide one of their own bookings. Bookings addressed
// to someone else read as not found.
func (s *bookingService) DadSetStatus(ctx context.Context, dadUID, bookingID, requested string) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.DadUID != dadUID {
		return nil, errs.NewNotFoundError("booking not found")
	}
	return s.setStatus(ctx, b, requested)
}

// ListForAdmin loads every booking and filters by status (default pending)
// then by a case-insensitive match on either party's email.
func (s *bookingService) ListForAdmin(ctx context.Context, filter dto.BookingFilter) ([]*models.Booking, error) {
	status, err := listStatus(filter.Status, models.StatusPending)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(filter.Search))
	return filterBookings(all, func(b *models.Booking) bool {
		if b.Status != status {
			return false
		}
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(b.DadEmail), q) ||
			strings.Contains(strings.ToLower(b.ParentEmail), q)
	}), nil
}

func (s *bookingService) AdminSetStatus(ctx context.Context, bookingID, requested string) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.setStatus(ctx, b, requested)
}

func (s *bookingService) setStatus(ctx context.Context, b *models.Booking, requested string) (*models.Booking, error) {
	next, changed, err := transition("booking", b.Status, requested)
	if err != nil {
		return nil, err
	}
	if !changed {
		return b, nil
	}
	if err := s.store.SetStatus(ctx, b.BookingID, next); err != nil {
		return nil, err
	}
	s.metrics.StatusChanged("booking", next)
	logger.FromContext(ctx).Info("booking status changed", "booking_id", b.BookingID, "from", b.Status, "to", next)
	b.Status = next
	return b, nil
}

func filterBookings(all []*models.Booking, keep func(*models.Booking) bool) []*models.Booking {
	out := make([]*models.Booking, 0, len(all))
	for _, b := range all {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
