package notify

import (
	"context"

	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

type bookingSource interface {
	WatchUnnotified(ctx context.Context, fn func(context.Context, *models.Booking) error) error
	ClaimNotification(ctx context.Context, id string) (bool, error)
}

type mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type recorder interface {
	Notification(result string)
}

// Notifier emails the dad once for every newly created booking. Each booking is
// claimed before sending, so a crash between claim and send loses the email
// rather than sending it twice.
type Notifier struct {
	source  bookingSource
	mailer  mailer
	metrics recorder
}

func New(source bookingSource, mailer mailer, metrics recorder) *Notifier {
	return &Notifier{source: source, mailer: mailer, metrics: metrics}
}

// Run blocks until ctx is cancelled or the listener fails.
func (n *Notifier) Run(ctx context.Context) error {
	logger.FromContext(ctx).Info("booking notifier listening")
	return n.source.WatchUnnotified(ctx, n.handle)
}

// handle never returns an error for a single booking; one bad booking must not
// stop the listener.
func (n *Notifier) handle(ctx context.Context, b *models.Booking) error {
	log := logger.FromContext(ctx).With("booking_id", b.BookingID, "dad_uid", b.DadUID)

	claimed, err := n.source.ClaimNotification(ctx, b.BookingID)
	if err != nil {
		log.Error("failed to claim booking for notification", "error", err)
		n.record(ResultFailed)
		return nil
	}
	if !claimed {
		log.Debug("booking already claimed")
		return nil
	}

	if b.DadEmail == "" {
		log.Warn("booking has no dad email, skipping notification")
		n.record(ResultSkipped)
		return nil
	}

	subject, body, err := renderBooking(b)
	if err != nil {
		log.Error("failed to render booking email", "error", err)
		n.record(ResultFailed)
		return nil
	}

	if err := n.mailer.Send(ctx, b.DadEmail, subject, body); err != nil {
		log.Error("failed to send booking email", "to", b.DadEmail, "error", err)
		n.record(ResultFailed)
		return nil
	}

	log.Info("booking email sent", "to", b.DadEmail)
	n.record(ResultSent)
	return nil
}

func (n *Notifier) record(result string) {
	if n.metrics != nil {
		n.metrics.Notification(result)
	}
}
