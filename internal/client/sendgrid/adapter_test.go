package sendgridclient

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/pkg/helpers"
)

type stubSender struct {
	status int
	err    error
	calls  int
	last   *mail.SGMailV3
}

func (s *stubSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.calls++
	s.last = email
	if s.err != nil {
		return nil, s.err
	}
	return &rest.Response{StatusCode: s.status}, nil
}

func TestSendBuildsPlainTextMessage(t *testing.T) {
	stub := &stubSender{status: 202}
	a := newAdapter(stub, "Dad Helper", "bookings@example.com", helpers.TestLogger())

	if err := a.Send(context.Background(), "dad@example.com", "New Booking Request!", "hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	m := stub.last
	if m.From.Address != "bookings@example.com" || m.Subject != "New Booking Request!" {
		t.Fatalf("unexpected envelope: from=%+v subject=%q", m.From, m.Subject)
	}
	if len(m.Personalizations) != 1 || m.Personalizations[0].To[0].Address != "dad@example.com" {
		t.Fatalf("unexpected recipients: %+v", m.Personalizations)
	}
	if len(m.Content) != 1 || m.Content[0].Type != "text/plain" || m.Content[0].Value != "hello" {
		t.Fatalf("unexpected content: %+v", m.Content)
	}
}

func TestSendNon2XXIsError(t *testing.T) {
	a := newAdapter(&stubSender{status: 401}, "n", "f@example.com", helpers.TestLogger())

	err := a.Send(context.Background(), "dad@example.com", "s", "b")
	var ext *errs.ExternalServiceError
	if !errors.As(err, &ext) || ext.Service != "sendgrid" {
		t.Fatalf("expected sendgrid ExternalServiceError, got %T (%v)", err, err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubSender{err: errors.New("connection refused")}
	a := newAdapter(stub, "n", "f@example.com", helpers.TestLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = a.Send(ctx, "dad@example.com", "s", "b")
	}
	err := a.Send(ctx, "dad@example.com", "s", "b")

	var ext *errs.ExternalServiceError
	if !errors.As(err, &ext) || !ext.Transient {
		t.Fatalf("expected transient error from open breaker, got %T (%v)", err, err)
	}
	if stub.calls != 3 {
		t.Fatalf("provider called %d times, want 3", stub.calls)
	}
}
