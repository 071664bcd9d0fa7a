package sendgridclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sony/gobreaker"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
)

// sender is satisfied by *sendgrid.Client.
type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Adapter sends plain-text mail through SendGrid behind a circuit breaker.
type Adapter struct {
	client  sender
	from    *mail.Email
	breaker *gobreaker.CircuitBreaker
}

func NewAdapter(apiKey, fromName, fromAddress string, log *slog.Logger) *Adapter {
	return newAdapter(sendgrid.NewSendClient(apiKey), fromName, fromAddress, log)
}

func newAdapter(client sender, fromName, fromAddress string, log *slog.Logger) *Adapter {
	return &Adapter{
		client:  client,
		from:    mail.NewEmail(fromName, fromAddress),
		breaker: newBreaker("SendGrid", log),
	}
}

func (a *Adapter) Send(ctx context.Context, to, subject, body string) error {
	message := mail.NewV3Mail()
	message.From = a.from
	message.Subject = subject

	personalization := mail.NewPersonalization()
	personalization.To = append(personalization.To, mail.NewEmail("", to))
	message.Personalizations = append(message.Personalizations, personalization)
	message.Content = append(message.Content, mail.NewContent("text/plain", body))

	_, err := a.breaker.Execute(func() (interface{}, error) {
		resp, err := a.client.SendWithContext(ctx, message)
		if err != nil {
			return nil, fmt.Errorf("while sending mail through SendGrid: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
		}
		return resp, nil
	})
	if err != nil {
		transient := errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
		return errs.NewExternalServiceError("sendgrid", "failed to send email", transient, err)
	}
	return nil
}

// newBreaker opens after three consecutive failures and probes again after 30s.
func newBreaker(name string, log *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
