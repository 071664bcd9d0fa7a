package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/GregMSThompson/dadhelper-backend/internal/models"
)

const bookingSubject = "New Booking Request!"

const bookingPlain = `Hi! You've received a new booking from {{or .ParentEmail "a user"}}.

Message:
{{or .Message "No message provided."}}`

var bookingPlainTemplate = template.Must(template.New("booking").Parse(bookingPlain))

// renderBooking builds the subject and plain-text body sent to the dad.
func renderBooking(b *models.Booking) (string, string, error) {
	body := &bytes.Buffer{}
	if err := bookingPlainTemplate.Execute(body, b); err != nil {
		return "", "", fmt.Errorf("while templating booking email: %w", err)
	}
	return bookingSubject, body.String(), nil
}
