// Package email delivers the rendered report to the configured recipient.
// Mailer enforces the send preconditions (configured sender, payload size
// ceiling); the wire protocol lives behind the Transport interface so tests
// and alternative providers plug in without touching the checks.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MaxContentBytes is the largest HTML body the mailer will hand to a
// transport: 25 MiB, measured in UTF-8 bytes.
const MaxContentBytes = 25 * 1024 * 1024

var (
	// ErrNotConfigured means the sender address is missing. No transport call
	// is attempted.
	ErrNotConfigured = errors.New("email: sender address not configured")

	// ErrContentTooLarge means the body exceeds MaxContentBytes. No transport
	// call is attempted.
	ErrContentTooLarge = errors.New("email: content exceeds size limit")
)

// Message is the fully-addressed payload handed to a Transport.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Transport performs one blocking delivery attempt. Implementations wrap
// provider errors with their own prefix; they do not retry.
type Transport interface {
	Send(ctx context.Context, m Message) error
}

// Mailer sends single-recipient HTML mail to a fixed destination.
type Mailer struct {
	from      string
	to        string
	transport Transport
	logger    *slog.Logger
}

// NewMailer constructs a Mailer. from may be empty; Send then fails with
// ErrNotConfigured. The missing address surfaces per send, not at
// construction.
func NewMailer(from, to string, transport Transport, logger *slog.Logger) *Mailer {
	return &Mailer{
		from:      from,
		to:        to,
		transport: transport,
		logger:    logger,
	}
}

// Send delivers one HTML message. Precondition order is fixed: configuration
// first, size second, transport last. A misconfigured mailer never reports a
// size problem and an oversized payload never reaches the wire. There is no
// internal retry; callers own retry policy (the report pipeline performs
// none) and bound the call with ctx.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	if m.from == "" {
		return ErrNotConfigured
	}

	if size := len(htmlBody); size > MaxContentBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrContentTooLarge, size, MaxContentBytes)
	}

	err := m.transport.Send(ctx, Message{
		From:    m.from,
		To:      m.to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("email: delivery failed: %w", err)
	}

	m.logger.Info("email sent", "to", m.to, "subject", subject, "bytes", len(htmlBody))
	return nil
}
