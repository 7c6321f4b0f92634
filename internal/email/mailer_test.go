package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

type stubTransport struct {
	err   error
	calls int
	got   Message
}

func (t *stubTransport) Send(_ context.Context, m Message) error {
	t.calls++
	t.got = m
	return t.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendSuccess(t *testing.T) {
	transport := &stubTransport{}
	m := NewMailer("reports@example.com", "ops@example.com", transport, discardLogger())

	if err := m.Send(context.Background(), "Daily Transactions Report - 2025-03-14", "<html></html>"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if transport.calls != 1 {
		t.Fatalf("transport calls = %d, want 1", transport.calls)
	}
	got := transport.got
	if got.From != "reports@example.com" || got.To != "ops@example.com" {
		t.Errorf("addressing = %+v", got)
	}
	if got.Subject != "Daily Transactions Report - 2025-03-14" || got.HTML != "<html></html>" {
		t.Errorf("payload = %+v", got)
	}
}

func TestSendMissingFromIsConfigurationError(t *testing.T) {
	transport := &stubTransport{}
	m := NewMailer("", "ops@example.com", transport, discardLogger())

	err := m.Send(context.Background(), "subject", "body")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if transport.calls != 0 {
		t.Error("transport must not be called when the sender is unset")
	}
}

func TestSendOversizedBodyIsRejected(t *testing.T) {
	transport := &stubTransport{}
	m := NewMailer("reports@example.com", "ops@example.com", transport, discardLogger())

	body := strings.Repeat("a", MaxContentBytes+1)
	err := m.Send(context.Background(), "subject", body)
	if !errors.Is(err, ErrContentTooLarge) {
		t.Fatalf("err = %v, want ErrContentTooLarge", err)
	}
	if transport.calls != 0 {
		t.Error("oversized body must never reach the transport")
	}
}

func TestSendBodyAtLimitIsAccepted(t *testing.T) {
	transport := &stubTransport{}
	m := NewMailer("reports@example.com", "ops@example.com", transport, discardLogger())

	body := strings.Repeat("a", MaxContentBytes)
	if err := m.Send(context.Background(), "subject", body); err != nil {
		t.Fatalf("body exactly at the limit should send: %v", err)
	}
	if transport.calls != 1 {
		t.Errorf("transport calls = %d, want 1", transport.calls)
	}
}

func TestSendConfigurationCheckedBeforeSize(t *testing.T) {
	// A mailer that is both unconfigured and given an oversized body reports
	// the configuration problem.
	m := NewMailer("", "ops@example.com", &stubTransport{}, discardLogger())

	err := m.Send(context.Background(), "subject", strings.Repeat("a", MaxContentBytes+1))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured to win over the size check", err)
	}
}

func TestSendWrapsTransportError(t *testing.T) {
	cause := errors.New("451 temporary failure")
	transport := &stubTransport{err: cause}
	m := NewMailer("reports@example.com", "ops@example.com", transport, discardLogger())

	err := m.Send(context.Background(), "subject", "body")
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want the transport error wrapped", err)
	}
	if transport.calls != 1 {
		t.Errorf("transport calls = %d, want exactly 1 (no retry)", transport.calls)
	}
}
