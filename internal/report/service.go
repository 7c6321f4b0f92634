// Package report implements the daily transaction-report pipeline: compute
// the reporting window, read the purchases and refunds inside it, render the
// fixed-format HTML document, and hand it to the mail sender. Each step is a
// separate unit so the pipeline can be tested without a database or SMTP.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

// Reader is the slice of the persistence layer the pipeline depends on.
// Both methods treat the window as [start, end) and return an empty slice,
// not an error, when nothing matches; an error always means the read itself
// failed. *store.Store satisfies this.
type Reader interface {
	FindPurchasesBetween(ctx context.Context, start, end time.Time) ([]store.Purchase, error)
	FindRefundsBetween(ctx context.Context, start, end time.Time) ([]store.Refund, error)
}

// Sender delivers the rendered report. *email.Mailer satisfies this.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Journal records run outcomes for auditing. *store.Store satisfies this.
type Journal interface {
	InsertEmailLog(ctx context.Context, e store.EmailLogEntry) error
}

const subjectPrefix = "Daily Transactions Report - "

// Service sequences one report run. It holds no per-run state: the window is
// recomputed from the clock on every Run, so a long-lived Service never
// drifts across midnight.
type Service struct {
	reader  Reader
	sender  Sender
	journal Journal
	loc     *time.Location
	logger  *slog.Logger
}

// NewService constructs the report pipeline. loc is the zone reporting days
// are cut in; nil means UTC.
func NewService(reader Reader, sender Sender, journal Journal, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		reader:  reader,
		sender:  sender,
		journal: journal,
		loc:     loc,
		logger:  logger,
	}
}

// Run generates and sends the report for the calendar day before now.
// This is the entry point for both the scheduler and the on-demand endpoint.
func (s *Service) Run(ctx context.Context, now time.Time) error {
	return s.RunWindow(ctx, PreviousDayRange(now, s.loc))
}

// runStats is the audit snapshot journalled after every run.
type runStats struct {
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Purchases   int    `json:"purchases"`
	Refunds     int    `json:"refunds"`
	SizeBytes   int    `json:"size_bytes"`
}

// RunWindow generates and sends the report for an explicit window. The
// subject's date label comes from the window itself, never from a second
// look at the clock. Any step failure is logged once here and collapsed into
// a single error; nothing is retried and no transaction data is written.
func (s *Service) RunWindow(ctx context.Context, win Window) error {
	runID := uuid.New()
	log := s.logger.With(
		"run_id", runID,
		"window_start", win.Start.Format(time.RFC3339),
		"window_end", win.End.Format(time.RFC3339),
	)
	subject := subjectPrefix + win.Start.Format("2006-01-02")

	stats := runStats{
		WindowStart: win.Start.Format(time.RFC3339),
		WindowEnd:   win.End.Format(time.RFC3339),
	}

	err := s.run(ctx, win, subject, &stats, log)
	s.record(ctx, runID, subject, stats, err, log)

	if err != nil {
		log.Error("report run failed", "error", err)
		return fmt.Errorf("report: %w", err)
	}

	log.Info("report sent",
		"subject", subject,
		"purchases", stats.Purchases,
		"refunds", stats.Refunds,
		"bytes", stats.SizeBytes,
	)
	return nil
}

// run executes the read → render → send chain, filling stats as it goes.
func (s *Service) run(ctx context.Context, win Window, subject string, stats *runStats, log *slog.Logger) error {
	if !win.Valid() {
		return fmt.Errorf("invalid window: start %s is not before end %s", win.Start, win.End)
	}

	purchases, err := s.reader.FindPurchasesBetween(ctx, win.Start, win.End)
	if err != nil {
		return fmt.Errorf("find purchases: %w", err)
	}
	stats.Purchases = len(purchases)

	refunds, err := s.reader.FindRefundsBetween(ctx, win.Start, win.End)
	if err != nil {
		return fmt.Errorf("find refunds: %w", err)
	}
	stats.Refunds = len(refunds)

	htmlBody := RenderHTML(purchases, refunds)
	stats.SizeBytes = len(htmlBody)
	log.Debug("report rendered",
		"purchases", len(purchases),
		"refunds", len(refunds),
		"bytes", len(htmlBody),
	)

	if err := s.sender.Send(ctx, subject, htmlBody); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}

// record journals the run outcome. Best effort: a journal failure is logged
// and swallowed so bookkeeping can never turn a sent report into a failure.
func (s *Service) record(ctx context.Context, runID uuid.UUID, subject string, stats runStats, runErr error, log *slog.Logger) {
	entry := store.EmailLogEntry{
		RunID:     runID,
		Subject:   subject,
		Status:    "sent",
		SizeBytes: int64(stats.SizeBytes),
	}
	if runErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = runErr.Error()
	}
	if details, err := json.Marshal(stats); err == nil {
		entry.Details = details
	}

	// The run context may already be cancelled or past its deadline, so the
	// journal write gets its own short deadline.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.journal.InsertEmailLog(logCtx, entry); err != nil {
		log.Warn("report: journal write failed", "error", err)
	}
}
