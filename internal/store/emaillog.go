package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// EmailLogEntry records one report-send attempt. Status is "sent" or
// "failed"; Details carries a free-form JSON snapshot (window bounds, row
// counts) for auditing.
type EmailLogEntry struct {
	RunID        uuid.UUID
	Subject      string
	Status       string
	ErrorMessage string
	SizeBytes    int64
	Details      []byte // raw JSON; may be nil
}

// InsertEmailLog appends an entry to the email_log journal. The journal is
// best-effort bookkeeping: callers log insert failures but never fail a
// report run on them, and nothing here touches the transaction tables.
func (s *Store) InsertEmailLog(ctx context.Context, e EmailLogEntry) error {
	details := pqtype.NullRawMessage{
		RawMessage: e.Details,
		Valid:      len(e.Details) > 0,
	}
	errorMessage := sql.NullString{
		String: e.ErrorMessage,
		Valid:  e.ErrorMessage != "",
	}

	_, err := s.pool.ExecContext(ctx,
		`INSERT INTO email_log (id, subject, status, error_message, size_bytes, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.RunID, e.Subject, e.Status, errorMessage, e.SizeBytes, details,
	)
	if err != nil {
		return fmt.Errorf("store: insert email log: %w", err)
	}
	return nil
}
