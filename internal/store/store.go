// Package store is the Postgres persistence layer. It owns the entity models
// and groups multi-step writes behind serializable transactions.
//
// Dependency rule: store imports nothing from api, report, email, scheduler
// or seed; those packages depend on store, never the other way around.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a row referenced by id does not exist.
// Callers distinguish it from infrastructure failures: a missing customer is
// a 404, a dead connection is a 500.
var ErrNotFound = errors.New("store: not found")

// ─── MODELS ──────────────────────────────────────────────────────────────────

// Customer is a buyer on record.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Phone     string
}

// Product is a sellable item.
type Product struct {
	ID    int64
	Name  string
	Price float64
}

// Purchase is one sale of a product to a customer. Reads always hydrate the
// full Customer and Product rows; the report renderer needs both.
type Purchase struct {
	ID        int64
	Customer  Customer
	Product   Product
	Amount    float64
	CreatedAt time.Time
}

// Refund reverses (part of) a purchase. Customer and Product are denormalised
// copies of the originating purchase's rows, set at creation time.
type Refund struct {
	ID         int64
	PurchaseID int64
	Customer   Customer
	Product    Product
	Amount     float64
	CreatedAt  time.Time
}

// ─── STORE ───────────────────────────────────────────────────────────────────

// Store wraps the connection pool. The per-entity operation files
// (customers.go, products.go, purchases.go, refunds.go, emaillog.go) attach
// methods to this type.
type Store struct {
	pool *sql.DB
}

// New creates a Store from a live connection pool. The pool must already be
// open and verified (e.g. via PingContext) before calling New.
func New(pool *sql.DB) *Store {
	return &Store{pool: pool}
}

// txFunc receives a transaction-scoped handle and returns an error.
// Returning a non-nil error causes withTx to roll back automatically.
type txFunc func(ctx context.Context, tx *sql.Tx) error

// withTx begins a transaction, passes it to fn, and commits on success or
// rolls back on any error (including panics).
//
// Serializable isolation is used because the multi-step writes here follow a
// read-then-write pattern (validating referenced rows before inserting).
func (s *Store) withTx(ctx context.Context, fn txFunc) error {
	tx, err := s.pool.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	// Roll back on panic so the connection is never left in a broken state.
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // re-panic after rollback
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			// Wrap both errors so the caller sees both failure reasons.
			return fmt.Errorf("store: fn error: %w; rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}
