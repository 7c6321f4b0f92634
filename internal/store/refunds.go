package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRefundExceedsPurchase is returned when a refund amount is larger than the
// originating purchase's amount. The API layer maps it to a 400.
var ErrRefundExceedsPurchase = errors.New("store: refund amount exceeds purchase amount")

// CreateRefundParams is the input for CreateRefund. The customer and product
// are not accepted here; they are copied from the originating purchase.
type CreateRefundParams struct {
	PurchaseID int64
	Amount     float64
	CreatedAt  time.Time
}

// CreateRefund loads the originating purchase, checks the refund amount
// against it, and inserts the refund with the purchase's customer and product,
// all in one serializable transaction.
func (s *Store) CreateRefund(ctx context.Context, p CreateRefundParams) (Refund, error) {
	var refund Refund

	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var (
			purchaseAmount float64
			purchasedAt    time.Time
			customer       Customer
			product        Product
		)
		err := tx.QueryRowContext(ctx,
			selectPurchases+` WHERE p.id = $1`, p.PurchaseID,
		).Scan(
			&refund.PurchaseID, &purchaseAmount, &purchasedAt,
			&customer.ID, &customer.FirstName, &customer.LastName, &customer.Phone,
			&product.ID, &product.Name, &product.Price,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("purchase %d: %w", p.PurchaseID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get purchase %d: %w", p.PurchaseID, err)
		}

		if p.Amount > purchaseAmount {
			return ErrRefundExceedsPurchase
		}

		refund.Customer = customer
		refund.Product = product
		refund.Amount = p.Amount
		err = tx.QueryRowContext(ctx,
			`INSERT INTO refunds (purchase_id, customer_id, product_id, amount, created_date)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_date`,
			p.PurchaseID, customer.ID, product.ID, p.Amount, p.CreatedAt,
		).Scan(&refund.ID, &refund.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert refund: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrRefundExceedsPurchase) {
		return Refund{}, err
	}
	if err != nil {
		return Refund{}, fmt.Errorf("store: create refund: %w", err)
	}
	return refund, nil
}

// ListRefunds returns all refunds with their customer and product rows,
// ordered by id.
func (s *Store) ListRefunds(ctx context.Context) ([]Refund, error) {
	return s.queryRefunds(ctx,
		selectRefunds+` ORDER BY r.id`)
}

// FindRefundsBetween returns refunds whose created_date falls in [start, end),
// ordered by created_date. Empty result and storage failure are distinct
// outcomes: an empty slice with a nil error means no refunds in the window.
func (s *Store) FindRefundsBetween(ctx context.Context, start, end time.Time) ([]Refund, error) {
	return s.queryRefunds(ctx,
		selectRefunds+` WHERE r.created_date >= $1 AND r.created_date < $2
		 ORDER BY r.created_date, r.id`,
		start, end)
}

const selectRefunds = `SELECT r.id, r.purchase_id, r.amount, r.created_date,
        c.id, c.first_name, c.last_name, c.phone,
        pr.id, pr.name, pr.price
 FROM refunds r
 JOIN customers c ON c.id = r.customer_id
 JOIN products pr ON pr.id = r.product_id`

func (s *Store) queryRefunds(ctx context.Context, query string, args ...any) ([]Refund, error) {
	rows, err := s.pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query refunds: %w", err)
	}
	defer rows.Close()

	refunds := []Refund{}
	for rows.Next() {
		var r Refund
		err := rows.Scan(
			&r.ID, &r.PurchaseID, &r.Amount, &r.CreatedAt,
			&r.Customer.ID, &r.Customer.FirstName, &r.Customer.LastName, &r.Customer.Phone,
			&r.Product.ID, &r.Product.Name, &r.Product.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("store: scan refund: %w", err)
		}
		refunds = append(refunds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: query refunds: %w", err)
	}
	return refunds, nil
}
