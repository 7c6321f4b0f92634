package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreatePurchaseParams is the input for CreatePurchase. CreatedAt is the
// transaction timestamp; callers pass time.Now() unless backdating (seeder,
// tests).
type CreatePurchaseParams struct {
	CustomerID int64
	ProductID  int64
	Amount     float64
	CreatedAt  time.Time
}

// CreatePurchase validates that the referenced customer and product exist and
// inserts the purchase, all in one serializable transaction. A dangling
// reference surfaces as ErrNotFound naming the missing entity.
func (s *Store) CreatePurchase(ctx context.Context, p CreatePurchaseParams) (Purchase, error) {
	var purchase Purchase

	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		customer, err := customerByID(ctx, tx, p.CustomerID)
		if err != nil {
			return err
		}
		product, err := productByID(ctx, tx, p.ProductID)
		if err != nil {
			return err
		}

		purchase = Purchase{
			Customer: customer,
			Product:  product,
			Amount:   p.Amount,
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO purchases (customer_id, product_id, amount, created_date)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_date`,
			p.CustomerID, p.ProductID, p.Amount, p.CreatedAt,
		).Scan(&purchase.ID, &purchase.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return Purchase{}, fmt.Errorf("store: create purchase: %w", err)
	}
	return purchase, nil
}

// ListPurchases returns all purchases with their customer and product rows,
// ordered by id.
func (s *Store) ListPurchases(ctx context.Context) ([]Purchase, error) {
	return s.queryPurchases(ctx,
		selectPurchases+` ORDER BY p.id`)
}

// FindPurchasesBetween returns purchases whose created_date falls in
// [start, end), ordered by created_date. An empty window yields an empty
// slice, never an error; storage failures are reported distinctly.
func (s *Store) FindPurchasesBetween(ctx context.Context, start, end time.Time) ([]Purchase, error) {
	return s.queryPurchases(ctx,
		selectPurchases+` WHERE p.created_date >= $1 AND p.created_date < $2
		 ORDER BY p.created_date, p.id`,
		start, end)
}

const selectPurchases = `SELECT p.id, p.amount, p.created_date,
        c.id, c.first_name, c.last_name, c.phone,
        pr.id, pr.name, pr.price
 FROM purchases p
 JOIN customers c ON c.id = p.customer_id
 JOIN products pr ON pr.id = p.product_id`

func (s *Store) queryPurchases(ctx context.Context, query string, args ...any) ([]Purchase, error) {
	rows, err := s.pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query purchases: %w", err)
	}
	defer rows.Close()

	purchases := []Purchase{}
	for rows.Next() {
		var p Purchase
		err := rows.Scan(
			&p.ID, &p.Amount, &p.CreatedAt,
			&p.Customer.ID, &p.Customer.FirstName, &p.Customer.LastName, &p.Customer.Phone,
			&p.Product.ID, &p.Product.Name, &p.Product.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("store: scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: query purchases: %w", err)
	}
	return purchases, nil
}

// ─── TX-SCOPED LOOKUPS ───────────────────────────────────────────────────────

func customerByID(ctx context.Context, tx *sql.Tx, id int64) (Customer, error) {
	var c Customer
	err := tx.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, phone FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Customer{}, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func productByID(ctx context.Context, tx *sql.Tx, id int64) (Product, error) {
	var p Product
	err := tx.QueryRowContext(ctx,
		`SELECT id, name, price FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}
