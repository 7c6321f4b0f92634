package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateCustomer inserts a customer and returns it with its assigned id.
// Field validation (non-empty names) happens in the API layer.
func (s *Store) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	err := s.pool.QueryRowContext(ctx,
		`INSERT INTO customers (first_name, last_name, phone)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		c.FirstName, c.LastName, c.Phone,
	).Scan(&c.ID)
	if err != nil {
		return Customer{}, fmt.Errorf("store: create customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer overwrites all mutable fields of the customer with the given
// id. Returns ErrNotFound if the id does not exist.
func (s *Store) UpdateCustomer(ctx context.Context, id int64, c Customer) (Customer, error) {
	err := s.pool.QueryRowContext(ctx,
		`UPDATE customers
		 SET first_name = $2, last_name = $3, phone = $4
		 WHERE id = $1
		 RETURNING id, first_name, last_name, phone`,
		id, c.FirstName, c.LastName, c.Phone,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, fmt.Errorf("store: update customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Customer{}, fmt.Errorf("store: update customer %d: %w", id, err)
	}
	return c, nil
}

// DeleteCustomer removes the customer with the given id.
// Returns ErrNotFound if no row was deleted.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete customer %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete customer %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("store: delete customer %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListCustomers returns all customers ordered by id.
func (s *Store) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.QueryContext(ctx,
		`SELECT id, first_name, last_name, phone FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list customers: %w", err)
	}
	defer rows.Close()

	customers := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone); err != nil {
			return nil, fmt.Errorf("store: scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list customers: %w", err)
	}
	return customers, nil
}
