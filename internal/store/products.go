package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateProduct inserts a product and returns it with its assigned id.
func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	err := s.pool.QueryRowContext(ctx,
		`INSERT INTO products (name, price)
		 VALUES ($1, $2)
		 RETURNING id`,
		p.Name, p.Price,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, fmt.Errorf("store: create product: %w", err)
	}
	return p, nil
}

// UpdateProduct overwrites the product with the given id.
// Returns ErrNotFound if the id does not exist.
func (s *Store) UpdateProduct(ctx context.Context, id int64, p Product) (Product, error) {
	err := s.pool.QueryRowContext(ctx,
		`UPDATE products
		 SET name = $2, price = $3
		 WHERE id = $1
		 RETURNING id, name, price`,
		id, p.Name, p.Price,
	).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("store: update product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("store: update product %d: %w", id, err)
	}
	return p, nil
}

// DeleteProduct removes the product with the given id.
// Returns ErrNotFound if no row was deleted.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete product %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("store: delete product %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListProducts returns all products ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.QueryContext(ctx,
		`SELECT id, name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("store: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list products: %w", err)
	}
	return products, nil
}
