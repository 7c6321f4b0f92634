package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

var (
	purchaseColumns = []string{
		"id", "amount", "created_date",
		"c_id", "first_name", "last_name", "phone",
		"pr_id", "name", "price",
	}
	refundColumns = []string{
		"id", "purchase_id", "amount", "created_date",
		"c_id", "first_name", "last_name", "phone",
		"pr_id", "name", "price",
	}
)

// ─── CUSTOMERS ───────────────────────────────────────────────────────────────

func TestCreateCustomer(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs("Ahmad", "Saad", "0912345678").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	c, err := st.CreateCustomer(context.Background(), Customer{
		FirstName: "Ahmad", LastName: "Saad", Phone: "0912345678",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Ahmad", c.FirstName)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE customers")).
		WithArgs(int64(99), "A", "B", "C").
		WillReturnError(sql.ErrNoRows)

	_, err := st.UpdateCustomer(context.Background(), 99, Customer{
		FirstName: "A", LastName: "B", Phone: "C",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomerNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.DeleteCustomer(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCustomersEmpty(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, phone FROM customers")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone"}))

	customers, err := st.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, customers, "empty result must be a non-nil slice")
	assert.Empty(t, customers)
}

// ─── PURCHASES ───────────────────────────────────────────────────────────────

func TestCreatePurchase(t *testing.T) {
	st, mock := newMockStore(t)
	createdAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, phone FROM customers WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone"}).
			AddRow(int64(1), "Ahmad", "Saad", "0912345678"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price FROM products WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price"}).
			AddRow(int64(2), "Laptop", 1000.0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO purchases")).
		WithArgs(int64(1), int64(2), 10.0, createdAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_date"}).
			AddRow(int64(5), createdAt))
	mock.ExpectCommit()

	p, err := st.CreatePurchase(context.Background(), CreatePurchaseParams{
		CustomerID: 1, ProductID: 2, Amount: 10, CreatedAt: createdAt,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, "Ahmad", p.Customer.FirstName)
	assert.Equal(t, "Laptop", p.Product.Name)
	assert.True(t, p.CreatedAt.Equal(createdAt))
}

func TestCreatePurchaseUnknownCustomerRollsBack(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, phone FROM customers WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := st.CreatePurchase(context.Background(), CreatePurchaseParams{
		CustomerID: 404, ProductID: 1, Amount: 10, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindPurchasesBetween(t *testing.T) {
	st, mock := newMockStore(t)
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	created := start.Add(10 * time.Hour)

	mock.ExpectQuery("SELECT p.id, p.amount, p.created_date.+WHERE p.created_date >= .+ ORDER BY p.created_date, p.id").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(int64(1), 10.0, created, int64(1), "Ahmad", "Saad", "0912345678", int64(2), "Laptop", 1000.0))

	purchases, err := st.FindPurchasesBetween(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, int64(1), purchases[0].ID)
	assert.Equal(t, "Laptop", purchases[0].Product.Name)
}

func TestFindPurchasesBetweenEmptyWindow(t *testing.T) {
	st, mock := newMockStore(t)
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT p.id, p.amount, p.created_date").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(purchaseColumns))

	purchases, err := st.FindPurchasesBetween(context.Background(), start, end)
	require.NoError(t, err, "an empty window is not an error")
	assert.NotNil(t, purchases)
	assert.Empty(t, purchases)
}

// ─── REFUNDS ─────────────────────────────────────────────────────────────────

func TestCreateRefund(t *testing.T) {
	st, mock := newMockStore(t)
	purchasedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	refundedAt := purchasedAt.Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT p.id, p.amount, p.created_date.+WHERE p.id = ").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(int64(5), 10.0, purchasedAt, int64(1), "Ahmad", "Saad", "0912345678", int64(2), "Laptop", 1000.0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO refunds")).
		WithArgs(int64(5), int64(1), int64(2), 7.0, refundedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_date"}).
			AddRow(int64(3), refundedAt))
	mock.ExpectCommit()

	r, err := st.CreateRefund(context.Background(), CreateRefundParams{
		PurchaseID: 5, Amount: 7, CreatedAt: refundedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, int64(5), r.PurchaseID)
	// Customer and product are copied from the purchase, not from the request.
	assert.Equal(t, "Ahmad", r.Customer.FirstName)
	assert.Equal(t, "Laptop", r.Product.Name)
}

func TestCreateRefundExceedsPurchaseRollsBack(t *testing.T) {
	st, mock := newMockStore(t)
	purchasedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT p.id, p.amount, p.created_date.+WHERE p.id = ").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).
			AddRow(int64(5), 10.0, purchasedAt, int64(1), "Ahmad", "Saad", "0912345678", int64(2), "Laptop", 1000.0))
	mock.ExpectRollback()

	_, err := st.CreateRefund(context.Background(), CreateRefundParams{
		PurchaseID: 5, Amount: 10.01, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrRefundExceedsPurchase)
}

func TestCreateRefundUnknownPurchase(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT p.id, p.amount, p.created_date.+WHERE p.id = ").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := st.CreateRefund(context.Background(), CreateRefundParams{
		PurchaseID: 404, Amount: 1, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindRefundsBetween(t *testing.T) {
	st, mock := newMockStore(t)
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	created := start.Add(12 * time.Hour)

	mock.ExpectQuery("SELECT r.id, r.purchase_id, r.amount, r.created_date.+WHERE r.created_date >= ").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(refundColumns).
			AddRow(int64(3), int64(5), 7.0, created, int64(1), "Ahmad", "Saad", "0912345678", int64(2), "Laptop", 1000.0))

	refunds, err := st.FindRefundsBetween(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, int64(5), refunds[0].PurchaseID)
	assert.Equal(t, 7.0, refunds[0].Amount)
}
