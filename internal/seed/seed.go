// Package seed inserts a small sample data set for development: two
// customers, two products, two purchases dated yesterday and one refund
// against the first purchase, enough for the daily report to have content on
// the first run. Gated behind SEED_DATA; never enabled in production.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

// Run seeds the database. It always inserts fresh rows; rerunning adds
// another sample set, which is fine for a development database.
func Run(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	customers := []store.Customer{
		{FirstName: "Ahmad", LastName: "Saad", Phone: "0912345678"},
		{FirstName: "Hani", LastName: "Saad", Phone: "0912345999"},
	}
	for i, c := range customers {
		created, err := st.CreateCustomer(ctx, c)
		if err != nil {
			return fmt.Errorf("seed: customer %q: %w", c.FirstName, err)
		}
		customers[i] = created
	}

	products := []store.Product{
		{Name: "Laptop", Price: 1000.00},
		{Name: "Phone", Price: 599.50},
	}
	for i, p := range products {
		created, err := st.CreateProduct(ctx, p)
		if err != nil {
			return fmt.Errorf("seed: product %q: %w", p.Name, err)
		}
		products[i] = created
	}

	// Date the purchases yesterday so they land inside the next report window.
	yesterday := time.Now().AddDate(0, 0, -1)

	purchases := []store.CreatePurchaseParams{
		{CustomerID: customers[0].ID, ProductID: products[0].ID, Amount: 10.00, CreatedAt: yesterday},
		{CustomerID: customers[1].ID, ProductID: products[1].ID, Amount: 15.00, CreatedAt: yesterday},
	}
	var firstPurchase store.Purchase
	for i, p := range purchases {
		created, err := st.CreatePurchase(ctx, p)
		if err != nil {
			return fmt.Errorf("seed: purchase %d: %w", i+1, err)
		}
		if i == 0 {
			firstPurchase = created
		}
	}

	_, err := st.CreateRefund(ctx, store.CreateRefundParams{
		PurchaseID: firstPurchase.ID,
		Amount:     7.00,
		CreatedAt:  yesterday,
	})
	if err != nil {
		return fmt.Errorf("seed: refund: %w", err)
	}

	logger.Info("seed: sample data inserted",
		"customers", len(customers),
		"products", len(products),
		"purchases", len(purchases),
		"refunds", 1,
	)
	return nil
}
