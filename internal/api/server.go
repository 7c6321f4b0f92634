// Package api implements the HTTP layer. Handlers are methods on *Server;
// each handler file covers one resource group and only imports what it uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

// Store is the persistence surface the handlers need. *store.Store satisfies
// it; tests inject an in-memory stub.
type Store interface {
	CreateCustomer(ctx context.Context, c store.Customer) (store.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, c store.Customer) (store.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context) ([]store.Customer, error)

	CreateProduct(ctx context.Context, p store.Product) (store.Product, error)
	UpdateProduct(ctx context.Context, id int64, p store.Product) (store.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]store.Product, error)

	CreatePurchase(ctx context.Context, p store.CreatePurchaseParams) (store.Purchase, error)
	ListPurchases(ctx context.Context) ([]store.Purchase, error)

	CreateRefund(ctx context.Context, p store.CreateRefundParams) (store.Refund, error)
	ListRefunds(ctx context.Context) ([]store.Refund, error)
}

// ReportRunner triggers one on-demand report run. *report.Service satisfies
// it.
type ReportRunner interface {
	Run(ctx context.Context, now time.Time) error
}

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	store   Store
	reports ReportRunner
	cfg     Config
	logger  *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(st Store, reports ReportRunner, cfg Config, logger *slog.Logger) http.Handler {
	s := &Server{
		store:   st,
		reports: reports,
		cfg:     cfg,
		logger:  logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	// Generous timeout: the on-demand report send blocks on the mail
	// transport.
	r.Use(middleware.Timeout(60 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── Customers ─────────────────────────────────────────────────────────────
	r.Route("/customer", func(r chi.Router) {
		r.Post("/", s.handleCreateCustomer)
		r.Get("/", s.handleListCustomers)
		r.Put("/{id}", s.handleUpdateCustomer)
		r.Delete("/{id}", s.handleDeleteCustomer)
	})

	// ── Products ──────────────────────────────────────────────────────────────
	r.Route("/product", func(r chi.Router) {
		r.Post("/", s.handleCreateProduct)
		r.Get("/", s.handleListProducts)
		r.Put("/{id}", s.handleUpdateProduct)
		r.Delete("/{id}", s.handleDeleteProduct)
	})

	// ── Purchases ─────────────────────────────────────────────────────────────
	r.Route("/purchase", func(r chi.Router) {
		r.Post("/", s.handleCreatePurchase)
		r.Get("/", s.handleListPurchases)
	})

	// ── Refunds ───────────────────────────────────────────────────────────────
	r.Route("/refund", func(r chi.Router) {
		r.Post("/", s.handleCreateRefund)
		r.Get("/", s.handleListRefunds)
	})

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Post("/report/send", s.handleSendReport)

	return r
}
