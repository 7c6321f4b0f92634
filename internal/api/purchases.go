package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

type createPurchaseRequest struct {
	CustomerID int64   `json:"customer_id"`
	ProductID  int64   `json:"product_id"`
	Amount     float64 `json:"amount"`
	// CreatedAt is optional (RFC 3339); empty means now. Used by backfills.
	CreatedAt string `json:"created_at,omitempty"`
}

type purchaseResponse struct {
	ID        int64            `json:"id"`
	Customer  customerResponse `json:"customer"`
	Product   productResponse  `json:"product"`
	Amount    float64          `json:"amount"`
	CreatedAt string           `json:"created_at"`
}

func toPurchaseResponse(p store.Purchase) purchaseResponse {
	return purchaseResponse{
		ID:        p.ID,
		Customer:  toCustomerResponse(p.Customer),
		Product:   toProductResponse(p.Product),
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// ─── POST /purchase ───────────────────────────────────────────────────────────

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if !decode(w, r, &req) {
		return
	}

	if req.CustomerID <= 0 {
		respondErr(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.ProductID <= 0 {
		respondErr(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Amount <= 0 {
		respondErr(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	createdAt, ok := parseTimestamp(req.CreatedAt)
	if !ok {
		respondErr(w, http.StatusBadRequest, "created_at must be RFC 3339")
		return
	}

	purchase, err := s.store.CreatePurchase(r.Context(), store.CreatePurchaseParams{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Amount:     req.Amount,
		CreatedAt:  createdAt,
	})
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "customer or product not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toPurchaseResponse(purchase))
}

// ─── GET /purchase ────────────────────────────────────────────────────────────

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.store.ListPurchases(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	out := make([]purchaseResponse, len(purchases))
	for i, p := range purchases {
		out[i] = toPurchaseResponse(p)
	}
	respond(w, http.StatusOK, out)
}
