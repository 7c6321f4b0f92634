package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

type createRefundRequest struct {
	PurchaseID int64   `json:"purchase_id"`
	Amount     float64 `json:"amount"`
	// CreatedAt is optional (RFC 3339); empty means now.
	CreatedAt string `json:"created_at,omitempty"`
}

type refundResponse struct {
	ID         int64            `json:"id"`
	PurchaseID int64            `json:"purchase_id"`
	Customer   customerResponse `json:"customer"`
	Product    productResponse  `json:"product"`
	Amount     float64          `json:"amount"`
	CreatedAt  string           `json:"created_at"`
}

func toRefundResponse(r store.Refund) refundResponse {
	return refundResponse{
		ID:         r.ID,
		PurchaseID: r.PurchaseID,
		Customer:   toCustomerResponse(r.Customer),
		Product:    toProductResponse(r.Product),
		Amount:     r.Amount,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

// ─── POST /refund ─────────────────────────────────────────────────────────────

// handleCreateRefund creates a refund against an existing purchase. The
// customer and product come from the purchase row, never from the request.
func (s *Server) handleCreateRefund(w http.ResponseWriter, r *http.Request) {
	var req createRefundRequest
	if !decode(w, r, &req) {
		return
	}

	if req.PurchaseID <= 0 {
		respondErr(w, http.StatusBadRequest, "purchase_id is required")
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

	refund, err := s.store.CreateRefund(r.Context(), store.CreateRefundParams{
		PurchaseID: req.PurchaseID,
		Amount:     req.Amount,
		CreatedAt:  createdAt,
	})
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "purchase not found")
		return
	}
	if errors.Is(err, store.ErrRefundExceedsPurchase) {
		respondErr(w, http.StatusBadRequest, "refund amount exceeds purchase amount")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toRefundResponse(refund))
}

// ─── GET /refund ──────────────────────────────────────────────────────────────

func (s *Server) handleListRefunds(w http.ResponseWriter, r *http.Request) {
	refunds, err := s.store.ListRefunds(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	out := make([]refundResponse, len(refunds))
	for i, rf := range refunds {
		out[i] = toRefundResponse(rf)
	}
	respond(w, http.StatusOK, out)
}
