package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

type customerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// validate trims and checks the required name fields, returning a message for
// the first problem found.
func (req *customerRequest) validate() string {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" {
		return "first_name is required"
	}
	if req.LastName == "" {
		return "last_name is required"
	}
	return ""
}

type customerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func toCustomerResponse(c store.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}

// ─── POST /customer ───────────────────────────────────────────────────────────

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	customer, err := s.store.CreateCustomer(r.Context(), store.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toCustomerResponse(customer))
}

// ─── PUT /customer/{id} ───────────────────────────────────────────────────────

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req customerRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	customer, err := s.store.UpdateCustomer(r.Context(), id, store.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, toCustomerResponse(customer))
}

// ─── DELETE /customer/{id} ────────────────────────────────────────────────────

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	err := s.store.DeleteCustomer(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ─── GET /customer ────────────────────────────────────────────────────────────

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	respond(w, http.StatusOK, out)
}
