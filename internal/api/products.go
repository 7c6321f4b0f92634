package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

type productRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (req *productRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Price <= 0 {
		return "price must be positive"
	}
	return ""
}

type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func toProductResponse(p store.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Price: p.Price}
}

// ─── POST /product ────────────────────────────────────────────────────────────

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	product, err := s.store.CreateProduct(r.Context(), store.Product{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toProductResponse(product))
}

// ─── PUT /product/{id} ────────────────────────────────────────────────────────

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	product, err := s.store.UpdateProduct(r.Context(), id, store.Product{
		Name:  req.Name,
		Price: req.Price,
	})
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, toProductResponse(product))
}

// ─── DELETE /product/{id} ─────────────────────────────────────────────────────

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid product id")
		return
	}

	err := s.store.DeleteProduct(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ─── GET /product ─────────────────────────────────────────────────────────────

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respond(w, http.StatusOK, out)
}
