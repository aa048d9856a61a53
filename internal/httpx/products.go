package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/totostore/storefront/internal/domain"
	"github.com/totostore/storefront/internal/store"
)

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_products_failed", err.Error())
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns one product by numeric id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_product_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ProductsByCategory filters the catalog by case-insensitive category.
func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.products.ListByCategory(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_products_failed", err.Error())
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// CreateProduct adds a catalog product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	product := productFromRequest(req)
	if err := h.products.Create(r.Context(), product); err != nil {
		writeError(w, http.StatusInternalServerError, "create_product_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct overwrites an existing product. A body id, when present,
// must match the path id.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	if req.ID != 0 && req.ID != id {
		writeError(w, http.StatusBadRequest, "id_mismatch", "body id does not match path id")
		return
	}

	product := productFromRequest(req)
	product.ID = id
	err := h.products.Update(r.Context(), product)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "update_product_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	err := h.products.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete_product_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return 0, false
	}
	return id, true
}

func productFromRequest(req ProductRequest) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Stock:       req.Stock,
	}
}
