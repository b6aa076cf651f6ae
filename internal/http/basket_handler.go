package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mkhalil/go_storefront/internal/basket"
	"github.com/mkhalil/go_storefront/internal/domain"
)

type BasketHandler struct {
	store   basket.Store
	timeout time.Duration
}

func NewBasketHandler(store basket.Store, timeout time.Duration) *BasketHandler {
	return &BasketHandler{
		store:   store,
		timeout: timeout,
	}
}

type BasketItemDTO struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type UpdateBasketRequestDTO struct {
	Items            []BasketItemDTO `json:"items"`
	DeliveryMethodID *int64          `json:"delivery_method_id,omitempty"`
}

// GET /api/v1/basket/{basket_id}
func (h *BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	basketID := chi.URLParam(r, "basket_id")
	if basketID == "" {
		respondError(w, http.StatusBadRequest, "missing_basket_id", "basket_id is required")
		return
	}

	b, err := h.store.Get(ctx, basketID)
	if errors.Is(err, basket.ErrBasketNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "basket not found")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// POST /api/v1/basket/{basket_id}
func (h *BasketHandler) UpdateBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	basketID := chi.URLParam(r, "basket_id")
	if basketID == "" {
		respondError(w, http.StatusBadRequest, "missing_basket_id", "basket_id is required")
		return
	}

	var req UpdateBasketRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	for _, item := range req.Items {
		if item.ProductID <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
			return
		}
		if item.Quantity <= 0 || item.Quantity > 99 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
			return
		}
	}

	b := &domain.Basket{
		ID:               basketID,
		Items:            make([]domain.BasketItem, 0, len(req.Items)),
		DeliveryMethodID: req.DeliveryMethodID,
	}
	for _, item := range req.Items {
		b.Items = append(b.Items, domain.BasketItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	// A payment intent already attached to the basket survives edits, so a
	// later checkout updates the same intent instead of creating a new one.
	if existing, err := h.store.Get(ctx, basketID); err == nil {
		b.PaymentIntentID = existing.PaymentIntentID
		b.ClientSecret = existing.ClientSecret
	}

	if err := h.store.Set(ctx, b); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// DELETE /api/v1/basket/{basket_id}
func (h *BasketHandler) DeleteBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	basketID := chi.URLParam(r, "basket_id")
	if basketID == "" {
		respondError(w, http.StatusBadRequest, "missing_basket_id", "basket_id is required")
		return
	}

	if err := h.store.Delete(ctx, basketID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
