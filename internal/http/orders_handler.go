package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkhalil/go_storefront/internal/domain"
	"github.com/mkhalil/go_storefront/internal/service"
)

type OrdersHandler struct {
	orders  service.OrderService
	timeout time.Duration
}

func NewOrdersHandler(orders service.OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type AddressDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type CreateOrderRequestDTO struct {
	BasketID         string     `json:"basket_id"`
	DeliveryMethodID int64      `json:"delivery_method_id"`
	ShippingAddress  AddressDTO `json:"shipping_address"`
}

// POST /api/v1/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerEmail := getBuyerEmailFromContext(r.Context())
	if buyerEmail == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.CreateOrder(ctx, buyerEmail, &service.CreateOrderRequest{
		BasketID:         req.BasketID,
		DeliveryMethodID: req.DeliveryMethodID,
		ShippingAddress: domain.Address{
			FirstName: req.ShippingAddress.FirstName,
			LastName:  req.ShippingAddress.LastName,
			Street:    req.ShippingAddress.Street,
			City:      req.ShippingAddress.City,
			Country:   req.ShippingAddress.Country,
		},
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerEmail := getBuyerEmailFromContext(r.Context())
	if buyerEmail == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListOrdersForBuyer(ctx, buyerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = make([]*domain.Order, 0)
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerEmail := getBuyerEmailFromContext(r.Context())
	if buyerEmail == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid uuid")
		return
	}

	order, err := h.orders.GetOrder(ctx, buyerEmail, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/orders/delivery-methods
func (h *OrdersHandler) ListDeliveryMethods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	methods, err := h.orders.ListDeliveryMethods(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if methods == nil {
		methods = make([]*domain.DeliveryMethod, 0)
	}

	respondJSON(w, http.StatusOK, methods)
}
