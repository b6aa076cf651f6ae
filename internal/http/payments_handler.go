package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mkhalil/go_storefront/internal/service"
)

const maxWebhookBodySize = 64 * 1024

type PaymentsHandler struct {
	payments service.PaymentService
	timeout  time.Duration
}

func NewPaymentsHandler(payments service.PaymentService, timeout time.Duration) *PaymentsHandler {
	return &PaymentsHandler{
		payments: payments,
		timeout:  timeout,
	}
}

// POST /api/v1/payments/{basket_id}
func (h *PaymentsHandler) CreateOrUpdateIntent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getBuyerEmailFromContext(r.Context()) == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	basketID := chi.URLParam(r, "basket_id")
	if basketID == "" {
		respondError(w, http.StatusBadRequest, "missing_basket_id", "basket_id is required")
		return
	}

	b, err := h.payments.CreateOrUpdateIntent(ctx, basketID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// POST /api/v1/payments/webhook
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	err = h.payments.ProcessWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))

	// The gateway retries anything but a 2xx. An event for an intent no order
	// references will never resolve, so it is acknowledged, not retried.
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		log.Printf("acknowledging webhook with no matching order: %v", err)
		respondJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
