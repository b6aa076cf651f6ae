package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mkhalil/go_storefront/internal/gateway"
	"github.com/mkhalil/go_storefront/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func getBuyerEmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value("buyer_email").(string); ok {
		return email
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value("request_id").(string); ok {
		return requestID
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	var notFound *service.NotFoundError
	var validation *service.ValidationError
	var badRequest *service.BadRequestError

	switch {
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, "validation_failed", validation.Error())
	case errors.As(err, &badRequest):
		respondError(w, http.StatusBadRequest, "bad_request", badRequest.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	case errors.Is(err, gateway.ErrSignatureVerification):
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
