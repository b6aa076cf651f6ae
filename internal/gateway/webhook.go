package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

var ErrSignatureVerification = errors.New("webhook signature verification failed")

// Event is a verified payment-outcome notification. Types other than the two
// payment-intent outcomes are passed through for the caller to ignore.
type Event struct {
	Type     string
	IntentID string
}

// ParseEvent verifies the Stripe-style signature header
// ("t=<unix>,v1=<hex hmac>") against the shared secret and decodes the event
// payload. The signed message is "<timestamp>.<payload>" with HMAC-SHA256.
// A tolerance of zero disables the timestamp check.
func ParseEvent(payload []byte, sigHeader, secret string, tolerance time.Duration) (*Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if tolerance > 0 {
		ts := time.Unix(timestamp, 0)
		if time.Since(ts) > tolerance {
			return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureVerification)
		}
	}

	expected := computeSignature(payload, timestamp, secret)
	verified := false
	for _, sig := range signatures {
		decoded, decodeErr := hex.DecodeString(sig)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrSignatureVerification
	}

	var body struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	return &Event{Type: body.Type, IntentID: body.Data.Object.ID}, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrSignatureVerification)
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, fmt.Errorf("%w: malformed signature header", ErrSignatureVerification)
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrSignatureVerification)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, v)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: incomplete signature header", ErrSignatureVerification)
	}
	return timestamp, signatures, nil
}

func computeSignature(payload []byte, timestamp int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}
