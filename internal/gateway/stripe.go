package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultBaseURL = "https://api.stripe.com"

// StripeClient talks to the Stripe payment-intents API. It performs no
// retries; a tripped breaker or failed call surfaces to the caller, and
// recoverability is the caller's problem.
type StripeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Intent]
}

func NewStripeClient(apiKey string) *StripeClient {
	return &StripeClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*Intent](gobreaker.Settings{
			Name: "stripe-payment-intents",
		}),
	}
}

// WithBaseURL points the client at a different API host (used in tests).
func (c *StripeClient) WithBaseURL(baseURL string) *StripeClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *StripeClient) CreateIntent(ctx context.Context, amount int64, currency string, paymentMethodTypes []string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	for _, t := range paymentMethodTypes {
		form.Add("payment_method_types[]", t)
	}

	return c.breaker.Execute(func() (*Intent, error) {
		return c.postForm(ctx, "/v1/payment_intents", form)
	})
}

func (c *StripeClient) UpdateIntent(ctx context.Context, intentID string, amount int64) error {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))

	_, err := c.breaker.Execute(func() (*Intent, error) {
		return c.postForm(ctx, "/v1/payment_intents/"+intentID, form)
	})
	return err
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &Intent{ID: payload.ID, ClientSecret: payload.ClientSecret}, nil
}
