// Package stripe implements the payment gateway port against the Stripe
// HTTP API. Only the payment-intents surface is covered; webhooks and
// refunds live elsewhere.
package stripe

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// Compile-time check: Client implements domain.PaymentGateway.
var _ domain.PaymentGateway = (*Client)(nil)

const defaultBaseURL = "https://api.stripe.com"

// intentResponse is the subset of Stripe's payment-intent object we read.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// errorResponse is Stripe's error envelope.
type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Stripe API with the account's secret key.
type Client struct {
	httpClient *resty.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host. Used for tests
// and for Stripe's mock server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.httpClient.SetBaseURL(baseURL)
	}
}

// New creates a client authenticated with the given secret key.
func New(secretKey string, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetAuthToken(secretKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")

	c := &Client{httpClient: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateIntent creates a payment intent for the given amount in minor
// currency units. Metadata keys are forwarded so the intent can be traced
// back to the booking from the Stripe dashboard.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (domain.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var (
		out  intentResponse
		apiE errorResponse
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(form.Encode()).
		SetResult(&out).
		SetError(&apiE).
		Post("/v1/payment_intents")
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("calling stripe: %w", err)
	}
	if resp.IsError() {
		return domain.PaymentIntent{}, fmt.Errorf("stripe returned %d: %s", resp.StatusCode(), apiE.Error.Message)
	}

	return toIntent(out), nil
}

// RetrieveIntent fetches the current state of a payment intent. This is
// the authoritative check for whether the intent settled.
func (c *Client) RetrieveIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	var (
		out  intentResponse
		apiE errorResponse
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiE).
		Get("/v1/payment_intents/" + url.PathEscape(id))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("calling stripe: %w", err)
	}
	if resp.IsError() {
		return domain.PaymentIntent{}, fmt.Errorf("stripe returned %d: %s", resp.StatusCode(), apiE.Error.Message)
	}

	return toIntent(out), nil
}

func toIntent(in intentResponse) domain.PaymentIntent {
	return domain.PaymentIntent{
		ID:           in.ID,
		ClientSecret: in.ClientSecret,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Status:       domain.IntentStatus(in.Status),
	}
}
