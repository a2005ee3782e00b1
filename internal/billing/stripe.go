package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrProvider = errors.New("billing provider error")

// CheckoutRequest describes a hosted subscription checkout.
type CheckoutRequest struct {
	PriceID       string
	Locale        string
	CustomerEmail string
	ReferenceID   string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the provider's answer: where to send the browser.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Provider starts checkouts. Calls are never retried.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
}

// StripeClient talks to the Stripe REST API.
type StripeClient struct {
	client *resty.Client
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewStripeClient returns a client for baseURL (https://api.stripe.com in production).
func NewStripeClient(baseURL, secretKey string, timeout time.Duration) *StripeClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return &StripeClient{client: c}
}

// CreateCheckout creates a subscription-mode checkout session.
func (s *StripeClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	var out CheckoutSession
	var apiErr stripeError
	form := map[string]string{
		"mode":                    "subscription",
		"line_items[0][price]":    req.PriceID,
		"line_items[0][quantity]": "1",
		"success_url":             req.SuccessURL,
		"cancel_url":              req.CancelURL,
		"client_reference_id":     req.ReferenceID,
	}
	if req.CustomerEmail != "" {
		form["customer_email"] = req.CustomerEmail
	}
	if req.Locale != "" {
		form["locale"] = req.Locale
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if resp.IsError() {
		return CheckoutSession{}, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode(), apiErr.Error.Message)
	}
	if out.ID == "" || out.URL == "" {
		return CheckoutSession{}, fmt.Errorf("%w: incomplete checkout session", ErrProvider)
	}
	return out, nil
}
