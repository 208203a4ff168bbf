// Package payments talks to the external payment processor's
// payment-intent API. The backend never sees raw card data; callers
// supply a payment method token issued by the processor's client-side
// tokenization flow.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable wraps transport failures reaching the processor, as
// opposed to rejections the processor itself reported. Callers match it
// with errors.Is.
var ErrUnavailable = errors.New("payment processor unavailable")

// Error is a rejection reported by the processor itself, as opposed to
// a transport failure reaching it. The message is safe to surface to
// the caller.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("processor: %s (%s)", e.Message, e.Code)
	}
	return "processor: " + e.Message
}

// IntentRequest describes one authorization attempt.
type IntentRequest struct {
	AmountCents   int64
	Currency      string
	PaymentMethod string
	Metadata      map[string]string
}

// Intent is the processor's answer. ClientSecret is the continuation
// token the customer's client needs to finalize the payment.
type Intent struct {
	ID           string
	ClientSecret string
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type intentPayload struct {
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	PaymentMethod      string            `json:"payment_method,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateIntent submits an authorization request. The context bounds the
// whole round trip; a hung processor fails the attempt instead of the
// request hanging open.
func (c *Client) CreateIntent(ctx context.Context, in IntentRequest) (*Intent, error) {
	payload := intentPayload{
		Amount:             in.AmountCents,
		Currency:           in.Currency,
		PaymentMethodTypes: []string{"card"},
		PaymentMethod:      in.PaymentMethod,
		Metadata:           in.Metadata,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	var out intentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: parsing response (status %d): %v", ErrUnavailable, resp.StatusCode, err)
	}

	if out.Error != nil {
		return nil, &Error{Code: out.Error.Code, Message: out.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	if out.ClientSecret == "" {
		return nil, &Error{Message: "processor returned empty client secret"}
	}

	return &Intent{ID: out.ID, ClientSecret: out.ClientSecret}, nil
}
