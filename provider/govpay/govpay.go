// Package govpay talks to the external card payment gateway. It creates
// gateway-side payment sessions and cancels abandoned ones.
package govpay

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	EntrypointURL string
	APIKey        string
	Timeout       time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
		l: zap.L().Named("govpay_client"),
	}
}

type Client struct {
	cfg    Config
	client *http.Client
	l      *zap.Logger
}

type CreatePaymentRequest struct {
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	ReturnURL   string `json:"return_url"`
	Language    string `json:"language,omitempty"`
}

type State struct {
	Status   string `json:"status"`
	Finished bool   `json:"finished"`
	Message  string `json:"message,omitempty"`
	Code     string `json:"code,omitempty"`
}

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method"`
}

type Links struct {
	NextURL Link `json:"next_url"`
	Cancel  Link `json:"cancel"`
	Refunds Link `json:"refunds"`
	Self    Link `json:"self"`
}

type GovPayPayment struct {
	PaymentID   string `json:"payment_id"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	State       State  `json:"state"`
	Links       Links  `json:"_links"`
}

type govPayError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Create registers a new payment session on the gateway side. The returned
// payment carries the gateway session id and the redirect for card entry.
func (c *Client) Create(ctx context.Context, req CreatePaymentRequest) (*GovPayPayment, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed marshal gateway request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EntrypointURL+"/v1/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		c.l.Warn("create: request failed",
			zap.String("reference", req.Reference),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "failed create gateway payment")
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		c.l.Warn("create: read body", zap.Error(err))
		return nil, errors.Wrap(err, "failed read gateway response")
	}

	if res.StatusCode != http.StatusCreated {
		var gpErr govPayError
		if err := json.Unmarshal(body, &gpErr); err == nil && gpErr.Description != "" {
			return nil, errors.Errorf("gateway rejected payment: %s (%s)", gpErr.Description, gpErr.Code)
		}
		return nil, errors.Errorf("gateway rejected payment: status %d", res.StatusCode)
	}

	var payment GovPayPayment
	if err := json.Unmarshal(body, &payment); err != nil {
		c.l.Warn("create: bad unmarshal response",
			zap.String("body", string(body)),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "failed unmarshal gateway response")
	}
	return &payment, nil
}

// Cancel asks the gateway to cancel an existing payment session.
func (c *Client) Cancel(ctx context.Context, paymentID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EntrypointURL+"/v1/payments/"+paymentID+"/cancel", nil)
	if err != nil {
		return errors.Wrap(err, "failed build gateway cancel request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		c.l.Warn("cancel: request failed",
			zap.String("gateway_payment_id", paymentID),
			zap.Error(err),
		)
		return errors.Wrap(err, "failed cancel gateway payment")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		return errors.Errorf("gateway cancel rejected: status %d", res.StatusCode)
	}
	return nil
}
