package govpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreatePaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 120_00, req.Amount)
		assert.Equal(t, "RC-1234-5678-9012-3455", req.Reference)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(GovPayPayment{
			PaymentID: "gov-pay-id-1",
			Amount:    req.Amount,
			Reference: req.Reference,
			State:     State{Status: "created"},
			Links: Links{
				NextURL: Link{Href: "https://card.example/next", Method: "GET"},
				Self:    Link{Href: "https://gateway.example/v1/payments/gov-pay-id-1", Method: "GET"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{EntrypointURL: srv.URL, APIKey: "api-key"})
	payment, err := c.Create(context.Background(), CreatePaymentRequest{
		Amount:      120_00,
		Reference:   "RC-1234-5678-9012-3455",
		Description: "Divorce application fee",
		ReturnURL:   "https://service.example/return",
	})
	require.NoError(t, err)

	assert.Equal(t, "gov-pay-id-1", payment.PaymentID)
	assert.Equal(t, "created", payment.State.Status)
	assert.Equal(t, "https://card.example/next", payment.Links.NextURL.Href)
}

func TestCreateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"code":        "P0102",
			"description": "Invalid attribute value: amount",
		})
	}))
	defer srv.Close()

	c := NewClient(Config{EntrypointURL: srv.URL})
	_, err := c.Create(context.Background(), CreatePaymentRequest{Amount: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid attribute value")
	assert.Contains(t, err.Error(), "P0102")
}

func TestCreateRejectedWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{EntrypointURL: srv.URL})
	_, err := c.Create(context.Background(), CreatePaymentRequest{Amount: 1_00})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/gov-pay-id-1/cancel", r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(Config{EntrypointURL: srv.URL, APIKey: "api-key"})
	assert.NoError(t, c.Cancel(context.Background(), "gov-pay-id-1"))
}

func TestCancelRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(Config{EntrypointURL: srv.URL})
	err := c.Cancel(context.Background(), "gov-pay-id-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
}
