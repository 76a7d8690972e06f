package engine

import (
	"time"

	"github.com/pkg/errors"
)

//go:generate reform

type PaymentStatus string

func (s PaymentStatus) Match(in PaymentStatus) bool {
	return s == in
}

const (
	CREATED_PAY PaymentStatus = "created"
	PENDING_PAY PaymentStatus = "pending"
	SUCCESS_PAY PaymentStatus = "success"
	FAILED_PAY  PaymentStatus = "failed"
)

type PaymentChannel string

func (c PaymentChannel) Match(in PaymentChannel) bool {
	return c == in
}

const (
	UNKNOWN_CHANNEL   PaymentChannel = ""
	ONLINE_CHANNEL    PaymentChannel = "online"
	TELEPHONY_CHANNEL PaymentChannel = "telephony"
	BULK_SCAN_CHANNEL PaymentChannel = "bulk scan"
)

type PaymentMethod string

func (m PaymentMethod) Match(in PaymentMethod) bool {
	return m == in
}

const (
	UNKNOWN_METHOD PaymentMethod = ""
	CARD_METHOD    PaymentMethod = "card"
	PBA_METHOD     PaymentMethod = "payment by account"
	CHEQUE_METHOD  PaymentMethod = "cheque"
	CASH_METHOD    PaymentMethod = "cash"
)

//reform:payments
type Payment struct {
	PaymentID        int64 `reform:"payment_id,pk"`
	ServiceRequestID int64 `reform:"service_request_id"`

	// Reference is generated once, check-digit protected, globally unique.
	Reference string `reform:"reference"`

	Amount   int64  `reform:"amount"`
	Currency string `reform:"currency"`

	Status  PaymentStatus  `reform:"status"`
	Channel PaymentChannel `reform:"channel"`
	Method  PaymentMethod  `reform:"method"`

	// ExternalReference is the gateway-side session id, if any.
	ExternalReference *string `reform:"external_reference"`

	// NextURL is the gateway redirect for card entry, if any.
	NextURL *string `reform:"next_url"`

	AccountNumber *string `reform:"account_number"`
	CcdCaseNumber string  `reform:"ccd_case_number"`

	UpdatedAt time.Time `reform:"updated_at"`
	CreatedAt time.Time `reform:"created_at"`
}

func (p *Payment) BeforeInsert() error {
	p.UpdatedAt = time.Now()
	p.CreatedAt = time.Now()
	p.Status = CREATED_PAY
	if p.Currency == "" {
		p.Currency = "GBP"
	}
	if p.Method == UNKNOWN_METHOD {
		return errors.New("unknown payment method")
	}
	if p.Channel == UNKNOWN_CHANNEL {
		return errors.New("unknown payment channel")
	}
	return nil
}

func (p *Payment) BeforeUpdate() error {
	p.UpdatedAt = time.Now()
	return nil
}

//reform:payment_status_history
type StatusHistory struct {
	HistoryID int64 `reform:"history_id,pk"`
	PaymentID int64 `reform:"payment_id"`

	Status PaymentStatus `reform:"status"`

	ErrorCode    *string `reform:"error_code"`
	ErrorMessage *string `reform:"error_message"`

	CreatedAt time.Time `reform:"created_at"`
}

func (h *StatusHistory) BeforeInsert() error {
	h.CreatedAt = time.Now()
	return nil
}
