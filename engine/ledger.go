package engine

import (
	"time"

	"github.com/pkg/errors"
)

//go:generate reform

var (
	ErrInvalidFeeState        = errors.New("fee amount due out of bounds")
	ErrServiceRequestNotFound = errors.New("service request not found")
)

// All money values are integer pence. Request/response layers convert
// from 2-decimal fixed point at the boundary; inside the engine every
// amount is exact.

//reform:service_requests
type ServiceRequest struct {
	ServiceRequestID int64 `reform:"service_request_id,pk"`

	// Reference is assigned once at creation and never changes.
	Reference string `reform:"reference"`

	CcdCaseNumber         string `reform:"ccd_case_number"`
	CaseReference         string `reform:"case_reference"`
	OrgID                 string `reform:"org_id"`
	EnterpriseServiceName string `reform:"enterprise_service_name"`

	CreatedAt time.Time `reform:"created_at"`
}

func (s *ServiceRequest) BeforeInsert() error {
	s.CreatedAt = time.Now()
	if s.Reference == "" {
		return errors.New("service request without reference")
	}
	return nil
}

//reform:fees
type Fee struct {
	FeeID            int64 `reform:"fee_id,pk"`
	ServiceRequestID int64 `reform:"service_request_id"`

	Code    string `reform:"code"`
	Version string `reform:"version"`

	CalculatedAmount int64 `reform:"calculated_amount"`
	Volume           int32 `reform:"volume"`

	// AmountDue starts at CalculatedAmount and only ever decreases.
	AmountDue int64 `reform:"amount_due"`

	CcdCaseNumber string `reform:"ccd_case_number"`

	UpdatedAt time.Time `reform:"updated_at"`
	CreatedAt time.Time `reform:"created_at"`
}

func (f *Fee) BeforeInsert() error {
	f.UpdatedAt = time.Now()
	f.CreatedAt = time.Now()
	if f.Volume < 1 {
		return errors.New("fee volume must be positive")
	}
	if f.CalculatedAmount < 0 {
		return ErrInvalidFeeState
	}
	f.AmountDue = f.CalculatedAmount
	return nil
}

func (f *Fee) BeforeUpdate() error {
	f.UpdatedAt = time.Now()
	return nil
}

// SetAmountDue mutates the outstanding balance of the fee.
//
// Common errors:
// - ErrInvalidFeeState - value outside [0, CalculatedAmount] or increasing
func (f *Fee) SetAmountDue(v int64) error {
	if v < 0 || v > f.CalculatedAmount {
		return ErrInvalidFeeState
	}
	if v > f.AmountDue {
		return ErrInvalidFeeState
	}
	f.AmountDue = v
	return nil
}

// TotalCalculated returns the sum of the fees' calculated amounts.
func TotalCalculated(fees []*Fee) int64 {
	var total int64
	for _, f := range fees {
		total += f.CalculatedAmount
	}
	return total
}

// TotalDue returns the sum of the fees' outstanding balances.
func TotalDue(fees []*Fee) int64 {
	var total int64
	for _, f := range fees {
		total += f.AmountDue
	}
	return total
}
