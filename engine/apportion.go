package engine

import (
	"time"

	"github.com/pkg/errors"
)

//go:generate reform

var (
	// ErrRemainderNotAllocated means the payment amount exceeded the total
	// amount due across all fees. Balance validation upstream must prevent
	// this; hitting it is a data-integrity fault, never a silent no-op.
	ErrRemainderNotAllocated = errors.New("payment remainder not allocated to any fee")
)

//reform:fee_pay_apportions
type FeePayApportion struct {
	ApportionID int64 `reform:"apportion_id,pk"`

	PaymentID int64 `reform:"payment_id"`
	FeeID     int64 `reform:"fee_id"`

	ApportionAmount int64 `reform:"apportion_amount"`

	// Snapshots taken at apportionment time, for reporting.
	PaymentAmount int64 `reform:"payment_amount"`
	FeeAmount     int64 `reform:"fee_amount"`

	CcdCaseNumber string `reform:"ccd_case_number"`

	CreatedAt time.Time `reform:"created_at"`
}

func (a *FeePayApportion) BeforeInsert() error {
	a.CreatedAt = time.Now()
	return nil
}

// ApportionPayment allocates the payment amount across the fees first-fit,
// in fee list order. Each touched fee's AmountDue is decremented in place
// and one FeePayApportion row is produced per fee that receives funds.
//
// Amounts are exact integer pence, so no rounding occurs.
//
// Common errors:
// - ErrRemainderNotAllocated - amount left over after all fees exhausted
// - ErrInvalidFeeState - a fee balance would leave [0, CalculatedAmount]
func ApportionPayment(payment *Payment, fees []*Fee) ([]*FeePayApportion, error) {
	remaining := payment.Amount
	apportions := make([]*FeePayApportion, 0, len(fees))

	for _, fee := range fees {
		if remaining <= 0 {
			break
		}
		portion := remaining
		if fee.AmountDue < portion {
			portion = fee.AmountDue
		}
		if portion <= 0 {
			continue
		}
		if err := fee.SetAmountDue(fee.AmountDue - portion); err != nil {
			return nil, err
		}
		apportions = append(apportions, &FeePayApportion{
			PaymentID:       payment.PaymentID,
			FeeID:           fee.FeeID,
			ApportionAmount: portion,
			PaymentAmount:   payment.Amount,
			FeeAmount:       fee.CalculatedAmount,
			CcdCaseNumber:   fee.CcdCaseNumber,
		})
		remaining -= portion
	}

	if remaining > 0 {
		return nil, ErrRemainderNotAllocated
	}

	return apportions, nil
}
