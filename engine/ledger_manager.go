package engine

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/reform.v1"
)

var (
	ErrNotAllowedTransition = errors.New("not allowed payment status transition")
)

func NewLedgerManager(db *reform.DB) *LedgerManager {
	return &LedgerManager{
		db:     db,
		logger: zap.L().Named("ledger_manager"),
	}
}

// LedgerManager is the persistence side of the ledger: service requests,
// fees, payments, status history and apportionment rows.
type LedgerManager struct {
	db     *reform.DB
	logger *zap.Logger
}

// CreateServiceRequest stores a service request together with its fees.
func (m *LedgerManager) CreateServiceRequest(sr *ServiceRequest, fees []*Fee) error {
	return m.db.InTransaction(func(tx *reform.TX) error {
		if err := tx.Insert(sr); err != nil {
			return errors.Wrap(err, "failed insert service request")
		}
		for _, fee := range fees {
			fee.ServiceRequestID = sr.ServiceRequestID
			if err := tx.Insert(fee); err != nil {
				return errors.Wrap(err, "failed insert fee")
			}
		}
		return nil
	})
}

// FindServiceRequest returns a service request by reference.
//
// Common errors:
// - ErrServiceRequestNotFound - not found
// - other errors
func (m *LedgerManager) FindServiceRequest(reference string) (*ServiceRequest, error) {
	sr := &ServiceRequest{}
	if err := m.db.SelectOneTo(sr, "WHERE reference = $1", reference); err != nil {
		if err == reform.ErrNoRows {
			return nil, ErrServiceRequestNotFound
		}
		return nil, errors.Wrap(err, "failed find service request by reference")
	}
	return sr, nil
}

// Fees returns the fees of a service request in the order they were added.
func (m *LedgerManager) Fees(serviceRequestID int64) ([]*Fee, error) {
	structs, err := m.db.SelectAllFrom(FeeTable, "WHERE service_request_id = $1 ORDER BY fee_id ASC", serviceRequestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed select fees")
	}
	fees := make([]*Fee, len(structs))
	for i, s := range structs {
		fees[i] = s.(*Fee)
	}
	return fees, nil
}

// CreatePayment persists a new payment attempt in the created status.
func (m *LedgerManager) CreatePayment(p *Payment) error {
	if err := m.db.Insert(p); err != nil {
		return errors.Wrap(err, "failed insert payment")
	}
	return nil
}

// SetPaymentStatus moves the payment forward through the status machine and
// appends a status history entry in the same transaction.
//
// Common errors:
// - ErrNotAllowedTransition - transition not in the chart
// - other errors
func (m *LedgerManager) SetPaymentStatus(p *Payment, next PaymentStatus, errCode, errMsg *string) error {
	if !paymentStatusTransitionChart.Allowed(p.Status, next) {
		return ErrNotAllowedTransition
	}
	return m.db.InTransaction(func(tx *reform.TX) error {
		p.Status = next
		p.UpdatedAt = time.Now()
		if err := tx.UpdateColumns(p, "status", "updated_at"); err != nil {
			return errors.Wrap(err, "failed update payment status")
		}
		h := &StatusHistory{
			PaymentID:    p.PaymentID,
			Status:       next,
			ErrorCode:    errCode,
			ErrorMessage: errMsg,
		}
		if err := tx.Insert(h); err != nil {
			return errors.Wrap(err, "failed insert payment status history")
		}
		return nil
	})
}

// FindStaleCreatedPayment returns the most recent payment of the service
// request that is still in the created status on the online channel and was
// created after the since mark. Returns nil when there is none.
func (m *LedgerManager) FindStaleCreatedPayment(serviceRequestID int64, since time.Time) (*Payment, error) {
	p := &Payment{}
	err := m.db.SelectOneTo(p,
		"WHERE service_request_id = $1 AND status = $2 AND channel = $3 AND created_at > $4 ORDER BY created_at DESC",
		serviceRequestID, CREATED_PAY, ONLINE_CHANNEL, since,
	)
	if err != nil {
		if err == reform.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed find stale created payment")
	}
	return p, nil
}

// Apportion allocates the payment across the fees of its service request and
// writes the updated outstanding balances, all in one transaction. A payment
// that already has apportionment rows is left untouched.
func (m *LedgerManager) Apportion(p *Payment) error {
	return m.db.InTransaction(func(tx *reform.TX) error {
		existing, err := tx.SelectAllFrom(FeePayApportionTable, "WHERE payment_id = $1", p.PaymentID)
		if err != nil {
			return errors.Wrap(err, "failed select existing apportions")
		}
		if len(existing) > 0 {
			m.logger.Warn("payment already apportioned, skipping",
				zap.Int64("payment_id", p.PaymentID),
				zap.String("payment_reference", p.Reference),
			)
			return nil
		}

		structs, err := tx.SelectAllFrom(FeeTable, "WHERE service_request_id = $1 ORDER BY fee_id ASC FOR UPDATE", p.ServiceRequestID)
		if err != nil {
			return errors.Wrap(err, "failed select fees for update")
		}
		fees := make([]*Fee, len(structs))
		for i, s := range structs {
			fees[i] = s.(*Fee)
		}

		apportions, err := ApportionPayment(p, fees)
		if err != nil {
			m.logger.Error("failed apportion payment",
				zap.Error(err),
				zap.Int64("payment_id", p.PaymentID),
				zap.Int64("amount", p.Amount),
			)
			return err
		}

		for _, a := range apportions {
			if err := tx.Insert(a); err != nil {
				return errors.Wrap(err, "failed insert apportion")
			}
		}
		for _, fee := range fees {
			fee.UpdatedAt = time.Now()
			if err := tx.UpdateColumns(fee, "amount_due", "updated_at"); err != nil {
				return errors.Wrap(err, "failed update fee amount due")
			}
		}
		return nil
	})
}
