package payments

import (
	"go.uber.org/zap"

	"github.com/hmcts/ccpay-payment-app-sub004/engine"
	"github.com/hmcts/ccpay-payment-app-sub004/provider"
)

const (
	UPDATE_PAYMENT_SUBJECT = "update_payment_subject"
)

type MessageUpdatePayment struct {
	PaymentID        int64
	PaymentReference string
	ServiceRequestID int64
	CcdCaseNumber    string
	Status           engine.PaymentStatus
	Provider         provider.Provider
}

func providerFor(method engine.PaymentMethod) provider.Provider {
	switch method {
	case engine.PBA_METHOD:
		return provider.LIBERATA
	case engine.CARD_METHOD:
		return provider.GOVPAY
	default:
		return provider.UNKNOWN_PROVIDER
	}
}

// publishUpdate notifies downstream consumers about a payment change.
// Delivery is best effort.
func (s *Service) publishUpdate(p *engine.Payment, sr *engine.ServiceRequest) {
	if s.nc == nil {
		return
	}
	err := s.nc.Publish(UPDATE_PAYMENT_SUBJECT, &MessageUpdatePayment{
		PaymentID:        p.PaymentID,
		PaymentReference: p.Reference,
		ServiceRequestID: sr.ServiceRequestID,
		CcdCaseNumber:    sr.CcdCaseNumber,
		Status:           p.Status,
		Provider:         providerFor(p.Method),
	})
	if err != nil {
		s.l.Warn("failed publish payment update",
			zap.Error(err),
			zap.String("payment_reference", p.Reference),
		)
	}
}
