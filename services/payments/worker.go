package payments

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	CREATE_SERVICE_REQUEST_SUBJECT = "create_service_request_subject"
	SUBMIT_CREDIT_ACCOUNT_SUBJECT  = "submit_credit_account_subject"
	SUBMIT_CARD_SUBJECT            = "submit_card_subject"

	workerQueue   = "payments"
	submitTimeout = 30 * time.Second
)

// SubmitCreditAccountPayment is the queue message for a PBA submission.
type SubmitCreditAccountPayment struct {
	IdempotencyKey string
	Request        CreditAccountPaymentRequest
}

// SubmitCardPayment is the queue message for an online card submission.
type SubmitCardPayment struct {
	IdempotencyKey string
	Request        OnlineCardPaymentRequest
}

// SubToNATS subscribes the orchestrator to the submission subjects. Outcomes
// land in the ledger and on the update subject; queue consumers do not reply.
func SubToNATS(nc *nats.EncodedConn, s *Service) error {
	l := zap.L().Named("payments_worker")

	_, err := nc.QueueSubscribe(CREATE_SERVICE_REQUEST_SUBJECT, workerQueue, func(m *CreateServiceRequestRequest) {
		if _, err := s.CreateServiceRequest(*m); err != nil {
			l.Warn("failed create service request",
				zap.Error(err),
				zap.String("reference", m.Reference),
			)
		}
	})
	if err != nil {
		return err
	}

	_, err = nc.QueueSubscribe(SUBMIT_CREDIT_ACCOUNT_SUBJECT, workerQueue, func(m *SubmitCreditAccountPayment) {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		req := m.Request
		req.IdempotencyKey = m.IdempotencyKey
		if _, err := s.CreditAccountPayment(ctx, req); err != nil {
			l.Warn("failed credit account submission",
				zap.Error(err),
				zap.String("service_request_reference", req.ServiceRequestReference),
			)
		}
	})
	if err != nil {
		return err
	}

	_, err = nc.QueueSubscribe(SUBMIT_CARD_SUBJECT, workerQueue, func(m *SubmitCardPayment) {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		req := m.Request
		req.IdempotencyKey = m.IdempotencyKey
		if _, err := s.OnlineCardPayment(ctx, req); err != nil {
			l.Warn("failed card submission",
				zap.Error(err),
				zap.String("service_request_reference", req.ServiceRequestReference),
			)
		}
	})
	return err
}
