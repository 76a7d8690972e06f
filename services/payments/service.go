// Package payments orchestrates payment submissions against a service
// request: business validation, the external credit-account check or card
// gateway call, apportionment and balance updates.
package payments

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hmcts/ccpay-payment-app-sub004/engine"
	"github.com/hmcts/ccpay-payment-app-sub004/idempotency"
	"github.com/hmcts/ccpay-payment-app-sub004/provider/govpay"
	"github.com/hmcts/ccpay-payment-app-sub004/provider/liberata"
)

var (
	// The two wordings are distinct on purpose: the credit-account path
	// reports against the order balance, the online card path against the
	// serviceRequest balance.
	ErrAmountMismatchOrder          = errors.New("the payment amount must be equal to the order balance")
	ErrAmountMismatchServiceRequest = errors.New("the payment amount must be equal to the serviceRequest balance")

	ErrNoAmountDue = errors.New("no amount due, the fees are already paid")

	// ErrPaymentInProgress means a submission with the same idempotency key
	// and payload is still in flight ("too early").
	ErrPaymentInProgress = errors.New("payment for this idempotency key is already in progress")

	// ErrTooManyRequests means the outcome was computed but the idempotency
	// completion could not be recorded.
	ErrTooManyRequests = errors.New("too many requests, failed to record idempotency completion")
)

// Ledger is the persistence boundary of the orchestrator. *engine.LedgerManager
// is the production implementation.
type Ledger interface {
	CreateServiceRequest(sr *engine.ServiceRequest, fees []*engine.Fee) error
	FindServiceRequest(reference string) (*engine.ServiceRequest, error)
	Fees(serviceRequestID int64) ([]*engine.Fee, error)
	CreatePayment(p *engine.Payment) error
	SetPaymentStatus(p *engine.Payment, next engine.PaymentStatus, errCode, errMsg *string) error
	FindStaleCreatedPayment(serviceRequestID int64, since time.Time) (*engine.Payment, error)
	Apportion(p *engine.Payment) error
}

// AccountClient is the external credit-account balance service boundary.
type AccountClient interface {
	Retrieve(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error)
}

// GatewayClient is the external card gateway boundary.
type GatewayClient interface {
	Create(ctx context.Context, req govpay.CreatePaymentRequest) (*govpay.GovPayPayment, error)
	Cancel(ctx context.Context, paymentID string) error
}

type Config struct {
	// ApportionEnabled gates the apportionment engine for staged rollout.
	// When off, apportionment and amount-due updates are skipped entirely.
	ApportionEnabled bool

	// LegacyServices are enterprise service names under the legacy account
	// configuration: their credit-account payments go to pending without an
	// external balance check.
	LegacyServices []string

	// StaleSessionAge is how far back to look for abandoned created
	// gateway sessions to cancel. Default 90 minutes.
	StaleSessionAge time.Duration
}

func NewService(ledger Ledger, guard *idempotency.Guard, accounts AccountClient, gateway GatewayClient, nc *nats.EncodedConn, cfg Config) *Service {
	if cfg.StaleSessionAge == 0 {
		cfg.StaleSessionAge = 90 * time.Minute
	}
	legacy := make(map[string]bool, len(cfg.LegacyServices))
	for _, name := range cfg.LegacyServices {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		legacy[name] = true
	}
	return &Service{
		ledger:   ledger,
		guard:    guard,
		accounts: accounts,
		gateway:  gateway,
		nc:       nc,
		cfg:      cfg,
		legacy:   legacy,
		l:        zap.L().Named("payments_service"),
	}
}

type Service struct {
	ledger   Ledger
	guard    *idempotency.Guard
	accounts AccountClient
	gateway  GatewayClient
	nc       *nats.EncodedConn
	cfg      Config
	legacy   map[string]bool
	l        *zap.Logger
}

type CreditAccountPaymentRequest struct {
	ServiceRequestReference string `json:"service_request_reference"`
	Amount                  int64  `json:"amount"`
	Currency                string `json:"currency"`
	AccountNumber           string `json:"account_number"`
	OrganisationName        string `json:"organisation_name"`
	CustomerReference       string `json:"customer_reference"`

	IdempotencyKey string `json:"-"`
}

type PaymentResult struct {
	PaymentReference string               `json:"payment_reference"`
	Status           engine.PaymentStatus `json:"status"`
	DateCreated      time.Time            `json:"date_created"`
	ErrorCode        string               `json:"error_code,omitempty"`
	ErrorMessage     string               `json:"error_message,omitempty"`
}

type OnlineCardPaymentRequest struct {
	ServiceRequestReference string `json:"service_request_reference"`
	Amount                  int64  `json:"amount"`
	Currency                string `json:"currency"`
	Language                string `json:"language"`
	ReturnURL               string `json:"return_url"`
	Description             string `json:"description"`

	IdempotencyKey string `json:"-"`
}

type OnlineCardPaymentResult struct {
	PaymentReference  string               `json:"payment_reference"`
	ExternalReference string               `json:"external_reference"`
	NextURL           string               `json:"next_url"`
	Status            engine.PaymentStatus `json:"status"`
	DateCreated       time.Time            `json:"date_created"`
}

// CreditAccountPayment submits a payment drawn on a pre-funded credit
// account against the referenced service request.
func (s *Service) CreditAccountPayment(ctx context.Context, req CreditAccountPaymentRequest) (*PaymentResult, error) {
	if req.IdempotencyKey == "" {
		res, _, err := s.creditAccountPayment(ctx, req)
		return res, err
	}
	var res *PaymentResult
	replay, err := s.idempotent(req.IdempotencyKey, req, func() (interface{}, int32, error) {
		var code int32
		var execErr error
		res, code, execErr = s.creditAccountPayment(ctx, req)
		if res == nil {
			return nil, code, execErr
		}
		return res, code, execErr
	})
	if replay != nil {
		var cached PaymentResult
		if uerr := unmarshalCached(replay, &cached); uerr != nil {
			return nil, uerr
		}
		return &cached, nil
	}
	return res, err
}

// OnlineCardPayment creates a card payment session on the external gateway
// for the referenced service request.
func (s *Service) OnlineCardPayment(ctx context.Context, req OnlineCardPaymentRequest) (*OnlineCardPaymentResult, error) {
	if req.IdempotencyKey == "" {
		res, _, err := s.onlineCardPayment(ctx, req)
		return res, err
	}
	var res *OnlineCardPaymentResult
	replay, err := s.idempotent(req.IdempotencyKey, req, func() (interface{}, int32, error) {
		var code int32
		var execErr error
		res, code, execErr = s.onlineCardPayment(ctx, req)
		if res == nil {
			return nil, code, execErr
		}
		return res, code, execErr
	})
	if replay != nil {
		var cached OnlineCardPaymentResult
		if uerr := unmarshalCached(replay, &cached); uerr != nil {
			return nil, uerr
		}
		return &cached, nil
	}
	return res, err
}

func (s *Service) creditAccountPayment(ctx context.Context, req CreditAccountPaymentRequest) (*PaymentResult, int32, error) {
	sr, err := s.ledger.FindServiceRequest(req.ServiceRequestReference)
	if err != nil {
		if err == engine.ErrServiceRequestNotFound {
			return nil, http.StatusNotFound, err
		}
		return nil, http.StatusInternalServerError, err
	}
	fees, err := s.ledger.Fees(sr.ServiceRequestID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	// Validation happens before any payment row exists: these failures
	// persist nothing.
	if engine.TotalCalculated(fees) != req.Amount {
		return nil, http.StatusPreconditionFailed, ErrAmountMismatchOrder
	}
	if engine.TotalDue(fees) <= 0 {
		return nil, http.StatusPreconditionFailed, ErrNoAmountDue
	}

	accountNumber := req.AccountNumber
	p := &engine.Payment{
		ServiceRequestID: sr.ServiceRequestID,
		Reference:        engine.NewPaymentReference(),
		Amount:           req.Amount,
		Currency:         req.Currency,
		Channel:          engine.ONLINE_CHANNEL,
		Method:           engine.PBA_METHOD,
		AccountNumber:    &accountNumber,
		CcdCaseNumber:    sr.CcdCaseNumber,
	}
	if err := s.ledger.CreatePayment(p); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	paymentsCreatedTotal.WithLabelValues(string(engine.PBA_METHOD)).Inc()

	var status engine.PaymentStatus
	var errCode, errMsg *string

	if s.legacy[strings.TrimSpace(strings.ToLower(sr.EnterpriseServiceName))] {
		// Legacy account configuration defers the real status.
		status = engine.PENDING_PAY
	} else {
		details, err := s.accounts.Retrieve(ctx, req.AccountNumber)
		if err != nil {
			// Record the classified failure on the payment before
			// rethrowing, so the attempt stays durably visible.
			msg := err.Error()
			if serr := s.ledger.SetPaymentStatus(p, engine.FAILED_PAY, nil, &msg); serr != nil {
				s.l.Error("failed record account check failure",
					zap.Error(serr),
					zap.String("payment_reference", p.Reference),
				)
			}
			paymentsStatusTotal.WithLabelValues(string(engine.PBA_METHOD), string(engine.FAILED_PAY)).Inc()
			s.publishUpdate(p, sr)
			switch err {
			case liberata.ErrAccountNotFound:
				return nil, http.StatusNotFound, err
			case liberata.ErrAccountTimeout:
				return nil, http.StatusGatewayTimeout, err
			default:
				return nil, http.StatusInternalServerError, err
			}
		}
		var code, msg string
		status, code, msg = liberata.MapAccountStatus(req.Amount, details)
		if code != "" {
			errCode, errMsg = &code, &msg
		}
	}

	if err := s.ledger.SetPaymentStatus(p, status, errCode, errMsg); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	paymentsStatusTotal.WithLabelValues(string(engine.PBA_METHOD), string(status)).Inc()
	s.publishUpdate(p, sr)

	if status.Match(engine.FAILED_PAY) {
		// No apportionment for a failed payment.
		return resultFrom(p, errCode, errMsg), http.StatusPaymentRequired, nil
	}

	if s.cfg.ApportionEnabled {
		if err := s.ledger.Apportion(p); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		apportionsTotal.Inc()
	}

	return resultFrom(p, nil, nil), http.StatusCreated, nil
}

func (s *Service) onlineCardPayment(ctx context.Context, req OnlineCardPaymentRequest) (*OnlineCardPaymentResult, int32, error) {
	sr, err := s.ledger.FindServiceRequest(req.ServiceRequestReference)
	if err != nil {
		if err == engine.ErrServiceRequestNotFound {
			return nil, http.StatusNotFound, err
		}
		return nil, http.StatusInternalServerError, err
	}
	fees, err := s.ledger.Fees(sr.ServiceRequestID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if engine.TotalCalculated(fees) != req.Amount {
		return nil, http.StatusPreconditionFailed, ErrAmountMismatchServiceRequest
	}
	if engine.TotalDue(fees) <= 0 {
		return nil, http.StatusPreconditionFailed, ErrNoAmountDue
	}

	// Cancel an abandoned gateway session from a recent retry, best effort:
	// its failure must not block the new payment.
	since := time.Now().Add(-s.cfg.StaleSessionAge)
	stale, err := s.ledger.FindStaleCreatedPayment(sr.ServiceRequestID, since)
	if err != nil {
		s.l.Warn("failed find stale gateway session",
			zap.Error(err),
			zap.String("service_request_reference", sr.Reference),
		)
	}
	if stale != nil && stale.ExternalReference != nil {
		if err := s.gateway.Cancel(ctx, *stale.ExternalReference); err != nil {
			s.l.Warn("failed cancel stale gateway session",
				zap.Error(err),
				zap.String("gateway_payment_id", *stale.ExternalReference),
			)
		}
	}

	reference := engine.NewPaymentReference()
	gp, err := s.gateway.Create(ctx, govpay.CreatePaymentRequest{
		Amount:      req.Amount,
		Reference:   reference,
		Description: req.Description,
		ReturnURL:   req.ReturnURL,
		Language:    req.Language,
	})
	if err != nil {
		// Gateway errors are not classified here, fatal for this request.
		return nil, http.StatusInternalServerError, err
	}

	externalReference := gp.PaymentID
	nextURL := gp.Links.NextURL.Href
	p := &engine.Payment{
		ServiceRequestID:  sr.ServiceRequestID,
		Reference:         reference,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Channel:           engine.ONLINE_CHANNEL,
		Method:            engine.CARD_METHOD,
		ExternalReference: &externalReference,
		NextURL:           &nextURL,
		CcdCaseNumber:     sr.CcdCaseNumber,
	}
	if err := s.ledger.CreatePayment(p); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	paymentsCreatedTotal.WithLabelValues(string(engine.CARD_METHOD)).Inc()

	if s.cfg.ApportionEnabled {
		// The online path apportions at session-creation time, not at
		// gateway-confirmed success.
		if err := s.ledger.Apportion(p); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		apportionsTotal.Inc()
	}

	s.publishUpdate(p, sr)

	return &OnlineCardPaymentResult{
		PaymentReference:  p.Reference,
		ExternalReference: externalReference,
		NextURL:           nextURL,
		Status:            p.Status,
		DateCreated:       p.CreatedAt,
	}, http.StatusCreated, nil
}

type ServiceRequestFee struct {
	Code             string `json:"code"`
	Version          string `json:"version"`
	CalculatedAmount int64  `json:"calculated_amount"`
	Volume           int32  `json:"volume"`
}

type CreateServiceRequestRequest struct {
	Reference             string              `json:"reference"`
	CcdCaseNumber         string              `json:"ccd_case_number"`
	CaseReference         string              `json:"case_reference"`
	OrgID                 string              `json:"org_id"`
	EnterpriseServiceName string              `json:"enterprise_service_name"`
	Fees                  []ServiceRequestFee `json:"fees"`
}

// CreateServiceRequest stores a new service request with its fees. Fees are
// immutable afterward except for the outstanding balance.
func (s *Service) CreateServiceRequest(req CreateServiceRequestRequest) (*engine.ServiceRequest, error) {
	if len(req.Fees) == 0 {
		return nil, errors.New("service request without fees")
	}
	sr := &engine.ServiceRequest{
		Reference:             req.Reference,
		CcdCaseNumber:         req.CcdCaseNumber,
		CaseReference:         req.CaseReference,
		OrgID:                 req.OrgID,
		EnterpriseServiceName: req.EnterpriseServiceName,
	}
	fees := make([]*engine.Fee, 0, len(req.Fees))
	for _, f := range req.Fees {
		fees = append(fees, &engine.Fee{
			Code:             f.Code,
			Version:          f.Version,
			CalculatedAmount: f.CalculatedAmount,
			Volume:           f.Volume,
			CcdCaseNumber:    req.CcdCaseNumber,
		})
	}
	if err := s.ledger.CreateServiceRequest(sr, fees); err != nil {
		return nil, err
	}
	return sr, nil
}

func resultFrom(p *engine.Payment, errCode, errMsg *string) *PaymentResult {
	res := &PaymentResult{
		PaymentReference: p.Reference,
		Status:           p.Status,
		DateCreated:      p.CreatedAt,
	}
	if errCode != nil {
		res.ErrorCode = *errCode
	}
	if errMsg != nil {
		res.ErrorMessage = *errMsg
	}
	return res
}
