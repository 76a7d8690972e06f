package payments

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/ccpay-payment-app-sub004/engine"
	"github.com/hmcts/ccpay-payment-app-sub004/idempotency"
	"github.com/hmcts/ccpay-payment-app-sub004/provider/govpay"
	"github.com/hmcts/ccpay-payment-app-sub004/provider/liberata"
)

type memLedger struct {
	srs        map[string]*engine.ServiceRequest
	fees       map[int64][]*engine.Fee
	payments   []*engine.Payment
	history    []*engine.StatusHistory
	apportions map[int64][]*engine.FeePayApportion

	nextID int64
}

func newMemLedger() *memLedger {
	return &memLedger{
		srs:        make(map[string]*engine.ServiceRequest),
		fees:       make(map[int64][]*engine.Fee),
		apportions: make(map[int64][]*engine.FeePayApportion),
	}
}

func (m *memLedger) addServiceRequest(reference, enterpriseService string, calculated ...int64) *engine.ServiceRequest {
	m.nextID++
	sr := &engine.ServiceRequest{
		ServiceRequestID:      m.nextID,
		Reference:             reference,
		CcdCaseNumber:         "1111222233334444",
		EnterpriseServiceName: enterpriseService,
		CreatedAt:             time.Now(),
	}
	m.srs[reference] = sr
	for _, amount := range calculated {
		m.nextID++
		m.fees[sr.ServiceRequestID] = append(m.fees[sr.ServiceRequestID], &engine.Fee{
			FeeID:            m.nextID,
			ServiceRequestID: sr.ServiceRequestID,
			Code:             "FEE0001",
			Version:          "1",
			CalculatedAmount: amount,
			Volume:           1,
			AmountDue:        amount,
			CcdCaseNumber:    sr.CcdCaseNumber,
		})
	}
	return sr
}

func (m *memLedger) CreateServiceRequest(sr *engine.ServiceRequest, fees []*engine.Fee) error {
	if err := sr.BeforeInsert(); err != nil {
		return err
	}
	m.nextID++
	sr.ServiceRequestID = m.nextID
	m.srs[sr.Reference] = sr
	for _, fee := range fees {
		if err := fee.BeforeInsert(); err != nil {
			return err
		}
		m.nextID++
		fee.FeeID = m.nextID
		fee.ServiceRequestID = sr.ServiceRequestID
		m.fees[sr.ServiceRequestID] = append(m.fees[sr.ServiceRequestID], fee)
	}
	return nil
}

func (m *memLedger) FindServiceRequest(reference string) (*engine.ServiceRequest, error) {
	sr, ok := m.srs[reference]
	if !ok {
		return nil, engine.ErrServiceRequestNotFound
	}
	return sr, nil
}

func (m *memLedger) Fees(serviceRequestID int64) ([]*engine.Fee, error) {
	return m.fees[serviceRequestID], nil
}

func (m *memLedger) CreatePayment(p *engine.Payment) error {
	if err := p.BeforeInsert(); err != nil {
		return err
	}
	m.nextID++
	p.PaymentID = m.nextID
	m.payments = append(m.payments, p)
	return nil
}

func (m *memLedger) SetPaymentStatus(p *engine.Payment, next engine.PaymentStatus, errCode, errMsg *string) error {
	p.Status = next
	m.history = append(m.history, &engine.StatusHistory{
		PaymentID:    p.PaymentID,
		Status:       next,
		ErrorCode:    errCode,
		ErrorMessage: errMsg,
		CreatedAt:    time.Now(),
	})
	return nil
}

func (m *memLedger) FindStaleCreatedPayment(serviceRequestID int64, since time.Time) (*engine.Payment, error) {
	for _, p := range m.payments {
		if p.ServiceRequestID != serviceRequestID {
			continue
		}
		if !p.Status.Match(engine.CREATED_PAY) || !p.Channel.Match(engine.ONLINE_CHANNEL) {
			continue
		}
		if p.CreatedAt.After(since) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memLedger) Apportion(p *engine.Payment) error {
	if len(m.apportions[p.PaymentID]) > 0 {
		return nil
	}
	rows, err := engine.ApportionPayment(p, m.fees[p.ServiceRequestID])
	if err != nil {
		return err
	}
	m.apportions[p.PaymentID] = rows
	return nil
}

type stubAccounts struct {
	fn func(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error)

	calls int
}

func (s *stubAccounts) Retrieve(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error) {
	s.calls++
	return s.fn(ctx, accountNumber)
}

func activeAccount(balance int64) *stubAccounts {
	return &stubAccounts{fn: func(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error) {
		return &liberata.AccountDetails{
			AccountNumber:    accountNumber,
			AccountName:      "Test Org",
			CreditLimit:      100_00,
			AvailableBalance: balance,
			Status:           liberata.ACTIVE_ACC,
		}, nil
	}}
}

type stubGateway struct {
	createFn func(ctx context.Context, req govpay.CreatePaymentRequest) (*govpay.GovPayPayment, error)
	cancelFn func(ctx context.Context, paymentID string) error

	created   []govpay.CreatePaymentRequest
	cancelled []string
}

func (s *stubGateway) Create(ctx context.Context, req govpay.CreatePaymentRequest) (*govpay.GovPayPayment, error) {
	s.created = append(s.created, req)
	if s.createFn == nil {
		return &govpay.GovPayPayment{
			PaymentID: "gov-pay-id-1",
			Amount:    req.Amount,
			Reference: req.Reference,
			State:     govpay.State{Status: "created"},
			Links: govpay.Links{
				NextURL: govpay.Link{Href: "https://card.example/next", Method: "GET"},
			},
		}, nil
	}
	return s.createFn(ctx, req)
}

func (s *stubGateway) Cancel(ctx context.Context, paymentID string) error {
	s.cancelled = append(s.cancelled, paymentID)
	if s.cancelFn == nil {
		return nil
	}
	return s.cancelFn(ctx, paymentID)
}

func newTestService(ledger Ledger, accounts AccountClient, gateway GatewayClient, cfg Config) *Service {
	return NewService(ledger, idempotency.NewGuard(idempotency.NewMemStore()), accounts, gateway, nil, cfg)
}

func pbaRequest(srRef string, amount int64) CreditAccountPaymentRequest {
	return CreditAccountPaymentRequest{
		ServiceRequestReference: srRef,
		Amount:                  amount,
		Currency:                "GBP",
		AccountNumber:           "PBA0001",
		OrganisationName:        "Test Org",
		CustomerReference:       "CUST-1",
	}
}

func TestCreateServiceRequestThenPay(t *testing.T) {
	ledger := newMemLedger()
	s := newTestService(ledger, activeAccount(500_00), &stubGateway{}, Config{ApportionEnabled: true})

	sr, err := s.CreateServiceRequest(CreateServiceRequestRequest{
		Reference:             "2026-4000000001",
		CcdCaseNumber:         "1111222233334444",
		CaseReference:         "case-ref-1",
		EnterpriseServiceName: "divorce",
		Fees: []ServiceRequestFee{
			{Code: "FEE0002", Version: "4", CalculatedAmount: 55_00, Volume: 1},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, sr.ServiceRequestID)

	// Fees open with the full calculated amount outstanding.
	assert.EqualValues(t, 55_00, engine.TotalDue(ledger.fees[sr.ServiceRequestID]))

	res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-4000000001", 55_00))
	require.NoError(t, err)
	assert.True(t, res.Status.Match(engine.SUCCESS_PAY))
	assert.EqualValues(t, 0, engine.TotalDue(ledger.fees[sr.ServiceRequestID]))
}

func TestCreateServiceRequestValidation(t *testing.T) {
	ledger := newMemLedger()
	s := newTestService(ledger, activeAccount(0), &stubGateway{}, Config{})

	_, err := s.CreateServiceRequest(CreateServiceRequestRequest{Reference: "2026-4000000002"})
	assert.Error(t, err)

	_, err = s.CreateServiceRequest(CreateServiceRequestRequest{
		Fees: []ServiceRequestFee{{Code: "FEE0002", CalculatedAmount: 55_00, Volume: 1}},
	})
	assert.Error(t, err)
	assert.Empty(t, ledger.srs)
}

func TestCreditAccountPaymentSuccess(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-1000000001", "divorce", 60_00, 40_00)
	accounts := activeAccount(500_00)
	s := newTestService(ledger, accounts, &stubGateway{}, Config{ApportionEnabled: true})

	res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000001", 100_00))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Status.Match(engine.SUCCESS_PAY))
	assert.True(t, engine.ValidPaymentReference(res.PaymentReference))
	assert.Empty(t, res.ErrorCode)

	require.Len(t, ledger.payments, 1)
	p := ledger.payments[0]
	assert.True(t, p.Method.Match(engine.PBA_METHOD))
	assert.True(t, p.Channel.Match(engine.ONLINE_CHANNEL))
	require.NotNil(t, p.AccountNumber)
	assert.Equal(t, "PBA0001", *p.AccountNumber)

	// Both fees discharged, two apportionment rows, nothing left due.
	require.Len(t, ledger.apportions[p.PaymentID], 2)
	assert.EqualValues(t, 0, engine.TotalDue(ledger.fees[p.ServiceRequestID]))

	require.Len(t, ledger.history, 1)
	assert.True(t, ledger.history[0].Status.Match(engine.SUCCESS_PAY))
	assert.Nil(t, ledger.history[0].ErrorCode)
}

func TestCreditAccountPaymentInsufficientFunds(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-1000000002", "divorce", 100_00)
	s := newTestService(ledger, activeAccount(10_00), &stubGateway{}, Config{ApportionEnabled: true})

	res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000002", 100_00))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Status.Match(engine.FAILED_PAY))
	assert.Equal(t, liberata.CodeInsufficientFunds, res.ErrorCode)
	assert.NotEmpty(t, res.ErrorMessage)

	// A failed payment must not touch fee balances.
	require.Len(t, ledger.payments, 1)
	assert.Empty(t, ledger.apportions[ledger.payments[0].PaymentID])
	assert.EqualValues(t, 100_00, engine.TotalDue(ledger.fees[1]))

	require.Len(t, ledger.history, 1)
	require.NotNil(t, ledger.history[0].ErrorCode)
	assert.Equal(t, liberata.CodeInsufficientFunds, *ledger.history[0].ErrorCode)
}

func TestCreditAccountPaymentAccountOnHold(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-1000000003", "divorce", 50_00)
	accounts := &stubAccounts{fn: func(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error) {
		return &liberata.AccountDetails{Status: liberata.ON_HOLD_ACC, AvailableBalance: 500_00}, nil
	}}
	s := newTestService(ledger, accounts, &stubGateway{}, Config{ApportionEnabled: true})

	res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000003", 50_00))
	require.NoError(t, err)
	assert.True(t, res.Status.Match(engine.FAILED_PAY))
	assert.Equal(t, liberata.CodeAccountOnHold, res.ErrorCode)
}

func TestCreditAccountPaymentLegacyService(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-1000000004", "Finrem", 75_00)
	accounts := &stubAccounts{fn: func(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error) {
		t.Fatal("legacy services must not hit the account service")
		return nil, nil
	}}
	s := newTestService(ledger, accounts, &stubGateway{}, Config{
		ApportionEnabled: true,
		LegacyServices:   []string{"finrem", "probate"},
	})

	res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000004", 75_00))
	require.NoError(t, err)

	assert.True(t, res.Status.Match(engine.PENDING_PAY))
	assert.Zero(t, accounts.calls)

	// Pending still apportions: the legacy path settles out of band.
	require.Len(t, ledger.payments, 1)
	assert.Len(t, ledger.apportions[ledger.payments[0].PaymentID], 1)
	assert.EqualValues(t, 0, engine.TotalDue(ledger.fees[1]))
}

func TestCreditAccountPaymentAccountErrors(t *testing.T) {
	tests := []struct {
		name     string
		retrieve error
		want     error
	}{
		{"not found", liberata.ErrAccountNotFound, liberata.ErrAccountNotFound},
		{"timeout", liberata.ErrAccountTimeout, liberata.ErrAccountTimeout},
		{"unavailable", liberata.ErrAccountUnavailable, liberata.ErrAccountUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newMemLedger()
			ledger.addServiceRequest("2026-1000000005", "divorce", 50_00)
			accounts := &stubAccounts{fn: func(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error) {
				return nil, tt.retrieve
			}}
			s := newTestService(ledger, accounts, &stubGateway{}, Config{ApportionEnabled: true})

			res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000005", 50_00))
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.Cause(err))
			assert.Nil(t, res)

			// The attempt stays durably visible as a failed payment.
			require.Len(t, ledger.payments, 1)
			assert.True(t, ledger.payments[0].Status.Match(engine.FAILED_PAY))
			require.Len(t, ledger.history, 1)
			require.NotNil(t, ledger.history[0].ErrorMessage)
			assert.Equal(t, tt.retrieve.Error(), *ledger.history[0].ErrorMessage)
		})
	}
}

func TestCreditAccountPaymentValidation(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-1000000006", "divorce", 60_00, 40_00)
	s := newTestService(ledger, activeAccount(500_00), &stubGateway{}, Config{ApportionEnabled: true})

	t.Run("amount mismatch", func(t *testing.T) {
		res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000006", 99_99))
		assert.Equal(t, ErrAmountMismatchOrder, err)
		assert.Nil(t, res)
		assert.Empty(t, ledger.payments)
	})

	t.Run("service request not found", func(t *testing.T) {
		res, err := s.CreditAccountPayment(context.Background(), pbaRequest("no-such-reference", 100_00))
		assert.Equal(t, engine.ErrServiceRequestNotFound, err)
		assert.Nil(t, res)
	})

	t.Run("no amount due", func(t *testing.T) {
		for _, f := range ledger.fees[1] {
			require.NoError(t, f.SetAmountDue(0))
		}
		res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000006", 100_00))
		assert.Equal(t, ErrNoAmountDue, err)
		assert.Nil(t, res)
		assert.Empty(t, ledger.payments)
	})
}

func TestCreditAccountPaymentApportionDisabled(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-1000000007", "divorce", 80_00)
	s := newTestService(ledger, activeAccount(500_00), &stubGateway{}, Config{ApportionEnabled: false})

	res, err := s.CreditAccountPayment(context.Background(), pbaRequest("2026-1000000007", 80_00))
	require.NoError(t, err)
	assert.True(t, res.Status.Match(engine.SUCCESS_PAY))

	// Toggle off: the payment records but fee balances stay untouched.
	require.Len(t, ledger.payments, 1)
	assert.Empty(t, ledger.apportions[ledger.payments[0].PaymentID])
	assert.EqualValues(t, 80_00, engine.TotalDue(ledger.fees[1]))
}

func TestOnlineCardPayment(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-2000000001", "divorce", 120_00)
	gateway := &stubGateway{}
	s := newTestService(ledger, activeAccount(0), gateway, Config{ApportionEnabled: true})

	res, err := s.OnlineCardPayment(context.Background(), OnlineCardPaymentRequest{
		ServiceRequestReference: "2026-2000000001",
		Amount:                  120_00,
		Currency:                "GBP",
		Language:                "en",
		ReturnURL:               "https://service.example/return",
		Description:             "Divorce application fee",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, engine.ValidPaymentReference(res.PaymentReference))
	assert.Equal(t, "gov-pay-id-1", res.ExternalReference)
	assert.Equal(t, "https://card.example/next", res.NextURL)
	assert.True(t, res.Status.Match(engine.CREATED_PAY))

	require.Len(t, gateway.created, 1)
	assert.Equal(t, res.PaymentReference, gateway.created[0].Reference)
	assert.EqualValues(t, 120_00, gateway.created[0].Amount)

	require.Len(t, ledger.payments, 1)
	p := ledger.payments[0]
	assert.True(t, p.Method.Match(engine.CARD_METHOD))
	require.NotNil(t, p.ExternalReference)
	assert.Equal(t, "gov-pay-id-1", *p.ExternalReference)
	require.NotNil(t, p.NextURL)

	// Optimistic apportionment at session creation.
	assert.Len(t, ledger.apportions[p.PaymentID], 1)
	assert.EqualValues(t, 0, engine.TotalDue(ledger.fees[1]))
}

func TestOnlineCardPaymentValidationWording(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-2000000002", "divorce", 120_00)
	s := newTestService(ledger, activeAccount(0), &stubGateway{}, Config{})

	_, err := s.OnlineCardPayment(context.Background(), OnlineCardPaymentRequest{
		ServiceRequestReference: "2026-2000000002",
		Amount:                  1_00,
	})
	assert.Equal(t, ErrAmountMismatchServiceRequest, err)
	assert.Contains(t, err.Error(), "serviceRequest balance")
}

func TestOnlineCardPaymentCancelsStaleSession(t *testing.T) {
	ledger := newMemLedger()
	sr := ledger.addServiceRequest("2026-2000000003", "divorce", 120_00)
	gateway := &stubGateway{}
	s := newTestService(ledger, activeAccount(0), gateway, Config{StaleSessionAge: 90 * time.Minute})

	staleRef := "gov-pay-stale"
	ledger.payments = append(ledger.payments, &engine.Payment{
		PaymentID:         99,
		ServiceRequestID:  sr.ServiceRequestID,
		Reference:         engine.NewPaymentReference(),
		Amount:            120_00,
		Status:            engine.CREATED_PAY,
		Channel:           engine.ONLINE_CHANNEL,
		Method:            engine.CARD_METHOD,
		ExternalReference: &staleRef,
		CreatedAt:         time.Now().Add(-10 * time.Minute),
	})

	res, err := s.OnlineCardPayment(context.Background(), OnlineCardPaymentRequest{
		ServiceRequestReference: "2026-2000000003",
		Amount:                  120_00,
		ReturnURL:               "https://service.example/return",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, gateway.cancelled, 1)
	assert.Equal(t, staleRef, gateway.cancelled[0])
	assert.Len(t, ledger.payments, 2)
}

func TestOnlineCardPaymentCancelFailureDoesNotBlock(t *testing.T) {
	ledger := newMemLedger()
	sr := ledger.addServiceRequest("2026-2000000004", "divorce", 120_00)
	gateway := &stubGateway{cancelFn: func(ctx context.Context, paymentID string) error {
		return errors.New("gateway says no")
	}}
	s := newTestService(ledger, activeAccount(0), gateway, Config{})

	staleRef := "gov-pay-stale"
	ledger.payments = append(ledger.payments, &engine.Payment{
		PaymentID:         99,
		ServiceRequestID:  sr.ServiceRequestID,
		Reference:         engine.NewPaymentReference(),
		Status:            engine.CREATED_PAY,
		Channel:           engine.ONLINE_CHANNEL,
		Method:            engine.CARD_METHOD,
		ExternalReference: &staleRef,
		CreatedAt:         time.Now().Add(-time.Minute),
	})

	res, err := s.OnlineCardPayment(context.Background(), OnlineCardPaymentRequest{
		ServiceRequestReference: "2026-2000000004",
		Amount:                  120_00,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, gateway.cancelled, 1)
}

func TestOnlineCardPaymentGatewayError(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-2000000005", "divorce", 120_00)
	gateway := &stubGateway{createFn: func(ctx context.Context, req govpay.CreatePaymentRequest) (*govpay.GovPayPayment, error) {
		return nil, errors.New("gateway unavailable")
	}}
	s := newTestService(ledger, activeAccount(0), gateway, Config{ApportionEnabled: true})

	res, err := s.OnlineCardPayment(context.Background(), OnlineCardPaymentRequest{
		ServiceRequestReference: "2026-2000000005",
		Amount:                  120_00,
	})
	require.Error(t, err)
	assert.Nil(t, res)

	// No gateway session means no payment row and no balance change.
	assert.Empty(t, ledger.payments)
	assert.EqualValues(t, 120_00, engine.TotalDue(ledger.fees[1]))
}

func TestCreditAccountPaymentIdempotentReplay(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-3000000001", "divorce", 100_00)
	s := newTestService(ledger, activeAccount(500_00), &stubGateway{}, Config{ApportionEnabled: true})

	req := pbaRequest("2026-3000000001", 100_00)
	req.IdempotencyKey = "key-1"

	first, err := s.CreditAccountPayment(context.Background(), req)
	require.NoError(t, err)

	second, err := s.CreditAccountPayment(context.Background(), req)
	require.NoError(t, err)

	// Verbatim replay: one payment, same reference back.
	assert.Equal(t, first.PaymentReference, second.PaymentReference)
	assert.Len(t, ledger.payments, 1)
}

func TestCreditAccountPaymentIdempotentRetryAfterFailure(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-3000000002", "divorce", 100_00)

	balance := int64(10_00)
	accounts := &stubAccounts{fn: func(ctx context.Context, accountNumber string) (*liberata.AccountDetails, error) {
		return &liberata.AccountDetails{Status: liberata.ACTIVE_ACC, AvailableBalance: balance}, nil
	}}
	s := newTestService(ledger, accounts, &stubGateway{}, Config{ApportionEnabled: true})

	req := pbaRequest("2026-3000000002", 100_00)
	req.IdempotencyKey = "key-2"

	first, err := s.CreditAccountPayment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, first.Status.Match(engine.FAILED_PAY))

	// Insufficient funds completed with a retryable code: the account is
	// topped up and the retry runs fresh instead of replaying.
	balance = 500_00
	second, err := s.CreditAccountPayment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Status.Match(engine.SUCCESS_PAY))
	assert.NotEqual(t, first.PaymentReference, second.PaymentReference)
	assert.Len(t, ledger.payments, 2)
}

func TestCreditAccountPaymentIdempotentFinalErrorReplay(t *testing.T) {
	ledger := newMemLedger()
	s := newTestService(ledger, activeAccount(500_00), &stubGateway{}, Config{})

	req := pbaRequest("no-such-reference", 100_00)
	req.IdempotencyKey = "key-3"

	_, err := s.CreditAccountPayment(context.Background(), req)
	require.Error(t, err)

	// The service request appears afterwards, but 404 is final: the cached
	// failure replays instead of re-executing.
	ledger.addServiceRequest("no-such-reference", "divorce", 100_00)
	_, err = s.CreditAccountPayment(context.Background(), req)
	require.Error(t, err)
	assert.EqualError(t, err, engine.ErrServiceRequestNotFound.Error())
	assert.Empty(t, ledger.payments)
}

func TestCreditAccountPaymentDuplicateInFlight(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-3000000004", "divorce", 100_00)

	store := idempotency.NewMemStore()
	s := NewService(ledger, idempotency.NewGuard(store), activeAccount(500_00), &stubGateway{}, nil, Config{})

	req := pbaRequest("2026-3000000004", 100_00)
	req.IdempotencyKey = "key-4"

	// Another submission holds the pending record.
	body := mustMarshal(t, req)
	require.NoError(t, store.Insert(&idempotency.Record{
		IdempotencyKey: "key-4",
		RequestHash:    idempotency.Fingerprint(body),
		RequestBody:    body,
	}))

	res, err := s.CreditAccountPayment(context.Background(), req)
	assert.Equal(t, ErrPaymentInProgress, err)
	assert.Nil(t, res)
	assert.Empty(t, ledger.payments)
}

func TestCreditAccountPaymentSameKeyDifferentPayload(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-3000000005", "divorce", 100_00)
	ledger.addServiceRequest("2026-3000000006", "divorce", 50_00)
	s := newTestService(ledger, activeAccount(500_00), &stubGateway{}, Config{})

	a := pbaRequest("2026-3000000005", 100_00)
	a.IdempotencyKey = "shared-key"
	b := pbaRequest("2026-3000000006", 50_00)
	b.IdempotencyKey = "shared-key"

	// Different payloads under one key are independent submissions.
	_, err := s.CreditAccountPayment(context.Background(), a)
	require.NoError(t, err)
	_, err = s.CreditAccountPayment(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, ledger.payments, 2)
}

func TestOnlineCardPaymentIdempotentReplay(t *testing.T) {
	ledger := newMemLedger()
	ledger.addServiceRequest("2026-3000000007", "divorce", 120_00)
	gateway := &stubGateway{}
	s := newTestService(ledger, activeAccount(0), gateway, Config{ApportionEnabled: true})

	req := OnlineCardPaymentRequest{
		ServiceRequestReference: "2026-3000000007",
		Amount:                  120_00,
		ReturnURL:               "https://service.example/return",
		IdempotencyKey:          "card-key-1",
	}

	first, err := s.OnlineCardPayment(context.Background(), req)
	require.NoError(t, err)

	second, err := s.OnlineCardPayment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.PaymentReference, second.PaymentReference)
	assert.Equal(t, first.NextURL, second.NextURL)
	assert.Len(t, gateway.created, 1)
	assert.Len(t, ledger.payments, 1)
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
