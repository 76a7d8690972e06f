// Package liberata talks to the external credit-account balance service for
// payment-by-account (PBA) payments.
package liberata

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hmcts/ccpay-payment-app-sub004/engine"
)

var (
	ErrAccountNotFound    = errors.New("credit account not found")
	ErrAccountTimeout     = errors.New("credit account service timed out")
	ErrAccountUnavailable = errors.New("credit account service unavailable")
)

type AccountStatus string

func (s AccountStatus) Match(in AccountStatus) bool {
	return s == in
}

const (
	ACTIVE_ACC  AccountStatus = "active"
	ON_HOLD_ACC AccountStatus = "on-hold"
	DELETED_ACC AccountStatus = "deleted"
)

type AccountDetails struct {
	AccountNumber    string        `json:"account_number"`
	AccountName      string        `json:"account_name"`
	CreditLimit      int64         `json:"credit_limit"`
	AvailableBalance int64         `json:"available_balance"`
	Status           AccountStatus `json:"status"`
	EffectiveDate    time.Time     `json:"effective_date"`
}

type Config struct {
	EntrypointURL string
	APIKey        string
	Timeout       time.Duration
}

func NewProvider(cfg Config) *Provider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
		l: zap.L().Named("liberata_provider"),
	}
}

type Provider struct {
	cfg    Config
	client *http.Client
	l      *zap.Logger
}

// Retrieve returns the account details for an account number.
//
// Common errors:
// - ErrAccountNotFound - the service does not know the account
// - ErrAccountTimeout - the call timed out at any stage
// - ErrAccountUnavailable - any other failure
func (p *Provider) Retrieve(ctx context.Context, accountNumber string) (*AccountDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.EntrypointURL+"/accounts/"+accountNumber, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed build account request")
	}
	req.Header.Set("Accept", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", p.cfg.APIKey)
	}

	res, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			p.l.Warn("account: request timed out",
				zap.String("account_number", accountNumber),
				zap.Error(err),
			)
			return nil, ErrAccountTimeout
		}
		p.l.Warn("account: request failed",
			zap.String("account_number", accountNumber),
			zap.Error(err),
		)
		return nil, ErrAccountUnavailable
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrAccountTimeout
		}
		p.l.Warn("account: read body", zap.Error(err))
		return nil, ErrAccountUnavailable
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrAccountNotFound
	case res.StatusCode >= 400:
		p.l.Warn("account: unexpected status",
			zap.Int("status_code", res.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, ErrAccountUnavailable
	}

	var details AccountDetails
	if err := json.Unmarshal(body, &details); err != nil {
		p.l.Warn("account: bad unmarshal response",
			zap.String("body", string(body)),
			zap.Error(err),
		)
		return nil, ErrAccountUnavailable
	}
	return &details, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// Error codes surfaced on failed PBA payments.
const (
	CodeInsufficientFunds = "CA-E0001"
	CodeAccountOnHold     = "CA-E0003"
	CodeAccountDeleted    = "CA-E0004"
)

// MapAccountStatus maps an account's state and the requested amount into the
// payment status for this attempt. Pure function, no I/O.
func MapAccountStatus(amount int64, details *AccountDetails) (status engine.PaymentStatus, errCode, errMsg string) {
	switch details.Status {
	case ACTIVE_ACC:
		if details.AvailableBalance >= amount {
			return engine.SUCCESS_PAY, "", ""
		}
		return engine.FAILED_PAY, CodeInsufficientFunds,
			"payment request failed, the account does not have sufficient funds"
	case ON_HOLD_ACC:
		return engine.FAILED_PAY, CodeAccountOnHold, "the account is on hold"
	case DELETED_ACC:
		return engine.FAILED_PAY, CodeAccountDeleted, "the account is deleted"
	default:
		return engine.FAILED_PAY, CodeAccountOnHold, "the account is not available"
	}
}
