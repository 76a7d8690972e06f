package payments

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hmcts/ccpay-payment-app-sub004/idempotency"
)

// idempotent runs exec under the guard: a repeated payload behind the same
// key either replays the stored response or, for a retryable failure,
// re-executes. Returns the replayed body when the outcome was served from
// the store, nil when exec ran.
func (s *Service) idempotent(key string, req interface{}, exec func() (interface{}, int32, error)) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed marshal request")
	}
	hash := idempotency.Fingerprint(body)

	cached, err := s.guard.Check(key, hash)
	switch {
	case err == idempotency.ErrDuplicateInFlight:
		return nil, ErrPaymentInProgress
	case err != nil:
		return nil, err
	case cached != nil:
		idempotencyReplaysTotal.Inc()
		return replayBody(cached)
	}

	h, err := s.guard.Begin(key, hash, body)
	switch {
	case err == idempotency.ErrDuplicateInFlight:
		return nil, ErrPaymentInProgress
	case err == idempotency.ErrAlreadyCompleted:
		// Lost the race to a concurrent submission that finished first
		// with a final response.
		cached, cerr := s.guard.Check(key, hash)
		if cerr == idempotency.ErrDuplicateInFlight {
			return nil, ErrPaymentInProgress
		}
		if cerr != nil {
			return nil, cerr
		}
		if cached == nil {
			return nil, ErrPaymentInProgress
		}
		idempotencyReplaysTotal.Inc()
		return replayBody(cached)
	case err != nil:
		return nil, err
	}

	result, code, execErr := exec()
	respBody := marshalOutcome(result, execErr)
	if cerr := s.guard.Complete(h, respBody, code); cerr != nil {
		s.l.Warn("failed complete idempotency record",
			zap.Error(cerr),
			zap.String("idempotency_key", key),
		)
		if execErr != nil {
			return nil, execErr
		}
		return nil, ErrTooManyRequests
	}
	return nil, execErr
}

func replayBody(cached *idempotency.CachedResponse) ([]byte, error) {
	if cached.Code >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(cached.Body, &e); err == nil && e.Error != "" {
			return nil, errors.New(e.Error)
		}
		return nil, errors.Errorf("replayed failure response, code %d", cached.Code)
	}
	return cached.Body, nil
}

func marshalOutcome(result interface{}, execErr error) []byte {
	if execErr != nil {
		b, _ := json.Marshal(map[string]string{"error": execErr.Error()})
		return b
	}
	b, err := json.Marshal(result)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return b
}

func unmarshalCached(body []byte, v interface{}) error {
	return errors.Wrap(json.Unmarshal(body, v), "failed unmarshal cached response")
}
