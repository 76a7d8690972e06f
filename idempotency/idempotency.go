// Package idempotency deduplicates retried payment submissions. A record is
// keyed by (idempotency key, request hash); its unique constraint is the
// mutual-exclusion primitive for concurrent duplicates.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:generate reform

var (
	ErrRecordNotFound = errors.New("idempotency record not found")

	// ErrDuplicateInFlight means another submission with the same key and
	// payload holds the pending record right now.
	ErrDuplicateInFlight = errors.New("duplicate submission in flight")

	// ErrAlreadyCompleted means the record completed with a final response
	// code; the cached response must be replayed instead of reprocessing.
	ErrAlreadyCompleted = errors.New("submission already completed")
)

type Status string

func (s Status) Match(in Status) bool {
	return s == in
}

const (
	PENDING_REC   Status = "pending"
	COMPLETED_REC Status = "completed"
)

// retryableResponseCodes are the only completed response codes that permit a
// fresh attempt under the same (key, hash). Everything else is final.
var retryableResponseCodes = map[int32]bool{
	504: true,
	500: true,
	412: true,
	402: true,
}

func Retryable(code int32) bool {
	return retryableResponseCodes[code]
}

//reform:idempotency_keys
type Record struct {
	RecordID int64 `reform:"record_id,pk"`

	IdempotencyKey string `reform:"idempotency_key"`
	RequestHash    string `reform:"request_hash"`

	RequestBody  []byte `reform:"request_body"`
	ResponseBody []byte `reform:"response_body"`
	ResponseCode int32  `reform:"response_code"`

	Status Status `reform:"status"`

	UpdatedAt time.Time `reform:"updated_at"`
	CreatedAt time.Time `reform:"created_at"`
}

func (r *Record) BeforeInsert() error {
	r.UpdatedAt = time.Now()
	r.CreatedAt = time.Now()
	r.Status = PENDING_REC
	return nil
}

func (r *Record) BeforeUpdate() error {
	r.UpdatedAt = time.Now()
	return nil
}

// Eligible reports whether a fresh attempt may be made over this record:
// pending records and completed records with a retryable response code.
func (r *Record) Eligible() bool {
	return !r.Status.Match(COMPLETED_REC) || Retryable(r.ResponseCode)
}

// Fingerprint returns the request hash for a serialized request body.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Store is the persistence behind the guard.
type Store interface {
	// Find returns the record for (key, hash), or ErrRecordNotFound.
	Find(key, hash string) (*Record, error)

	// Insert stores a new pending record. A unique violation on
	// (key, hash) surfaces as ErrDuplicateInFlight.
	Insert(rec *Record) error

	// Reclaim flips a completed record back to pending for a retry
	// attempt. It fails with ErrDuplicateInFlight when the record is not
	// completed anymore (a concurrent retry won the race).
	Reclaim(rec *Record) error

	// Update persists a completion onto an owned pending record.
	Update(rec *Record) error
}

// CachedResponse is a completed response eligible for verbatim replay.
type CachedResponse struct {
	Body []byte
	Code int32
}

// Handle proves ownership of the in-flight record between Begin and Complete.
type Handle struct {
	rec *Record
}

func NewGuard(store Store) *Guard {
	return &Guard{
		store:  store,
		logger: zap.L().Named("idempotency_guard"),
	}
}

type Guard struct {
	store  Store
	logger *zap.Logger
}

// Check returns the cached response for (key, hash) when the prior
// submission completed with a final response code.
//
// Common errors:
// - ErrDuplicateInFlight - a pending record exists, the caller must back off
// - other errors
func (g *Guard) Check(key, hash string) (*CachedResponse, error) {
	rec, err := g.store.Find(key, hash)
	if err != nil {
		if err == ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed find idempotency record")
	}
	if rec.Status.Match(PENDING_REC) {
		return nil, ErrDuplicateInFlight
	}
	if Retryable(rec.ResponseCode) {
		// Transient failure recorded, a fresh attempt is allowed.
		return nil, nil
	}
	return &CachedResponse{Body: rec.ResponseBody, Code: rec.ResponseCode}, nil
}

// Begin claims the (key, hash) pair for this submission.
//
// Common errors:
// - ErrDuplicateInFlight - another submission holds the pair
// - ErrAlreadyCompleted - a final response exists, replay via Check
// - other errors
func (g *Guard) Begin(key, hash string, requestBody []byte) (*Handle, error) {
	existing, err := g.store.Find(key, hash)
	switch {
	case err == ErrRecordNotFound:
		rec := &Record{
			IdempotencyKey: key,
			RequestHash:    hash,
			RequestBody:    requestBody,
		}
		if err := g.store.Insert(rec); err != nil {
			return nil, err
		}
		return &Handle{rec: rec}, nil
	case err != nil:
		return nil, errors.Wrap(err, "failed find idempotency record")
	case existing.Status.Match(PENDING_REC):
		return nil, ErrDuplicateInFlight
	case Retryable(existing.ResponseCode):
		if err := g.store.Reclaim(existing); err != nil {
			return nil, err
		}
		existing.RequestBody = requestBody
		return &Handle{rec: existing}, nil
	default:
		return nil, ErrAlreadyCompleted
	}
}

// Complete records the response under the claimed pair. The record is
// read-only afterward except for the retry-eligibility path in Begin.
func (g *Guard) Complete(h *Handle, responseBody []byte, code int32) error {
	h.rec.Status = COMPLETED_REC
	h.rec.ResponseBody = responseBody
	h.rec.ResponseCode = code
	if err := g.store.Update(h.rec); err != nil {
		g.logger.Warn("failed complete idempotency record",
			zap.Error(err),
			zap.String("idempotency_key", h.rec.IdempotencyKey),
		)
		return errors.Wrap(err, "failed complete idempotency record")
	}
	return nil
}

// FilterEligible keeps the records a caller may attempt again: pending ones
// and completed ones with a retryable response code.
func FilterEligible(records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		if rec.Eligible() {
			out = append(out, rec)
		}
	}
	return out
}
