package idempotency

import (
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gopkg.in/reform.v1"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func NewReformStore(db *reform.DB) *ReformStore {
	return &ReformStore{db: db}
}

// ReformStore persists idempotency records in postgres. The unique index on
// (idempotency_key, request_hash) backs the in-flight exclusion.
type ReformStore struct {
	db *reform.DB
}

var _ Store = (*ReformStore)(nil)

func (s *ReformStore) Find(key, hash string) (*Record, error) {
	rec := &Record{}
	if err := s.db.SelectOneTo(rec, "WHERE idempotency_key = $1 AND request_hash = $2", key, hash); err != nil {
		if err == reform.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "failed select idempotency record")
	}
	return rec, nil
}

func (s *ReformStore) Insert(rec *Record) error {
	if err := s.db.Insert(rec); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrDuplicateInFlight
		}
		return errors.Wrap(err, "failed insert idempotency record")
	}
	return nil
}

func (s *ReformStore) Reclaim(rec *Record) error {
	// Conditional update so that only one of several concurrent retries
	// takes over the completed record.
	res, err := s.db.Exec(
		"UPDATE idempotency_keys SET status = $1, updated_at = $2 WHERE record_id = $3 AND status = $4",
		PENDING_REC, time.Now(), rec.RecordID, COMPLETED_REC,
	)
	if err != nil {
		return errors.Wrap(err, "failed reclaim idempotency record")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed reclaim idempotency record")
	}
	if affected == 0 {
		return ErrDuplicateInFlight
	}
	rec.Status = PENDING_REC
	return nil
}

func (s *ReformStore) Update(rec *Record) error {
	if err := s.db.Update(rec); err != nil {
		return errors.Wrap(err, "failed update idempotency record")
	}
	return nil
}
