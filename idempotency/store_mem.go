package idempotency

import (
	"sync"
)

func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[memKey]*Record),
	}
}

type memKey struct {
	key  string
	hash string
}

// MemStore keeps records in process memory. Used by tests and by
// single-process deployments that accept dedup loss on restart.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[memKey]*Record
}

var _ Store = (*MemStore)(nil)

func (s *MemStore) Find(key, hash string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[memKey{key, hash}]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemStore) Insert(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memKey{rec.IdempotencyKey, rec.RequestHash}
	if _, exists := s.records[k]; exists {
		return ErrDuplicateInFlight
	}
	if err := rec.BeforeInsert(); err != nil {
		return err
	}
	s.nextID++
	rec.RecordID = s.nextID
	cp := *rec
	s.records[k] = &cp
	return nil
}

func (s *MemStore) Reclaim(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.records[memKey{rec.IdempotencyKey, rec.RequestHash}]
	if !ok {
		return ErrRecordNotFound
	}
	if !stored.Status.Match(COMPLETED_REC) {
		return ErrDuplicateInFlight
	}
	if err := stored.BeforeUpdate(); err != nil {
		return err
	}
	stored.Status = PENDING_REC
	rec.Status = PENDING_REC
	return nil
}

func (s *MemStore) Update(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[memKey{rec.IdempotencyKey, rec.RequestHash}]; !ok {
		return ErrRecordNotFound
	}
	if err := rec.BeforeUpdate(); err != nil {
		return err
	}
	cp := *rec
	s.records[memKey{rec.IdempotencyKey, rec.RequestHash}] = &cp
	return nil
}
