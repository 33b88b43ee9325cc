package memstore

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a registration code stays valid.
	DefaultTTL = 10 * time.Minute
	// DefaultSweepInterval is how often expired records are reaped.
	DefaultSweepInterval = 5 * time.Minute
	// MaxAttempts is the number of wrong codes tolerated before the record
	// is dropped early, regardless of remaining TTL.
	MaxAttempts = 5
)

// PendingSignup is an in-flight admin registration waiting for the approver's
// code. The submitted password is held in plaintext until the code is
// verified; hashing is deferred so unapproved requests never cost a bcrypt.
type PendingSignup struct {
	RequestID   string
	Code        string
	Email       string
	Password    string
	DisplayName string
	ExpiresAt   time.Time
	Attempts    int
}

// PendingStore is a process-local holding area for in-flight registration
// secrets.
//
// Records live only in this process's memory: they do not survive a restart,
// and in a horizontally scaled deployment a verify that lands on a different
// instance than its request will report the record as unknown. Deployments
// running more than one instance must replace this with a shared TTL store;
// the registration service only depends on the store interface, so that is a
// constructor swap.
type PendingStore struct {
	mu      sync.Mutex
	records map[string]*PendingSignup
	ttl     time.Duration
	now     func() time.Time // overridable in tests
}

// NewPendingStore creates a store whose records expire after DefaultTTL.
func NewPendingStore() *PendingStore {
	return &PendingStore{
		records: make(map[string]*PendingSignup),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// Put inserts a pending signup under requestID, overwriting silently on
// collision. Callers guarantee uniqueness via random ID generation.
func (s *PendingStore) Put(requestID, code, email, password, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[requestID] = &PendingSignup{
		RequestID:   requestID,
		Code:        code,
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		ExpiresAt:   s.now().Add(s.ttl),
	}
}

// Get returns a copy of the record, or false on a miss. It never mutates
// state; expiry is the caller's decision so it can report it distinctly.
func (s *PendingStore) Get(requestID string) (PendingSignup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[requestID]
	if !ok {
		return PendingSignup{}, false
	}
	return *rec, true
}

// Delete removes the record. No-op if absent.
func (s *PendingStore) Delete(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, requestID)
}

// FailAttempt records a wrong code for requestID and reports whether the
// record is still alive. Once MaxAttempts is reached the record is dropped,
// capping brute-force attempts against the 6-digit code.
func (s *PendingStore) FailAttempt(requestID string) (remaining int, alive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[requestID]
	if !ok {
		return 0, false
	}
	rec.Attempts++
	if rec.Attempts >= MaxAttempts {
		delete(s.records, requestID)
		return 0, false
	}
	return MaxAttempts - rec.Attempts, true
}

// Sweep deletes every record whose expiry has passed.
func (s *PendingStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, id)
		}
	}
}

// Len reports the number of live records.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *PendingStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}
