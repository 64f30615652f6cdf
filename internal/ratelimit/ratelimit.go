package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// CounterStore counts hits per key within a fixed window. The in-memory
// implementation below is process-local; a shared store (redis etc.) can
// be swapped in for horizontally scaled deployments without touching the
// limiters.
type CounterStore interface {
	// Incr records one hit for key and returns the total hits in the
	// current window.
	Incr(key string, window time.Duration) (int, error)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

type memoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewMemoryCounterStore() CounterStore {
	return &memoryCounterStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (s *memoryCounterStore) Incr(key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		s.entries[key] = &windowEntry{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}
	e.count++
	return e.count, nil
}

// Limiter applies a fixed-window cap for one purpose (auth, event
// registration). Keys are typically client IPs.
type Limiter struct {
	store  CounterStore
	limit  int
	window time.Duration
	name   string
}

func NewLimiter(store CounterStore, name string, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, name: name, limit: limit, window: window}
}

// Allow consumes one hit for key and reports whether it stays within
// the cap. Store failures fail open: an unavailable counter must not
// take the endpoint down with it.
func (l *Limiter) Allow(key string) bool {
	count, err := l.store.Incr(l.name+":"+key, l.window)
	if err != nil {
		return true
	}
	return count <= l.limit
}

// Escalating lockout thresholds, measured from the most recent failure.
const (
	lockoutGCAfter = time.Hour
)

var lockoutSteps = []struct {
	failures int
	duration time.Duration
}{
	{15, time.Hour},
	{10, 10 * time.Minute},
	{5, time.Minute},
}

type failureRecord struct {
	count       int
	lastAttempt time.Time
}

// Lockout tracks consecutive failed logins per account (email) and
// escalates the penalty window with the failure count. State is
// process-local and resets on restart; that weakness is accepted for
// single-instance deployment.
type Lockout struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	now     func() time.Time
}

func NewLockout() *Lockout {
	return &Lockout{
		records: make(map[string]*failureRecord),
		now:     time.Now,
	}
}

// RecordFailure notes one failed login for the account.
func (l *Lockout) RecordFailure(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if rec, ok := l.records[email]; ok {
		rec.count++
		rec.lastAttempt = now
		return
	}
	l.records[email] = &failureRecord{count: 1, lastAttempt: now}
}

// Clear drops the account's failure history, called on successful login.
func (l *Lockout) Clear(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, email)
}

// Check returns a non-nil error naming the remaining lockout seconds if
// the account is currently locked. Records idle longer than an hour are
// garbage-collected here, lazily.
func (l *Lockout) Check(email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[email]
	if !ok {
		return nil
	}

	sinceLast := l.now().Sub(rec.lastAttempt)

	var lockFor time.Duration
	for _, step := range lockoutSteps {
		if rec.count >= step.failures {
			lockFor = step.duration
			break
		}
	}

	if lockFor > 0 && sinceLast < lockFor {
		remaining := int((lockFor - sinceLast).Seconds() + 0.5)
		if remaining < 1 {
			remaining = 1
		}
		return &LockedError{Remaining: remaining, err: fmt.Sprintf(
			"Account temporarily locked due to too many failed login attempts. Please try again in %d seconds.", remaining)}
	}

	if sinceLast > lockoutGCAfter {
		delete(l.records, email)
	}
	return nil
}

// LockedError reports an active lockout and how long it has left.
type LockedError struct {
	Remaining int
	err       string
}

func (e *LockedError) Error() string {
	return e.err
}
