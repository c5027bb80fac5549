package pose

import (
	"sync"
	"time"
)

// Status is a copy of the feed state for display.
type Status struct {
	Arm          Arm
	HasArm       bool
	Received     int
	DecodeErrors int
	LastSeen     time.Time
	Connected    bool
	LastError    string
}

// Stale reports whether no arm arrived within after.
func (s Status) Stale(now time.Time, after time.Duration) bool {
	return !s.HasArm || now.Sub(s.LastSeen) > after
}

// Store is a thread-safe holder for the latest arm pose.
type Store struct {
	mu     sync.RWMutex
	status Status
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Update replaces the latest arm. A zero Received time is stamped with now.
func (s *Store) Update(arm Arm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if arm.Received.IsZero() {
		arm.Received = time.Now()
	}
	s.status.Arm = arm
	s.status.HasArm = true
	s.status.Received++
	s.status.LastSeen = arm.Received
}

// RecordError counts a rejected message or notes a transport failure.
func (s *Store) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if IsDecodeError(err) {
		s.status.DecodeErrors++
	}
	if IsConnectionError(err) {
		s.status.Connected = false
	}
	if err != nil {
		s.status.LastError = err.Error()
	}
}

// SetConnected records whether the feed is live.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Connected = connected
}

// Snapshot returns a copy of the current status.
func (s *Store) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
