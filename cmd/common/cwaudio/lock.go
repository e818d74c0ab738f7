package cwaudio

import "sync"

// PlaybackLock is the single serialization point between sends: callers
// check Locked before scheduling a new transmission and extend the lock to
// the latest end time they scheduled. The scheduler itself does not
// enforce the lock; it is a caller contract.
type PlaybackLock struct {
	mu          sync.Mutex
	clock       *Clock
	lockedUntil float64
}

// NewPlaybackLock builds a lock against the given clock.
func NewPlaybackLock(clock *Clock) *PlaybackLock {
	return &PlaybackLock{clock: clock}
}

// Update extends the lock to t. The lock only ever moves forward; passing
// an earlier time than the current lock is a no-op.
func (l *PlaybackLock) Update(t float64) {
	l.mu.Lock()
	if t > l.lockedUntil {
		l.lockedUntil = t
	}
	l.mu.Unlock()
}

// Locked reports whether playback is still in progress.
func (l *PlaybackLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clock.Now() < l.lockedUntil
}

// Until returns the current lock horizon.
func (l *PlaybackLock) Until() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lockedUntil
}

// Reset clears the lock as part of a full session reset.
func (l *PlaybackLock) Reset() {
	l.mu.Lock()
	l.lockedUntil = 0
	l.mu.Unlock()
}
