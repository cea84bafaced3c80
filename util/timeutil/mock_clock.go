// parts copied from: https://github.com/efritz/glock

package timeutil

import (
	"sync"
	"time"
)

// MockClock is an implementation of Time that can be moved forward in
// increments for testing code that relies on freshness windows or other
// time-sensitive constructs.
type MockClock struct {
	fakeTime time.Time
	nowLock  sync.RWMutex
}

// Make sure MockClock conforms to the interface
var _ Time = &MockClock{}

// NewMockClockAt creates a new MockClock with the internal time set
// to the provided time.
func NewMockClockAt(now time.Time) *MockClock {
	return &MockClock{
		fakeTime: now,
	}
}

// Advance will advance the internal MockClock time by the supplied duration.
func (mc *MockClock) Advance(duration time.Duration) {
	mc.nowLock.Lock()
	mc.fakeTime = mc.fakeTime.Add(duration)
	mc.nowLock.Unlock()
}

// Now returns the current time internal to the MockClock.
func (mc *MockClock) Now() time.Time {
	mc.nowLock.RLock()
	defer mc.nowLock.RUnlock()

	return mc.fakeTime
}
