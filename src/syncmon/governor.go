package syncmon

import (
	"sync"
	"time"
)

// Governor decides whether the pull fallback is needed. Push delivery
// is trusted only after a streak of successful push-triggered fetches,
// and the trust is revoked as soon as the stream goes quiet for longer
// than the staleness window.
type Governor struct {
	successThreshold int
	staleAfter       time.Duration
	clock            func() time.Time

	mtx                  sync.Mutex
	consecutiveSuccesses int
	pullEnabled          bool
	lastPush             time.Time
}

func NewGovernor(successThreshold int, staleAfter time.Duration, clock func() time.Time) (self *Governor) {
	self = new(Governor)
	self.successThreshold = successThreshold
	self.staleAfter = staleAfter
	self.clock = clock

	// Pull runs until push proves itself
	self.pullEnabled = true
	self.lastPush = clock()
	return
}

func (self *Governor) PullEnabled() bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.pullEnabled
}

// OnPush records that a push message arrived
func (self *Governor) OnPush() {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.lastPush = self.clock()
}

// OnPushFetchSuccess counts a successful push-triggered refresh.
// Returns true when the streak just reached the threshold and the pull
// fallback got disabled.
func (self *Governor) OnPushFetchSuccess() (pullDisabled bool) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.consecutiveSuccesses++
	if self.pullEnabled && self.consecutiveSuccesses >= self.successThreshold {
		self.pullEnabled = false
		pullDisabled = true
	}
	return
}

// OnPushFetchFailure breaks the streak
func (self *Governor) OnPushFetchFailure() {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.consecutiveSuccesses = 0
}

// CheckStaleness re-arms the pull fallback when no push arrived within
// the staleness window. Returns true when pull was just re-enabled.
func (self *Governor) CheckStaleness() (rearmed bool) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.pullEnabled {
		return
	}

	if self.clock().Sub(self.lastPush) > self.staleAfter {
		self.pullEnabled = true
		self.consecutiveSuccesses = 0
		rearmed = true
	}
	return
}

// LastPush returns when the last push message arrived
func (self *Governor) LastPush() time.Time {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.lastPush
}
