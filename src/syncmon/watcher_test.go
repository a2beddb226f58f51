package syncmon

import (
	"context"
	"testing"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/bus"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/model"
	monitor_syncmon "github.com/safetrade/escrow-engine/src/utils/monitoring/syncmon"

	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"
)

func TestWatcherTestSuite(t *testing.T) {
	suite.Run(t, new(WatcherTestSuite))
}

type WatcherTestSuite struct {
	suite.Suite

	config     *config.Config
	monitor    *monitor_syncmon.Monitor
	subscriber *fakeSubscriber
	fetcher    *fakeFetcher
	watcher    *Watcher
}

type fakeSubscriber struct {
	messages chan bus.Message
}

func (self *fakeSubscriber) Subscribe(topic string) (<-chan bus.Message, func(), error) {
	return self.messages, func() {}, nil
}

type fakeFetcher struct {
	fetches atomic.Uint64
	fail    atomic.Bool
}

func (self *fakeFetcher) Fetch(ctx context.Context, escrowID string) (*Snapshot, error) {
	if self.fail.Load() {
		return nil, context.DeadlineExceeded
	}
	self.fetches.Inc()
	return &Snapshot{ID: escrowID, Status: model.EscrowStatusActive}, nil
}

func (s *WatcherTestSuite) SetupTest() {
	s.config = config.Default()
	s.config.Syncmon.PollInterval = 10 * time.Millisecond
	s.config.Syncmon.StalenessInterval = 10 * time.Millisecond
	s.config.Syncmon.BroadcastTimeout = 50 * time.Millisecond

	s.monitor = monitor_syncmon.NewMonitor()
	s.subscriber = &fakeSubscriber{messages: make(chan bus.Message, 16)}
	s.fetcher = new(fakeFetcher)

	s.watcher = NewWatcher(s.config, "esc1").
		WithSubscriber(s.subscriber).
		WithFetcher(s.fetcher).
		WithMonitor(s.monitor)
}

func (s *WatcherTestSuite) TearDownTest() {
	s.watcher.StopWait()
}

func (s *WatcherTestSuite) push() {
	s.subscriber.messages <- bus.Message{Topic: model.EscrowChannel("esc1")}
}

func (s *WatcherTestSuite) TestPushDrivesRefresh() {
	s.config.Syncmon.PollInterval = time.Hour
	s.config.Syncmon.StalenessInterval = time.Hour
	s.watcher = NewWatcher(s.config, "esc1").
		WithSubscriber(s.subscriber).
		WithFetcher(s.fetcher).
		WithMonitor(s.monitor)

	s.NoError(s.watcher.Start())
	s.push()

	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.State.PushFetches.Load() == 1
	}, time.Second, 5*time.Millisecond)

	last := s.watcher.Last()
	s.NotNil(last)
	s.Equal(model.EscrowStatusActive, last.Status)
}

func (s *WatcherTestSuite) TestPullFallbackPolls() {
	s.NoError(s.watcher.Start())

	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.State.PullFetches.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func (s *WatcherTestSuite) TestPushStreakDisablesPull() {
	s.NoError(s.watcher.Start())

	for i := 0; i < 3; i++ {
		s.push()
	}

	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.State.PullDisabled.Load() == 1
	}, time.Second, 5*time.Millisecond)
	s.False(s.watcher.governor.PullEnabled())
}

func (s *WatcherTestSuite) TestStalenessRearmsPull() {
	s.NoError(s.watcher.Start())

	for i := 0; i < 3; i++ {
		s.push()
	}
	s.Eventually(func() bool {
		return !s.watcher.governor.PullEnabled()
	}, time.Second, 5*time.Millisecond)

	// No further pushes, the broadcast timeout elapses
	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.State.PullRearmed.Load() == 1
	}, time.Second, 5*time.Millisecond)
	s.True(s.watcher.governor.PullEnabled())
}

func (s *WatcherTestSuite) TestFailedPushFetchBreaksStreak() {
	s.config.Syncmon.PollInterval = time.Hour
	s.config.Syncmon.StalenessInterval = time.Hour
	s.watcher = NewWatcher(s.config, "esc1").
		WithSubscriber(s.subscriber).
		WithFetcher(s.fetcher).
		WithMonitor(s.monitor)

	s.NoError(s.watcher.Start())

	s.push()
	s.push()
	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.State.PushFetches.Load() == 2
	}, time.Second, 5*time.Millisecond)

	s.fetcher.fail.Store(true)
	s.push()
	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.Errors.FetchError.Load() == 1
	}, time.Second, 5*time.Millisecond)

	s.fetcher.fail.Store(false)
	s.push()
	s.Eventually(func() bool {
		return s.monitor.GetReport().Syncmon.State.PushFetches.Load() == 3
	}, time.Second, 5*time.Millisecond)

	// Streak restarted after the failure
	s.True(s.watcher.governor.PullEnabled())
}
