package syncmon

import (
	"context"
	"sync"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/bus"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/model"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	"github.com/safetrade/escrow-engine/src/utils/task"
)

// SnapshotFetcher re-fetches the authoritative escrow state
type SnapshotFetcher interface {
	Fetch(ctx context.Context, escrowID string) (*Snapshot, error)
}

// Watcher keeps a client-side view of one escrow in sync with the
// gateway. Push notifications drive refreshes when they can be
// trusted, a periodic pull fallback covers for them when they can't.
type Watcher struct {
	*task.Task

	escrowID   string
	subscriber bus.Subscriber
	fetcher    SnapshotFetcher
	governor   *Governor
	monitor    monitoring.Monitor
	onUpdate   func(*Snapshot)

	mtx  sync.Mutex
	last *Snapshot
}

func NewWatcher(config *config.Config, escrowID string) (self *Watcher) {
	self = new(Watcher)
	self.escrowID = escrowID

	self.governor = NewGovernor(
		config.Syncmon.BroadcastSuccessThreshold,
		config.Syncmon.BroadcastTimeout,
		time.Now,
	)

	self.Task = task.NewTask(config, "syncmon-watcher").
		WithSubtaskFunc(self.listen).
		WithPeriodicSubtaskFunc(config.Syncmon.PollInterval, self.poll).
		WithPeriodicSubtaskFunc(config.Syncmon.StalenessInterval, self.checkStaleness)

	return
}

func (self *Watcher) WithSubscriber(subscriber bus.Subscriber) *Watcher {
	self.subscriber = subscriber
	return self
}

func (self *Watcher) WithFetcher(fetcher SnapshotFetcher) *Watcher {
	self.fetcher = fetcher
	return self
}

func (self *Watcher) WithMonitor(monitor monitoring.Monitor) *Watcher {
	self.monitor = monitor
	return self
}

// WithOnUpdate registers a callback invoked on every refreshed snapshot
func (self *Watcher) WithOnUpdate(f func(*Snapshot)) *Watcher {
	self.onUpdate = f
	return self
}

// Last returns the most recent snapshot, nil before the first refresh
func (self *Watcher) Last() (out *Snapshot) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.last
}

func (self *Watcher) listen() (err error) {
	messages, cancel, err := self.subscriber.Subscribe(model.EscrowChannel(self.escrowID))
	if err != nil {
		self.monitor.GetReport().Syncmon.Errors.SubscribeError.Inc()
		return
	}
	defer cancel()

	for {
		select {
		case <-self.Ctx.Done():
			return nil
		case _, ok := <-messages:
			if !ok {
				return nil
			}
			self.monitor.GetReport().Syncmon.State.PushMessagesReceived.Inc()
			self.monitor.GetReport().Syncmon.State.LastPushTimestamp.Store(time.Now().Unix())
			self.governor.OnPush()

			// The payload only announces that something changed, the
			// authoritative state comes from a re-fetch.
			self.refresh(true)
		}
	}
}

func (self *Watcher) poll() (err error) {
	if !self.governor.PullEnabled() {
		return nil
	}
	self.refresh(false)
	return nil
}

func (self *Watcher) checkStaleness() (err error) {
	if self.governor.CheckStaleness() {
		self.monitor.GetReport().Syncmon.State.PullRearmed.Inc()
		self.Log.WithField("escrow_id", self.escrowID).
			Warn("Push went stale, pull fallback re-armed")
	}
	return nil
}

func (self *Watcher) refresh(push bool) {
	snapshot, err := self.fetcher.Fetch(self.Ctx, self.escrowID)
	if err != nil {
		self.monitor.GetReport().Syncmon.Errors.FetchError.Inc()
		if push {
			self.governor.OnPushFetchFailure()
		}
		self.Log.WithError(err).
			WithField("escrow_id", self.escrowID).
			Error("Failed to fetch escrow state")
		return
	}

	if push {
		self.monitor.GetReport().Syncmon.State.PushFetches.Inc()
		if self.governor.OnPushFetchSuccess() {
			self.monitor.GetReport().Syncmon.State.PullDisabled.Inc()
			self.Log.WithField("escrow_id", self.escrowID).
				Info("Push delivery trusted, pull fallback disabled")
		}
	} else {
		self.monitor.GetReport().Syncmon.State.PullFetches.Inc()
	}

	self.mtx.Lock()
	self.last = snapshot
	self.mtx.Unlock()

	if self.onUpdate != nil {
		self.onUpdate(snapshot)
	}
}
