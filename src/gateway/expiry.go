package gateway

import (
	"errors"
	"time"

	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/model"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/robfig/cron"
	"gorm.io/gorm"
)

// Sweeper cancels escrows that sat in pending past their deadline.
// Only pending escrows expire, everything further along is settled by
// the parties or the arbiter.
type Sweeper struct {
	*task.Task

	db      *gorm.DB
	ledger  *ledger.Ledger
	monitor monitoring.Monitor

	cron *cron.Cron
}

func NewSweeper(config *config.Config) (self *Sweeper) {
	self = new(Sweeper)

	self.cron = cron.New()

	self.Task = task.NewTask(config, "expiry-sweeper").
		WithOnBeforeStart(self.schedule).
		WithOnStop(func() {
			self.cron.Stop()
		})

	return
}

func (self *Sweeper) WithDB(db *gorm.DB) *Sweeper {
	self.db = db
	return self
}

func (self *Sweeper) WithLedger(ledger *ledger.Ledger) *Sweeper {
	self.ledger = ledger
	return self
}

func (self *Sweeper) WithMonitor(monitor monitoring.Monitor) *Sweeper {
	self.monitor = monitor
	return self
}

func (self *Sweeper) schedule() (err error) {
	err = self.cron.AddFunc(self.Config.Gateway.ExpirySchedule, self.sweep)
	if err != nil {
		return
	}
	self.cron.Start()
	return
}

func (self *Sweeper) sweep() {
	var ids []string
	err := self.db.WithContext(self.Ctx).
		Model(&model.Escrow{}).
		Where("status = ?", model.EscrowStatusPending).
		Where("expires_at < ?", time.Now()).
		Pluck("id", &ids).
		Error
	if err != nil {
		self.Log.WithError(err).Error("Failed to list expired escrows")
		return
	}

	for _, id := range ids {
		_, _, err = self.ledger.Transition(self.Ctx, id, ledger.Event{
			Action: ledger.ActionExpire,
			Actor:  model.ActorExpiry,
		})
		if err != nil {
			// Lost race with a confirmation is fine, expiry only
			// applies while the escrow is still pending
			if errors.Is(err, ledger.ErrInvalidTransition) {
				continue
			}
			self.Log.WithError(err).WithField("escrow_id", id).Error("Failed to expire escrow")
			continue
		}
		self.monitor.GetReport().Gateway.State.EscrowsExpired.Inc()
	}
}
