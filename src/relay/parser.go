package relay

import (
	"encoding/json"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/model"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	"github.com/safetrade/escrow-engine/src/utils/task"
)

// Parser decodes raw pg_notify payloads into escrow notifications
type Parser struct {
	*task.Task

	monitor monitoring.Monitor
	input   chan string

	Output chan *model.EscrowNotification
}

func NewParser(config *config.Config) (self *Parser) {
	self = new(Parser)

	self.Output = make(chan *model.EscrowNotification, config.Relay.QueueSize)

	self.Task = task.NewTask(config, "parser").
		WithSubtaskFunc(self.run).
		WithOnStop(func() {
			close(self.Output)
		})

	return
}

func (self *Parser) WithInputChannel(v chan string) *Parser {
	self.input = v
	return self
}

func (self *Parser) WithMonitor(monitor monitoring.Monitor) *Parser {
	self.monitor = monitor
	return self
}

func (self *Parser) run() (err error) {
	for {
		select {
		case <-self.Ctx.Done():
			return nil
		case payload, ok := <-self.input:
			if !ok {
				return nil
			}

			self.monitor.GetReport().Relay.State.NotificationsReceived.Inc()
			self.monitor.GetReport().Relay.State.LastNotificationTime.Store(time.Now().Unix())

			notification := new(model.EscrowNotification)
			err := json.Unmarshal([]byte(payload), notification)
			if err != nil || notification.EscrowID == "" {
				self.monitor.GetReport().Relay.Errors.ParseError.Inc()
				self.Log.WithError(err).
					WithField("payload", payload).
					Error("Failed to parse notification payload")
				continue
			}

			select {
			case <-self.Ctx.Done():
				return nil
			case self.Output <- notification:
				self.monitor.GetReport().Relay.State.NotificationsRelayed.Inc()
			}
		}
	}
}
