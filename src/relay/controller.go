package relay

import (
	"github.com/safetrade/escrow-engine/src/utils/bus"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	monitor_relay "github.com/safetrade/escrow-engine/src/utils/monitoring/relay"
	"github.com/safetrade/escrow-engine/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Bridges storage-level escrow notifications to the push transport.
// One LISTEN connection in, one Redis pub/sub channel per escrow out.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	monitor := monitor_relay.NewMonitor()

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	streamer := NewStreamer(config).
		WithCapacity(config.Relay.QueueSize)

	parser := NewParser(config).
		WithInputChannel(streamer.Output).
		WithMonitor(monitor)

	publisher := bus.NewRedisPublisher(config, "relay-publisher").
		WithInputChannel(parser.Output).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(publisher.Task).
		WithSubtask(parser.Task).
		WithSubtask(streamer.Task)

	return
}
