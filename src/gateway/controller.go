package gateway

import (
	"github.com/safetrade/escrow-engine/src/confirm"
	"github.com/safetrade/escrow-engine/src/deliverable"
	"github.com/safetrade/escrow-engine/src/dispute"
	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/oracle"
	"github.com/safetrade/escrow-engine/src/utils/bus"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/contentref"
	"github.com/safetrade/escrow-engine/src/utils/evaluator"
	"github.com/safetrade/escrow-engine/src/utils/model"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	monitor_gateway "github.com/safetrade/escrow-engine/src/utils/monitoring/gateway"
	"github.com/safetrade/escrow-engine/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Main class that orchestrates the public API of the escrow platform.
// Wires the ledger, the oracle engine and the push publisher together.
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	db, err := model.NewConnection(self.Ctx, config, "gateway")
	if err != nil {
		return
	}

	monitor := monitor_gateway.NewMonitor()

	monitoringServer := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Direct push notifications, a safety net next to the DB trigger
	// based relay. Both end up on the same per-escrow channels, the
	// subscriber side deduplicates by re-fetching state.
	notifications := make(chan *model.EscrowNotification, config.Relay.QueueSize)

	publisher := bus.NewRedisPublisher(config, "gateway-publisher").
		WithInputChannel(notifications).
		WithMonitor(monitor)

	escrowLedger := ledger.NewLedger(db).
		WithNotificationChannel(notifications)

	tracker := deliverable.NewTracker(db, escrowLedger)
	aggregator := confirm.NewAggregator(escrowLedger, tracker)
	coordinator := dispute.NewCoordinator(escrowLedger)

	engine := oracle.NewEngine(config).
		WithDB(db).
		WithResolver(contentref.NewClient(config)).
		WithEvaluator(evaluator.NewClient(config)).
		WithTracker(tracker).
		WithAggregator(aggregator).
		WithMonitor(monitor)

	sweeper := NewSweeper(config).
		WithDB(db).
		WithLedger(escrowLedger).
		WithMonitor(monitor)

	server := NewServer(config).
		WithLedger(escrowLedger).
		WithTracker(tracker).
		WithAggregator(aggregator).
		WithCoordinator(coordinator).
		WithOracleEngine(engine).
		WithLimiterStore(NewLimiterStore(config)).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(monitoringServer.Task).
		WithSubtask(publisher.Task).
		WithSubtask(engine.Task).
		WithSubtask(sweeper.Task).
		WithSubtask(server.Task)

	return
}
