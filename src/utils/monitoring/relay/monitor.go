package monitor_relay

import (
	"net/http"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/monitoring/report"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report    report.Report
	collector *Collector
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:            &report.RunReport{},
		Relay:          &report.RelayReport{},
		RedisPublisher: &report.RedisPublisherReport{},
	}
	self.Report.Run.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor")
	return
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

// Relay is healthy as long as the LISTEN connection keeps delivering.
// A fresh process gets a grace period before the check kicks in.
func (self *Monitor) IsOK() bool {
	now := time.Now().Unix()
	if now-self.Report.Run.StartTimestamp.Load() < 300 {
		return true
	}
	return self.Report.Relay.Errors.ListenError.Load() == 0 ||
		self.Report.Relay.State.NotificationsRelayed.Load() > 0
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.Fill()
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
