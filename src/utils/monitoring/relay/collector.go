package monitor_relay

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	NotificationsReceived *prometheus.Desc
	NotificationsRelayed  *prometheus.Desc
	MessagesPublished     *prometheus.Desc
	ListenError           *prometheus.Desc
	ParseError            *prometheus.Desc
	PublishError          *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "relay",
	}

	return &Collector{
		NotificationsReceived: prometheus.NewDesc("notifications_received", "", nil, labels),
		NotificationsRelayed:  prometheus.NewDesc("notifications_relayed", "", nil, labels),
		MessagesPublished:     prometheus.NewDesc("messages_published", "", nil, labels),
		ListenError:           prometheus.NewDesc("listen_error", "", nil, labels),
		ParseError:            prometheus.NewDesc("parse_error", "", nil, labels),
		PublishError:          prometheus.NewDesc("publish_error", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.NotificationsReceived
	ch <- self.NotificationsRelayed
	ch <- self.MessagesPublished
	ch <- self.ListenError
	ch <- self.ParseError
	ch <- self.PublishError
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.NotificationsReceived, prometheus.CounterValue, float64(self.monitor.Report.Relay.State.NotificationsReceived.Load()))
	ch <- prometheus.MustNewConstMetric(self.NotificationsRelayed, prometheus.CounterValue, float64(self.monitor.Report.Relay.State.NotificationsRelayed.Load()))
	ch <- prometheus.MustNewConstMetric(self.MessagesPublished, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.State.MessagesPublished.Load()))
	ch <- prometheus.MustNewConstMetric(self.ListenError, prometheus.CounterValue, float64(self.monitor.Report.Relay.Errors.ListenError.Load()))
	ch <- prometheus.MustNewConstMetric(self.ParseError, prometheus.CounterValue, float64(self.monitor.Report.Relay.Errors.ParseError.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishError, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.Errors.Publish.Load()))
}
