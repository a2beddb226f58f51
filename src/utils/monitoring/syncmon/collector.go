package monitor_syncmon

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	PushMessagesReceived *prometheus.Desc
	PushFetches          *prometheus.Desc
	PullFetches          *prometheus.Desc
	PullRearmed          *prometheus.Desc
	PullDisabled         *prometheus.Desc
	FetchError           *prometheus.Desc
	SubscribeError       *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "syncmon",
	}

	return &Collector{
		PushMessagesReceived: prometheus.NewDesc("push_messages_received", "", nil, labels),
		PushFetches:          prometheus.NewDesc("push_fetches", "", nil, labels),
		PullFetches:          prometheus.NewDesc("pull_fetches", "", nil, labels),
		PullRearmed:          prometheus.NewDesc("pull_rearmed", "", nil, labels),
		PullDisabled:         prometheus.NewDesc("pull_disabled", "", nil, labels),
		FetchError:           prometheus.NewDesc("fetch_error", "", nil, labels),
		SubscribeError:       prometheus.NewDesc("subscribe_error", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.PushMessagesReceived
	ch <- self.PushFetches
	ch <- self.PullFetches
	ch <- self.PullRearmed
	ch <- self.PullDisabled
	ch <- self.FetchError
	ch <- self.SubscribeError
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.PushMessagesReceived, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.State.PushMessagesReceived.Load()))
	ch <- prometheus.MustNewConstMetric(self.PushFetches, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.State.PushFetches.Load()))
	ch <- prometheus.MustNewConstMetric(self.PullFetches, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.State.PullFetches.Load()))
	ch <- prometheus.MustNewConstMetric(self.PullRearmed, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.State.PullRearmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.PullDisabled, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.State.PullDisabled.Load()))
	ch <- prometheus.MustNewConstMetric(self.FetchError, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.Errors.FetchError.Load()))
	ch <- prometheus.MustNewConstMetric(self.SubscribeError, prometheus.CounterValue, float64(self.monitor.Report.Syncmon.Errors.SubscribeError.Load()))
}
