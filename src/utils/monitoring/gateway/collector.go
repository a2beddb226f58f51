package monitor_gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	EscrowsCreated     *prometheus.Desc
	EscrowsCompleted   *prometheus.Desc
	EscrowsCancelled   *prometheus.Desc
	EscrowsExpired     *prometheus.Desc
	ConfirmationsSaved *prometheus.Desc
	DisputesOpened     *prometheus.Desc
	DisputesResolved   *prometheus.Desc
	ProofsSubmitted    *prometheus.Desc

	VerificationsRun    *prometheus.Desc
	VerificationsPassed *prometheus.Desc
	VerificationsFailed *prometheus.Desc

	MessagesPublished *prometheus.Desc

	DbError          *prometheus.Desc
	Unauthorized     *prometheus.Desc
	Forbidden        *prometheus.Desc
	RateLimited      *prometheus.Desc
	EventAppendError *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "gateway",
	}

	return &Collector{
		EscrowsCreated:     prometheus.NewDesc("escrows_created", "", nil, labels),
		EscrowsCompleted:   prometheus.NewDesc("escrows_completed", "", nil, labels),
		EscrowsCancelled:   prometheus.NewDesc("escrows_cancelled", "", nil, labels),
		EscrowsExpired:     prometheus.NewDesc("escrows_expired", "", nil, labels),
		ConfirmationsSaved: prometheus.NewDesc("confirmations_saved", "", nil, labels),
		DisputesOpened:     prometheus.NewDesc("disputes_opened", "", nil, labels),
		DisputesResolved:   prometheus.NewDesc("disputes_resolved", "", nil, labels),
		ProofsSubmitted:    prometheus.NewDesc("proofs_submitted", "", nil, labels),

		VerificationsRun:    prometheus.NewDesc("oracle_verifications_run", "", nil, labels),
		VerificationsPassed: prometheus.NewDesc("oracle_verifications_passed", "", nil, labels),
		VerificationsFailed: prometheus.NewDesc("oracle_verifications_failed", "", nil, labels),

		MessagesPublished: prometheus.NewDesc("messages_published", "", nil, labels),

		DbError:          prometheus.NewDesc("db_error", "", nil, labels),
		Unauthorized:     prometheus.NewDesc("unauthorized", "", nil, labels),
		Forbidden:        prometheus.NewDesc("forbidden", "", nil, labels),
		RateLimited:      prometheus.NewDesc("rate_limited", "", nil, labels),
		EventAppendError: prometheus.NewDesc("event_append_error", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.EscrowsCreated
	ch <- self.EscrowsCompleted
	ch <- self.EscrowsCancelled
	ch <- self.EscrowsExpired
	ch <- self.ConfirmationsSaved
	ch <- self.DisputesOpened
	ch <- self.DisputesResolved
	ch <- self.ProofsSubmitted
	ch <- self.VerificationsRun
	ch <- self.VerificationsPassed
	ch <- self.VerificationsFailed
	ch <- self.MessagesPublished
	ch <- self.DbError
	ch <- self.Unauthorized
	ch <- self.Forbidden
	ch <- self.RateLimited
	ch <- self.EventAppendError
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.EscrowsCreated, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.EscrowsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.EscrowsCompleted, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.EscrowsCompleted.Load()))
	ch <- prometheus.MustNewConstMetric(self.EscrowsCancelled, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.EscrowsCancelled.Load()))
	ch <- prometheus.MustNewConstMetric(self.EscrowsExpired, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.EscrowsExpired.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConfirmationsSaved, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.ConfirmationsSaved.Load()))
	ch <- prometheus.MustNewConstMetric(self.DisputesOpened, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.DisputesOpened.Load()))
	ch <- prometheus.MustNewConstMetric(self.DisputesResolved, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.DisputesResolved.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProofsSubmitted, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.ProofsSubmitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.VerificationsRun, prometheus.CounterValue, float64(self.monitor.Report.Oracle.State.VerificationsRun.Load()))
	ch <- prometheus.MustNewConstMetric(self.VerificationsPassed, prometheus.CounterValue, float64(self.monitor.Report.Oracle.State.VerificationsPassed.Load()))
	ch <- prometheus.MustNewConstMetric(self.VerificationsFailed, prometheus.CounterValue, float64(self.monitor.Report.Oracle.State.VerificationsFailed.Load()))
	ch <- prometheus.MustNewConstMetric(self.MessagesPublished, prometheus.CounterValue, float64(self.monitor.Report.RedisPublisher.State.MessagesPublished.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbError, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.DbError.Load()))
	ch <- prometheus.MustNewConstMetric(self.Unauthorized, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.Unauthorized.Load()))
	ch <- prometheus.MustNewConstMetric(self.Forbidden, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.Forbidden.Load()))
	ch <- prometheus.MustNewConstMetric(self.RateLimited, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.RateLimited.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventAppendError, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.EventAppendError.Load()))
}
