package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for resident intake.
type Metrics struct {
	// Submission outcomes: accepted, invalid, forbidden, failed
	Submissions *prometheus.CounterVec

	SubmitLatency prometheus.Histogram

	// Step saves by step and outcome
	StepSaves *prometheus.CounterVec

	// Background sync polls by outcome
	SyncPolls *prometheus.CounterVec

	SyncLatency prometheus.Histogram

	// Pending review notices by outcome: queued, dropped, sent, failed
	Notifications *prometheus.CounterVec

	OpenSessions prometheus.Gauge
}

// New registers the intake metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the intake metrics with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "residentportal_profile_submissions_total",
			Help: "Profile submissions by outcome",
		}, []string{"outcome"}),

		SubmitLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "residentportal_profile_submit_duration_seconds",
			Help:    "Duration of profile submission including validation and persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		StepSaves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "residentportal_profile_step_saves_total",
			Help: "Wizard step saves by step and outcome",
		}, []string{"step", "outcome"}),

		SyncPolls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "residentportal_profile_sync_polls_total",
			Help: "Background status and profile polls by outcome",
		}, []string{"outcome"}),

		SyncLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "residentportal_profile_sync_duration_seconds",
			Help:    "Duration of one background sync pass over open sessions",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "residentportal_pending_review_notifications_total",
			Help: "Pending review notifications by outcome",
		}, []string{"outcome"}),

		OpenSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "residentportal_intake_sessions_open",
			Help: "Intake sessions currently open",
		}),
	}
}

func (m *Metrics) IncrementSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementStepSave(step, outcome string) {
	if m != nil {
		m.StepSaves.WithLabelValues(step, outcome).Inc()
	}
}

func (m *Metrics) IncrementSyncPoll(outcome string) {
	if m != nil {
		m.SyncPolls.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveSyncLatency(d time.Duration) {
	if m != nil {
		m.SyncLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementNotification(outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) SetOpenSessions(n int) {
	if m != nil {
		m.OpenSessions.Set(float64(n))
	}
}
