package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters exposed on /metrics alongside the default process collectors.
var (
	Logins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dayflow_logins_total",
		Help: "Successful logins.",
	})
	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dayflow_login_failures_total",
		Help: "Rejected login attempts.",
	})
	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dayflow_checkins_total",
		Help: "Attendance check-ins recorded.",
	})
	CheckOuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dayflow_checkouts_total",
		Help: "Attendance check-outs recorded.",
	})
	LeaveReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dayflow_leave_reviews_total",
		Help: "Leave review decisions by outcome.",
	}, []string{"outcome"})
)
