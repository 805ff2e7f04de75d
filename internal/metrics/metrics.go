package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notification records created",
		},
		[]string{"kind", "channel"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications successfully dispatched",
		},
		[]string{"channel"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notification dispatch failures",
		},
		[]string{"channel"},
	)

	AlertsFannedOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_fanned_out_total",
			Help: "Total number of per-recipient alert records produced by fan-out",
		},
		[]string{"event_type"},
	)

	ScheduledSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_scheduled_sweeps_total",
			Help: "Total number of scheduled-send sweep passes",
		},
	)

	NotificationsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_cleaned_total",
			Help: "Total number of read notifications removed by the retention sweep",
		},
	)
)
