package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "concierge",
		Name:      "notifications_total",
		Help:      "Request notification deliveries by status",
	},
	[]string{"status"},
)
