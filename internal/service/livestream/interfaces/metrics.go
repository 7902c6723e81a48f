// internal/service/livestream/interfaces/metrics.go
package interfaces

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intakeMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livestream_intake_messages_total",
		Help: "Chat messages processed by the order intake flow, by outcome.",
	}, []string{"outcome"})

	ordersAutoCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livestream_orders_auto_cancelled_total",
		Help: "Orders cancelled by the deferred payment monitor.",
	})
)
