package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Presence metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_connections_active",
			Help: "Currently open websocket sessions",
		},
	)

	IdentitiesKnown = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_identities_known",
			Help: "Identities known to the presence registry",
		},
	)

	PresenceBroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_presence_broadcasts_total",
			Help: "Membership snapshot broadcasts",
		},
	)

	// Relay metrics
	MessagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_messages_delivered_total",
			Help: "Messages handed to a live recipient session",
		},
	)

	MessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_messages_dropped_total",
			Help: "Messages dropped before delivery",
		},
		[]string{"reason"},
	)

	// History metrics
	HistoryRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_history_records",
			Help: "Records currently retained in the history log",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)
)
