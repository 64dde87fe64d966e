package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request counts every handled HTTP request by route and status code.
var Request = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "securevote",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests handled, by route and status code.",
}, []string{"route", "status"})

// BallotsCast counts successfully recorded voting sessions.
var BallotsCast = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "securevote",
	Subsystem: "ballot",
	Name:      "sessions_recorded_total",
	Help:      "Voting sessions recorded successfully.",
})

// DuplicateVotes counts cast attempts rejected by the one-session guard.
var DuplicateVotes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "securevote",
	Subsystem: "ballot",
	Name:      "duplicate_votes_rejected_total",
	Help:      "Cast attempts rejected because the voter already has a session.",
})

// OutboxPublished counts ballot outbox rows published by the relay worker.
var OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "securevote",
	Subsystem: "outbox",
	Name:      "published_total",
	Help:      "Outbox rows published to the event bus.",
})
