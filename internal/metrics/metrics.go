// Package metrics exposes checkd's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	EventText    = "text"
	EventToggle  = "toggle"
	EventTrigger = "trigger"
	EventIgnored = "ignored"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkd",
		Name:      "events_total",
		Help:      "Inbound events handled, by event kind and outcome.",
	}, []string{"event", "outcome"})

	eventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "checkd",
		Name:      "event_duration_seconds",
		Help:      "Time spent handling one event, including store and provider calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event"})

	triggerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkd",
		Name:      "trigger_runs_total",
		Help:      "Daily checklist sends, by outcome.",
	}, []string{"outcome"})
)

// Observe records one handled event.
func Observe(event string, start time.Time, err error) {
	eventsTotal.WithLabelValues(event, outcome(err)).Inc()
	eventDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
}

func ObserveTrigger(err error) {
	triggerRuns.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
