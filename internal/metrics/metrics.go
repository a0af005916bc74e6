package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the ingestion and delivery
// pipeline. All collectors live on a private registry so tests can build
// isolated instances and the process exposes exactly what it registered.
type Metrics struct {
	registry *prometheus.Registry

	// Ingestion
	EventsIngested    *prometheus.CounterVec
	EventsDuplicate   prometheus.Counter
	IngestionDuration prometheus.Histogram

	// Delivery queue
	WebhooksQueued         *prometheus.CounterVec
	WebhooksQueuedOverflow *prometheus.CounterVec
	WebhooksDelivered      *prometheus.CounterVec
	WebhooksFailed         *prometheus.CounterVec
	WebhooksDeadLetter     prometheus.Counter
	RetryAttempts          *prometheus.CounterVec

	// Worker state
	QueueSize          *prometheus.GaugeVec
	QueueOldestAge     prometheus.Gauge
	ActiveWorkers      prometheus.Gauge
	DeliveryLatency    *prometheus.HistogramVec
	ProcessingDuration prometheus.Histogram

	// Rate limiting
	RateLimitTrackedIdentities prometheus.Gauge
}

// New builds a Metrics instance with every collector registered on a fresh
// private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		EventsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_ingested_total",
				Help: "Total number of upstream call events processed, by event type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
		EventsDuplicate: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "events_duplicate_total",
				Help: "Total number of upstream events skipped because the event ID was already recorded",
			},
		),
		IngestionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingestion_duration_seconds",
				Help:    "Time spent processing a single upstream event from receipt to commit",
				Buckets: prometheus.DefBuckets,
			},
		),

		WebhooksQueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhooks_queued_total",
				Help: "Total number of webhook deliveries enqueued, by event type",
			},
			[]string{"event_type"},
		),
		WebhooksQueuedOverflow: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhooks_queued_overflow_total",
				Help: "Total number of deliveries enqueued while a tenant backlog exceeded the soft cap",
			},
			[]string{"tenant"},
		),
		WebhooksDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhooks_delivered_total",
				Help: "Total number of webhook deliveries acknowledged with a 2xx response, by event type",
			},
			[]string{"event_type"},
		),
		WebhooksFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhooks_failed_total",
				Help: "Total number of failed delivery attempts, by event type and response status",
			},
			[]string{"event_type", "status"},
		),
		WebhooksDeadLetter: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "webhooks_dead_letter_total",
				Help: "Total number of deliveries moved to the dead letter state",
			},
		),
		RetryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retry_attempts_total",
				Help: "Total number of retries scheduled, by attempt number",
			},
			[]string{"attempt"},
		),

		QueueSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "queue_size",
				Help: "Number of rows in the delivery queue, by status",
			},
			[]string{"status"},
		),
		QueueOldestAge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "queue_oldest_age_seconds",
				Help: "Age in seconds of the oldest delivery that is due but not yet picked up",
			},
		),
		ActiveWorkers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_workers",
				Help: "Number of in-flight delivery goroutines",
			},
		),
		DeliveryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "delivery_latency_seconds",
				Help:    "Round trip time of outbound webhook POSTs, by partner webhook ID",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"partner"},
		),
		ProcessingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "processing_duration_seconds",
				Help:    "Time spent handling one claimed delivery, including result recording",
				Buckets: prometheus.DefBuckets,
			},
		),

		RateLimitTrackedIdentities: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rate_limit_tracked_identities",
				Help: "Number of identities currently tracked by the rate limiter",
			},
		),
	}

	m.registry.MustRegister(
		m.EventsIngested,
		m.EventsDuplicate,
		m.IngestionDuration,
		m.WebhooksQueued,
		m.WebhooksQueuedOverflow,
		m.WebhooksDelivered,
		m.WebhooksFailed,
		m.WebhooksDeadLetter,
		m.RetryAttempts,
		m.QueueSize,
		m.QueueOldestAge,
		m.ActiveWorkers,
		m.DeliveryLatency,
		m.ProcessingDuration,
		m.RateLimitTrackedIdentities,
	)

	return m
}

// Registry exposes the underlying registry so other exporters, such as the
// OpenCensus bridge, can register on the same endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler serving the registry in the Prometheus
// text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
