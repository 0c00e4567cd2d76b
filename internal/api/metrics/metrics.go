// Package metrics defines and registers the custom Prometheus metrics of the
// pizza API. It is the single source of truth for metric names, labels, and
// help strings.
//
// All collectors are registered with the default registry at package init
// through promauto, so /metrics exposes them next to the echoprometheus
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pizza"

// ── Pizza metrics ─────────────────────────────────────────────────────────────

// PizzasCreatedTotal counts pizzas stored successfully.
var PizzasCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pizzas_created_total",
		Help:      "Total number of pizzas created.",
	},
)

// PizzasHiddenTotal counts soft-deletes that actually flipped a pizza to hidden.
var PizzasHiddenTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pizzas_hidden_total",
		Help:      "Total number of pizzas hidden by their owner.",
	},
)

// ListPageSize observes how many pizzas each list request returned.
var ListPageSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_page_size",
		Help:      "Number of pizzas returned per list page.",
		Buckets:   []float64{0, 1, 5, 10, 15, 20},
	},
)

// RateLimitedTotal counts create requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Activity log metrics ──────────────────────────────────────────────────────

// ActivityEventsTotal counts activity events persisted to the audit trail.
// Label:
//   - action: "created" or "hidden"
var ActivityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of activity events recorded, by action.",
	},
	[]string{"action"},
)

// ActivityEventsDroppedTotal counts events discarded because their worker
// buffer was full or the dispatcher had stopped.
var ActivityEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_dropped_total",
		Help:      "Total number of activity events dropped before being recorded.",
	},
)

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
