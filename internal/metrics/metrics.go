package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decodedesk_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "decodedesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decodedesk_translations_total",
			Help: "Total number of translation requests by mode and outcome.",
		},
		[]string{"mode", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "decodedesk_provider_request_duration_seconds",
			Help:    "Latency of outbound chat-completion calls.",
			Buckets: prometheus.DefBuckets,
		},
	)

	ProviderRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "decodedesk_provider_retries_total",
			Help: "Total number of retried provider attempts.",
		},
	)

	QuotaRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decodedesk_quota_rejections_total",
			Help: "Translation requests rejected by the local quota.",
		},
		[]string{"identity"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TranslationsTotal,
		ProviderRequestDuration,
		ProviderRetriesTotal,
		QuotaRejectionsTotal,
	)
}
