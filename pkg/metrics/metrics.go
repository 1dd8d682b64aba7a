package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "byteedoc", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "byteedoc", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	AssetUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "byteedoc", Name: "asset_uploads_total", Help: "Number of asset uploads by content type and outcome."},
		[]string{"schema", "outcome"},
	)
	AssetUploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "byteedoc", Name: "asset_upload_bytes_total", Help: "Total bytes uploaded to object storage."},
	)
	DocumentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "byteedoc", Name: "document_writes_total", Help: "Number of document writes by collection and outcome."},
		[]string{"collection", "outcome"},
	)
	ContactMessages = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "byteedoc", Name: "contact_messages_total", Help: "Number of contact form submissions accepted."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AssetUploads)
	reg.MustRegister(AssetUploadBytes)
	reg.MustRegister(DocumentWrites)
	reg.MustRegister(ContactMessages)
}
