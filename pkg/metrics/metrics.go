package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "enchantedtales", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "enchantedtales", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	StoriesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "enchantedtales", Name: "stories_created_total", Help: "Number of stories created by source (api or upload)."},
		[]string{"source"},
	)
	UploadFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "enchantedtales", Name: "upload_files_total", Help: "Number of uploaded files processed by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(StoriesCreated)
	reg.MustRegister(UploadFiles)
}
