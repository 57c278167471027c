package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	PromptsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "prompts_created_total", Help: "Number of prompts created."},
	)
	PromptsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "prompts_deleted_total", Help: "Number of prompts deleted."},
	)
	PromptViews = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "prompt_views_total", Help: "Number of prompt detail fetches."},
	)
	UpvoteActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "upvote_actions_total", Help: "Upvote counter changes by action."},
		[]string{"action"},
	)
	FeedCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "prompthub", Name: "feed_cache_lookups_total", Help: "Feed cache lookups by result (hit|miss|error)."},
		[]string{"result"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "prompthub", Name: "http_request_duration_seconds", Help: "HTTP request latency by route and status.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(PromptsCreated)
	reg.MustRegister(PromptsDeleted)
	reg.MustRegister(PromptViews)
	reg.MustRegister(UpvoteActions)
	reg.MustRegister(FeedCacheLookups)
	reg.MustRegister(RequestDuration)
}
