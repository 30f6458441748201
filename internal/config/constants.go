package config

import "time"

const (
	// Key-value backends
	KVPostgres = "postgres"
	KVRedis    = "redis"
	KVMemory   = "memory"

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Backend request timeout for JSON endpoints
	RequestTimeout = 90 * time.Second

	// Upper bound for a whole streamed chat reply
	StreamTimeout = 3 * time.Minute

	// Minimum gap between edits of a streaming message
	StreamEditInterval = 1200 * time.Millisecond

	// Session ids are kept until the backend reports them expired
	ChatSessionTTL = 30 * 24 * time.Hour

	// Doctor list and personalized food categories
	DoctorCacheDuration     = 1 * time.Hour
	NutritionCacheDuration  = 6 * time.Hour
	DoctorRecommendationMin = 3

	// Idle in-memory transcripts are evicted
	TranscriptIdleAge      = 2 * time.Hour
	TranscriptSweepPeriod  = 10 * time.Minute
	ExpiredKVCleanupPeriod = 15 * time.Minute

	// Per-chat rate limit: sustained messages per minute and burst
	RateLimitPerMinute = 12
	RateLimitBurst     = 4

	// Feature limits
	MaxInsights            = 4
	MaxNutritionCategories = 5
	MaxHistoryShown        = 5

	// Models per page
	ModelsPerPage = 5
)
