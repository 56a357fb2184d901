package constants

import (
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Advermo booking engine
// Pattern: advermo:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // 15 minutes - for space pricing
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX      = "advermo"
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit"
)

// ================== SPACES MODULE ==================

// Space Cache Keys
const (
	CACHE_KEY_SPACE_DETAIL = CACHE_PREFIX + ":spaces:detail:id:" // + space-id
)

// Space Cache TTLs
const (
	TTL_SPACE_DETAIL = TTL_SEMI_STATIC_QUICK // 15 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_SPACES_ALL = CACHE_PREFIX + ":spaces:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildSpaceDetailKey(spaceID string) string {
	return CACHE_KEY_SPACE_DETAIL + spaceID
}

func BuildRateLimitKey(clientIP, limitType string) string {
	return RATE_LIMIT_PREFIX + ":" + clientIP + ":" + limitType
}
