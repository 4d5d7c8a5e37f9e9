package policies

import (
	"context"
	"time"
)

// CacheKind separates the kinds of derived availability kept in a cache.
type CacheKind string

const (
	CacheNext    CacheKind = "next"
	CacheSummary CacheKind = "summary"
)

// CacheKey addresses one cached availability result. EnablerID is kept apart
// so caches can drop everything of one enabler without matching substrings.
type CacheKey struct {
	Kind      CacheKind
	EnablerID string
	Day       string
}

func NextKey(enablerID string) CacheKey {
	return CacheKey{Kind: CacheNext, EnablerID: enablerID}
}

func SummaryKey(enablerID, day string) CacheKey {
	return CacheKey{Kind: CacheSummary, EnablerID: enablerID, Day: day}
}

// String renders next_<id> or summary_<id>_<day>.
func (k CacheKey) String() string {
	if k.Day == "" {
		return string(k.Kind) + "_" + k.EnablerID
	}
	return string(k.Kind) + "_" + k.EnablerID + "_" + k.Day
}

// AvailabilityCache memoizes derived availability for a limited time. Entries
// are opaque encoded payloads; a payload that no longer decodes is a miss.
type AvailabilityCache interface {
	Get(ctx context.Context, key CacheKey) ([]byte, bool)
	Set(ctx context.Context, key CacheKey, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, enablerID string) error
	Clear(ctx context.Context) error
}
