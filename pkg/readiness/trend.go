package readiness

import (
	"time"

	"github.com/shopspring/decimal"
)

// trendWindowDays is the size of each comparison window.
const trendWindowDays = 7

// trendAnalyzer precomputes delivered quantity per bucket for the
// trailing window and the one before it, then answers TrendFor with
// per-call memoization. An analyzer is built fresh for every query and
// must not be shared across calls.
type trendAnalyzer struct {
	last map[string]decimal.Decimal
	prev map[string]decimal.Decimal
	seen map[string]bool
	memo map[string]Trend
}

// newTrendAnalyzer buckets received delivery quantities by the key of
// the item each event fulfils. Events for unknown items, and events
// not yet received, are ignored. bucketOf reports false for items that
// fall outside the current query scope.
func newTrendAnalyzer(items []LineItem, events []DeliveryEvent, bucketOf func(LineItem) (string, bool), asOf time.Time) *trendAnalyzer {
	ta := &trendAnalyzer{
		last: make(map[string]decimal.Decimal),
		prev: make(map[string]decimal.Decimal),
		seen: make(map[string]bool),
		memo: make(map[string]Trend),
	}

	buckets := make(map[string]string, len(items))
	for _, it := range items {
		if key, ok := bucketOf(it); ok {
			buckets[it.ID] = key
		}
	}

	end := dateOf(asOf)
	mid := end.AddDate(0, 0, -trendWindowDays)
	start := mid.AddDate(0, 0, -trendWindowDays)

	for _, ev := range events {
		if ev.ReceivedAt == nil {
			continue
		}
		key, ok := buckets[ev.ItemID]
		if !ok {
			continue
		}
		ta.seen[key] = true

		received := dateOf(*ev.ReceivedAt)
		switch {
		case !received.Before(mid) && received.Before(end):
			ta.last[key] = ta.last[key].Add(ev.Quantity)
		case !received.Before(start) && received.Before(mid):
			ta.prev[key] = ta.prev[key].Add(ev.Quantity)
		}
	}

	return ta
}

// TrendFor classifies a bucket. Buckets with no delivery history at
// all are UNKNOWN; a bucket that exists but was quiet in both windows
// is flat, not unknown.
func (ta *trendAnalyzer) TrendFor(bucket string) Trend {
	if trend, ok := ta.memo[bucket]; ok {
		return trend
	}

	var trend Trend
	switch {
	case !ta.seen[bucket]:
		trend = TrendUnknown
	case ta.last[bucket].GreaterThan(ta.prev[bucket]):
		trend = TrendImproving
	case ta.last[bucket].LessThan(ta.prev[bucket]):
		trend = TrendDeteriorating
	default:
		trend = TrendStable
	}

	ta.memo[bucket] = trend
	return trend
}
