package readiness

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// statusRank orders statuses worst-first. The same table drives both
// the worst-wins reduction and the display sort so the two can never
// disagree.
var statusRank = map[Status]int{
	StatusLate:    0,
	StatusAtRisk:  1,
	StatusOnTrack: 2,
	StatusNoROS:   3,
}

// ComputeStatus classifies a single line item as of the given moment.
// The returned day count is how far past the required-on-site date the
// item is; it is zero unless the status is AT_RISK or LATE.
//
// An item with nothing ordered, or with everything delivered
// (overdelivery included), is ON_TRACK regardless of dates. An
// incomplete item whose ROS date is at most graceDays in the past is
// AT_RISK; beyond that it is LATE.
func ComputeStatus(requiredBy *time.Time, ordered, delivered decimal.Decimal, asOf time.Time, graceDays int) (Status, int) {
	if !ordered.IsPositive() {
		return StatusOnTrack, 0
	}
	if delivered.GreaterThanOrEqual(ordered) {
		return StatusOnTrack, 0
	}
	if requiredBy == nil {
		return StatusNoROS, 0
	}

	overdue := daysBetween(*requiredBy, asOf)
	if overdue < 0 {
		return StatusOnTrack, 0
	}
	if overdue <= graceDays {
		return StatusAtRisk, overdue
	}
	return StatusLate, overdue
}

// WorstStatus reduces a set of statuses to the most severe one. An
// empty set is vacuously healthy.
func WorstStatus(statuses []Status) Status {
	if len(statuses) == 0 {
		return StatusOnTrack
	}
	worst := statuses[0]
	for _, s := range statuses[1:] {
		if statusRank[s] < statusRank[worst] {
			worst = s
		}
	}
	return worst
}

// dateOf truncates a timestamp to midnight in its own location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole days from a to b, negative when b is
// before a. Both sides are compared at date precision.
func daysBetween(a, b time.Time) int {
	return int(math.Round(dateOf(b).Sub(dateOf(a)).Hours() / 24))
}
