package readiness

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var asOf = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func daysAgo(n int) *time.Time {
	t := asOf.AddDate(0, 0, -n)
	return &t
}

func assertDec(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %d, got %s", want, got)
}

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name      string
		requiredBy *time.Time
		ordered   int64
		delivered int64
		grace     int
		want      Status
		wantLate  int
	}{
		{"no ros incomplete", nil, 100, 40, 0, StatusNoROS, 0},
		{"no ros fully delivered", nil, 100, 100, 0, StatusOnTrack, 0},
		{"nothing ordered", daysAgo(30), 0, 0, 0, StatusOnTrack, 0},
		{"future ros incomplete", daysAgo(-5), 100, 0, 0, StatusOnTrack, 0},
		{"due today grace zero", daysAgo(0), 100, 40, 0, StatusAtRisk, 0},
		{"one day overdue grace zero", daysAgo(1), 100, 40, 0, StatusLate, 1},
		{"ten days overdue grace zero", daysAgo(10), 100, 40, 0, StatusLate, 10},
		{"inside grace band", daysAgo(3), 100, 40, 3, StatusAtRisk, 3},
		{"just past grace band", daysAgo(4), 100, 40, 3, StatusLate, 4},
		{"overdelivered past due", daysAgo(10), 100, 120, 0, StatusOnTrack, 0},
		{"exactly delivered past due", daysAgo(10), 100, 100, 0, StatusOnTrack, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, lateDays := ComputeStatus(tt.requiredBy, dec(tt.ordered), dec(tt.delivered), asOf, tt.grace)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.wantLate, lateDays)
		})
	}
}

func TestComputeStatus_MonotonicInDeliveredQty(t *testing.T) {
	// With a past-due ROS date, shrinking the delivered quantity can
	// never improve the status.
	prevRank := -1
	for _, delivered := range []int64{120, 100, 99, 50, 1, 0} {
		status, _ := ComputeStatus(daysAgo(10), dec(100), dec(delivered), asOf, 0)
		rank := statusRank[status]
		if prevRank >= 0 {
			assert.LessOrEqual(t, rank, prevRank, "delivered=%d", delivered)
		}
		prevRank = rank
		if delivered >= 100 {
			assert.Equal(t, StatusOnTrack, status)
		}
	}
}

func TestWorstStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty is vacuously healthy", nil, StatusOnTrack},
		{"single late", []Status{StatusLate}, StatusLate},
		{"single at risk", []Status{StatusAtRisk}, StatusAtRisk},
		{"single no ros", []Status{StatusNoROS}, StatusNoROS},
		{"late always wins", []Status{StatusNoROS, StatusOnTrack, StatusLate, StatusAtRisk}, StatusLate},
		{"at risk beats on track", []Status{StatusOnTrack, StatusAtRisk, StatusOnTrack}, StatusAtRisk},
		{"on track beats no ros", []Status{StatusNoROS, StatusOnTrack}, StatusOnTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorstStatus(tt.statuses))
		})
	}
}

func TestWorstStatus_Idempotent(t *testing.T) {
	for s := range statusRank {
		assert.Equal(t, s, WorstStatus([]Status{s}))
		assert.Equal(t, s, WorstStatus([]Status{s, s, s}))
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 6, 18, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 10, daysBetween(a, b))
	assert.Equal(t, -10, daysBetween(b, a))
	assert.Equal(t, 0, daysBetween(b, b))
}
