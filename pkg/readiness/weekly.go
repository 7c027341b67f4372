package readiness

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infradyn/delivery-engine/pkg/taxonomy"
)

// UnscheduledLabel names the L3 bucket for items with no ROS date.
const UnscheduledLabel = "Unscheduled (No ROS date)"

// WeeklyBatches is the L3 rollup: Monday-aligned weekly rows spanning
// the date range of the filtered discipline + material-class pair.
// Weeks with neither required nor delivered quantity are omitted, and
// an unscheduled bucket is prepended when any item has no ROS date.
func (e *Engine) WeeklyBatches(d taxonomy.Discipline, class string, items []LineItem, events []DeliveryEvent, asOf time.Time) []WeeklyBatchRow {
	if !taxonomy.IsKnown(d) {
		d = taxonomy.Uncategorised
	}
	if class == "" {
		class = taxonomy.UncategorisedClass
	}

	scoped := make(map[string]LineItem)
	var scheduled, unscheduled []LineItem
	for _, it := range items {
		if resolveDiscipline(it) != d || resolveClass(it) != class {
			continue
		}
		scoped[it.ID] = it
		if it.RequiredBy == nil {
			unscheduled = append(unscheduled, it)
		} else {
			scheduled = append(scheduled, it)
		}
	}

	// Events of unscheduled items belong to the unscheduled bucket
	// only; a no-ROS item must never surface in a dated week.
	var scheduledEvents, unscheduledEvents []DeliveryEvent
	for _, ev := range events {
		it, ok := scoped[ev.ItemID]
		if !ok {
			continue
		}
		if it.RequiredBy == nil {
			unscheduledEvents = append(unscheduledEvents, ev)
		} else {
			scheduledEvents = append(scheduledEvents, ev)
		}
	}

	rows := e.buildWeeks(scheduled, scoped, scheduledEvents, asOf)

	if len(unscheduled) > 0 {
		rows = append([]WeeklyBatchRow{e.unscheduledBucket(unscheduled, scoped, unscheduledEvents)}, rows...)
	}
	return rows
}

// buildWeeks walks the calendar from the earliest to the latest
// candidate week so the skip-empty-weeks rule applies uniformly,
// rather than grouping over whatever dates happen to exist.
func (e *Engine) buildWeeks(scheduled []LineItem, scoped map[string]LineItem, events []DeliveryEvent, asOf time.Time) []WeeklyBatchRow {
	var candidates []time.Time
	for _, it := range scheduled {
		candidates = append(candidates, *it.RequiredBy)
	}
	for _, ev := range events {
		if ev.ReceivedAt != nil {
			candidates = append(candidates, *ev.ReceivedAt)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, asOf)
	}

	earliest, latest := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c.Before(earliest) {
			earliest = c
		}
		if c.After(latest) {
			latest = c
		}
	}

	var rows []WeeklyBatchRow
	first, last := weekStart(earliest), weekStart(latest)
	for cursor := first; !cursor.After(last); cursor = cursor.AddDate(0, 0, 7) {
		if row, ok := e.weekRow(cursor, scheduled, scoped, events, asOf); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// weekRow builds the row for the week starting at ws, reporting false
// when the week carries neither demand nor supply.
func (e *Engine) weekRow(ws time.Time, scheduled []LineItem, scoped map[string]LineItem, events []DeliveryEvent, asOf time.Time) (WeeklyBatchRow, bool) {
	next := ws.AddDate(0, 0, 7)

	var weekItems []LineItem
	required := decimal.Zero
	for _, it := range scheduled {
		ros := dateOf(*it.RequiredBy)
		if !ros.Before(ws) && ros.Before(next) {
			weekItems = append(weekItems, it)
			required = required.Add(it.OrderedQty)
		}
	}

	delivered := decimal.Zero
	var details []DeliveryDetailRow
	for _, ev := range events {
		inWeek := false
		if ev.ReceivedAt != nil {
			received := dateOf(*ev.ReceivedAt)
			if !received.Before(ws) && received.Before(next) {
				inWeek = true
				delivered = delivered.Add(ev.Quantity)
			}
		} else if it, ok := scoped[ev.ItemID]; ok && it.RequiredBy != nil {
			// Pending deliveries surface in the week their item is due.
			ros := dateOf(*it.RequiredBy)
			inWeek = !ros.Before(ws) && ros.Before(next)
		}
		if inWeek {
			details = append(details, e.detailRow(ev, scoped))
		}
	}

	if required.IsZero() && delivered.IsZero() {
		return WeeklyBatchRow{}, false
	}

	statuses := make([]Status, 0, len(weekItems))
	lateDays := 0
	for _, it := range weekItems {
		status, late := ComputeStatus(it.RequiredBy, it.OrderedQty, it.DeliveredQty, asOf, e.graceDays)
		statuses = append(statuses, status)
		if late > lateDays {
			lateDays = late
		}
	}

	weekEnd := ws.AddDate(0, 0, 6)
	wsCopy, weCopy := ws, weekEnd
	return WeeklyBatchRow{
		WeekStart:    &wsCopy,
		WeekEnd:      &weCopy,
		Label:        fmt.Sprintf("Week %s - %s", ws.Format("02 Jan"), weekEnd.Format("02 Jan 2006")),
		RequiredQty:  required,
		DeliveredQty: delivered,
		Status:       WorstStatus(statuses),
		LateDays:     lateDays,
		Deliveries:   details,
	}, true
}

// unscheduledBucket collects items with no ROS date, whatever their
// quantities; they must never leak into a dated week.
func (e *Engine) unscheduledBucket(unscheduled []LineItem, scoped map[string]LineItem, events []DeliveryEvent) WeeklyBatchRow {
	required := decimal.Zero
	for _, it := range unscheduled {
		required = required.Add(it.OrderedQty)
	}

	delivered := decimal.Zero
	var details []DeliveryDetailRow
	for _, ev := range events {
		if ev.ReceivedAt != nil {
			delivered = delivered.Add(ev.Quantity)
		}
		details = append(details, e.detailRow(ev, scoped))
	}

	return WeeklyBatchRow{
		Label:        UnscheduledLabel,
		RequiredQty:  required,
		DeliveredQty: delivered,
		Status:       StatusNoROS,
		Deliveries:   details,
	}
}

func (e *Engine) detailRow(ev DeliveryEvent, scoped map[string]LineItem) DeliveryDetailRow {
	it := scoped[ev.ItemID]

	status := DeliveryNotDelivered
	if ev.ReceivedAt != nil {
		status = DeliveryOnTime
		if it.RequiredBy != nil && dateOf(*ev.ReceivedAt).After(dateOf(*it.RequiredBy)) {
			status = DeliveryLate
		}
	}

	return DeliveryDetailRow{
		DeliveryID:     ev.ID,
		OrderReference: it.OrderRef,
		ItemNumber:     it.ItemNumber,
		Description:    it.Description,
		Unit:           it.Unit,
		ExpectedDate:   it.RequiredBy,
		ActualDate:     ev.ReceivedAt,
		Qty:            ev.Quantity,
		Status:         status,
	}
}

// weekStart returns the Monday of the week containing t, at midnight.
func weekStart(t time.Time) time.Time {
	t = dateOf(t)
	offset := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	return t.AddDate(0, 0, offset)
}
