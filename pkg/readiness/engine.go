package readiness

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infradyn/delivery-engine/pkg/taxonomy"
)

// Engine computes the readiness rollup over a snapshot. It is
// stateless apart from its configuration and safe for concurrent use;
// every query builds its own working maps.
type Engine struct {
	graceDays int
}

// New creates an engine. graceDays widens the AT_RISK band: an
// incomplete item stays AT_RISK until it is more than graceDays past
// its ROS date. Zero means only the ROS day itself is AT_RISK.
func New(graceDays int) *Engine {
	if graceDays < 0 {
		graceDays = 0
	}
	return &Engine{graceDays: graceDays}
}

// resolveDiscipline defends the taxonomy invariant: anything that is
// not a canonical discipline key lands in the synthetic bucket.
func resolveDiscipline(it LineItem) taxonomy.Discipline {
	if taxonomy.IsKnown(it.Discipline) {
		return it.Discipline
	}
	return taxonomy.Uncategorised
}

// resolveClass returns the material-class bucket for an item. A class
// paired with the wrong discipline is treated as uncategorised rather
// than rejected.
func resolveClass(it LineItem) string {
	d := resolveDiscipline(it)
	if d != taxonomy.Uncategorised && taxonomy.HasClass(d, it.MaterialClass) {
		return it.MaterialClass
	}
	return taxonomy.UncategorisedClass
}

// groupMetrics is the shared per-group reduction used by every level.
type groupMetrics struct {
	ordered     decimal.Decimal
	required    decimal.Decimal
	delivered   decimal.Decimal
	valueAtRisk decimal.Decimal
	status      Status
	lateDays    int
	count       int
}

// ItemStatus computes the status of a single item under the engine's
// grace window.
func (e *Engine) ItemStatus(it LineItem, asOf time.Time) (Status, int) {
	return ComputeStatus(it.RequiredBy, it.OrderedQty, it.DeliveredQty, asOf, e.graceDays)
}

func (e *Engine) reduce(items []LineItem, asOf time.Time) groupMetrics {
	m := groupMetrics{
		ordered:     decimal.Zero,
		required:    decimal.Zero,
		delivered:   decimal.Zero,
		valueAtRisk: decimal.Zero,
		count:       len(items),
	}

	statuses := make([]Status, 0, len(items))
	for _, it := range items {
		status, lateDays := ComputeStatus(it.RequiredBy, it.OrderedQty, it.DeliveredQty, asOf, e.graceDays)
		statuses = append(statuses, status)

		m.ordered = m.ordered.Add(it.OrderedQty)
		m.delivered = m.delivered.Add(it.DeliveredQty)
		if it.RequiredBy != nil && daysBetween(*it.RequiredBy, asOf) >= 0 {
			m.required = m.required.Add(it.OrderedQty)
		}
		if lateDays > m.lateDays {
			m.lateDays = lateDays
		}
		if status == StatusLate || status == StatusAtRisk {
			outstanding := it.OrderedQty.Sub(it.DeliveredQty)
			if outstanding.IsPositive() {
				m.valueAtRisk = m.valueAtRisk.Add(it.UnitPrice.Mul(outstanding))
			}
		}
	}

	m.status = WorstStatus(statuses)
	return m
}

// DisciplineSummary is the L1 rollup: one row per canonical
// discipline, always emitted even when empty, plus an uncategorised
// row when any item has no recognisable discipline. Rows are sorted
// worst-status-first with the uncategorised row pinned last.
func (e *Engine) DisciplineSummary(items []LineItem, events []DeliveryEvent, asOf time.Time) []DisciplineSummaryRow {
	trends := newTrendAnalyzer(items, events, func(it LineItem) (string, bool) {
		return string(resolveDiscipline(it)), true
	}, asOf)

	groups := make(map[taxonomy.Discipline][]LineItem)
	for _, it := range items {
		d := resolveDiscipline(it)
		groups[d] = append(groups[d], it)
	}

	disciplines := taxonomy.All()
	if len(groups[taxonomy.Uncategorised]) > 0 {
		disciplines = append(disciplines, taxonomy.Uncategorised)
	}

	rows := make([]DisciplineSummaryRow, 0, len(disciplines))
	for _, d := range disciplines {
		group := groups[d]
		m := e.reduce(group, asOf)

		uncategorised := len(group)
		if d != taxonomy.Uncategorised {
			uncategorised = 0
			for _, it := range group {
				if resolveClass(it) == taxonomy.UncategorisedClass {
					uncategorised++
				}
			}
		}

		rows = append(rows, DisciplineSummaryRow{
			Discipline:         d,
			DisciplineLabel:    taxonomy.Label(d),
			OrderedQty:         m.ordered,
			RequiredQty:        m.required,
			DeliveredQty:       m.delivered,
			UncategorisedCount: uncategorised,
			Status:             m.status,
			LateDays:           m.lateDays,
			ValueAtRisk:        m.valueAtRisk,
			ItemCount:          m.count,
			Trend:              trends.TrendFor(string(d)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if pinned := rows[i].Discipline == taxonomy.Uncategorised; pinned != (rows[j].Discipline == taxonomy.Uncategorised) {
			return !pinned
		}
		return statusRank[rows[i].Status] < statusRank[rows[j].Status]
	})
	return rows
}

// MaterialClassSummary is the L2 rollup within one discipline: one row
// per canonical material class (always emitted), plus an uncategorised
// class row when any item in the discipline lacks a valid class. For
// the synthetic uncategorised discipline the rows additionally carry
// order references for drill-through.
func (e *Engine) MaterialClassSummary(d taxonomy.Discipline, items []LineItem, events []DeliveryEvent, asOf time.Time) []MaterialClassRow {
	if !taxonomy.IsKnown(d) {
		d = taxonomy.Uncategorised
	}

	var scoped []LineItem
	for _, it := range items {
		if resolveDiscipline(it) == d {
			scoped = append(scoped, it)
		}
	}

	trends := newTrendAnalyzer(scoped, events, func(it LineItem) (string, bool) {
		return resolveClass(it), true
	}, asOf)

	groups := make(map[string][]LineItem)
	for _, it := range scoped {
		c := resolveClass(it)
		groups[c] = append(groups[c], it)
	}

	classes := taxonomy.MaterialClasses(d)
	if len(groups[taxonomy.UncategorisedClass]) > 0 || len(classes) == 0 {
		classes = append(classes, taxonomy.UncategorisedClass)
	}

	rows := make([]MaterialClassRow, 0, len(classes))
	for _, c := range classes {
		group := groups[c]
		m := e.reduce(group, asOf)

		row := MaterialClassRow{
			MaterialClass:    c,
			Discipline:       d,
			OrderedQty:       m.ordered,
			RequiredQty:      m.required,
			DeliveredQty:     m.delivered,
			Status:           m.status,
			LateDays:         m.lateDays,
			ItemCount:        m.count,
			PurchaseOrderIDs: distinctOrderIDs(group),
			Trend:            trends.TrendFor(c),
		}
		if d == taxonomy.Uncategorised {
			row.PurchaseOrders = orderRefs(group)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if pinned := rows[i].MaterialClass == taxonomy.UncategorisedClass; pinned != (rows[j].MaterialClass == taxonomy.UncategorisedClass) {
			return !pinned
		}
		return statusRank[rows[i].Status] < statusRank[rows[j].Status]
	})
	return rows
}

func distinctOrderIDs(items []LineItem) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.OrderID == "" || seen[it.OrderID] {
			continue
		}
		seen[it.OrderID] = true
		ids = append(ids, it.OrderID)
	}
	sort.Strings(ids)
	return ids
}

func orderRefs(items []LineItem) []PurchaseOrderRef {
	seen := make(map[string]bool, len(items))
	refs := make([]PurchaseOrderRef, 0, len(items))
	for _, it := range items {
		if it.OrderID == "" || seen[it.OrderID] {
			continue
		}
		seen[it.OrderID] = true
		refs = append(refs, PurchaseOrderRef{ID: it.OrderID, Reference: it.OrderRef})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs
}
