package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infradyn/delivery-engine/pkg/taxonomy"
)

func item(id string, d taxonomy.Discipline, class string, ordered, delivered, price int64, rosDaysAgo *int) LineItem {
	it := LineItem{
		ID:            id,
		ItemNumber:    "ITM-" + id,
		Description:   "item " + id,
		Unit:          "ea",
		OrderedQty:    dec(ordered),
		DeliveredQty:  dec(delivered),
		UnitPrice:     dec(price),
		Discipline:    d,
		MaterialClass: class,
		OrderID:       "po-" + id,
		OrderRef:      "PO-" + id,
	}
	if rosDaysAgo != nil {
		it.RequiredBy = daysAgo(*rosDaysAgo)
	}
	return it
}

func days(n int) *int { return &n }

func findDiscipline(t *testing.T, rows []DisciplineSummaryRow, d taxonomy.Discipline) DisciplineSummaryRow {
	t.Helper()
	for _, r := range rows {
		if r.Discipline == d {
			return r
		}
	}
	t.Fatalf("no row for discipline %s", d)
	return DisciplineSummaryRow{}
}

func findClass(t *testing.T, rows []MaterialClassRow, class string) MaterialClassRow {
	t.Helper()
	for _, r := range rows {
		if r.MaterialClass == class {
			return r
		}
	}
	t.Fatalf("no row for class %s", class)
	return MaterialClassRow{}
}

func TestDisciplineSummary_LateItemScenario(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("a", taxonomy.Structural, "Structural Steel", 100, 40, 5, days(10)),
	}

	rows := engine.DisciplineSummary(items, nil, asOf)
	require.Len(t, rows, 6, "every canonical discipline gets a row")

	row := findDiscipline(t, rows, taxonomy.Structural)
	assert.Equal(t, StatusLate, row.Status)
	assert.Equal(t, 10, row.LateDays)
	assert.Equal(t, 1, row.ItemCount)
	assertDec(t, 100, row.OrderedQty)
	assertDec(t, 100, row.RequiredQty)
	assertDec(t, 40, row.DeliveredQty)
	assertDec(t, 300, row.ValueAtRisk) // 5 x 60 outstanding

	// Worst status sorts first.
	assert.Equal(t, taxonomy.Structural, rows[0].Discipline)
}

func TestDisciplineSummary_EmptyGroupsAreHealthy(t *testing.T) {
	engine := New(0)

	rows := engine.DisciplineSummary(nil, nil, asOf)
	require.Len(t, rows, 6)
	for _, row := range rows {
		assert.Equal(t, StatusOnTrack, row.Status)
		assert.Equal(t, 0, row.ItemCount)
		assert.Equal(t, 0, row.LateDays)
		assert.Equal(t, TrendUnknown, row.Trend)
		assertDec(t, 0, row.OrderedQty)
		assertDec(t, 0, row.RequiredQty)
		assertDec(t, 0, row.DeliveredQty)
		assertDec(t, 0, row.ValueAtRisk)
	}
}

func TestDisciplineSummary_UncategorisedPinnedLast(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		// Unknown discipline string lands in the synthetic bucket and
		// is overdue, but still sorts after the canonical rows.
		item("u", taxonomy.Discipline("AI-GUESSED"), "", 50, 0, 2, days(5)),
		item("a", taxonomy.Envelope, "Insulation", 10, 10, 1, days(1)),
	}

	rows := engine.DisciplineSummary(items, nil, asOf)
	require.Len(t, rows, 7)
	last := rows[len(rows)-1]
	assert.Equal(t, taxonomy.Uncategorised, last.Discipline)
	assert.Equal(t, StatusLate, last.Status)
	assert.Equal(t, 1, last.UncategorisedCount)
}

func TestDisciplineSummary_RequiredQtyOnlyCountsDueDemand(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("due", taxonomy.MEP, "Fire Protection", 30, 30, 1, days(2)),
		item("future", taxonomy.MEP, "Fire Protection", 50, 0, 1, days(-14)),
		item("noros", taxonomy.MEP, "Fire Protection", 20, 0, 1, nil),
	}

	row := findDiscipline(t, engine.DisciplineSummary(items, nil, asOf), taxonomy.MEP)
	assertDec(t, 100, row.OrderedQty)
	assertDec(t, 30, row.RequiredQty)
	assert.Equal(t, 3, row.ItemCount)
}

func TestDisciplineSummary_MismatchedClassCountsAsUncategorised(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		// "Facades / Cladding" belongs to ENVELOPE, not STRUCTURAL.
		item("x", taxonomy.Structural, "Facades / Cladding", 10, 0, 1, nil),
	}

	row := findDiscipline(t, engine.DisciplineSummary(items, nil, asOf), taxonomy.Structural)
	assert.Equal(t, 1, row.ItemCount)
	assert.Equal(t, 1, row.UncategorisedCount)
}

func TestMaterialClassSummary_ConservesDisciplineTotals(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("a", taxonomy.Envelope, "Facades / Cladding", 100, 60, 10, days(3)),
		item("b", taxonomy.Envelope, "Facades / Cladding", 40, 0, 8, days(-7)),
		item("c", taxonomy.Envelope, "Curtain Walling", 25, 25, 12, days(1)),
		item("d", taxonomy.Envelope, "", 15, 5, 3, nil),
		item("e", taxonomy.Structural, "Reinforcement", 500, 0, 1, days(2)),
	}

	l1 := findDiscipline(t, engine.DisciplineSummary(items, nil, asOf), taxonomy.Envelope)
	l2 := engine.MaterialClassSummary(taxonomy.Envelope, items, nil, asOf)

	ordered := dec(0)
	delivered := dec(0)
	count := 0
	for _, row := range l2 {
		ordered = ordered.Add(row.OrderedQty)
		delivered = delivered.Add(row.DeliveredQty)
		count += row.ItemCount
	}
	assert.True(t, ordered.Equal(l1.OrderedQty), "ordered: %s vs %s", ordered, l1.OrderedQty)
	assert.True(t, delivered.Equal(l1.DeliveredQty), "delivered: %s vs %s", delivered, l1.DeliveredQty)
	assert.Equal(t, l1.ItemCount, count)
}

func TestMaterialClassSummary_EmitsEveryCanonicalClass(t *testing.T) {
	engine := New(0)

	rows := engine.MaterialClassSummary(taxonomy.Finishes, nil, nil, asOf)
	require.Len(t, rows, len(taxonomy.MaterialClasses(taxonomy.Finishes)))
	for _, row := range rows {
		assert.Equal(t, StatusOnTrack, row.Status)
		assert.Equal(t, 0, row.ItemCount)
		assert.Empty(t, row.PurchaseOrderIDs)
		assert.Nil(t, row.PurchaseOrders)
	}
}

func TestMaterialClassSummary_UncategorisedClassRow(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("a", taxonomy.Finishes, "Ceilings", 10, 0, 1, days(1)),
		item("b", taxonomy.Finishes, "", 5, 0, 1, days(1)),
	}

	rows := engine.MaterialClassSummary(taxonomy.Finishes, items, nil, asOf)
	require.Len(t, rows, len(taxonomy.MaterialClasses(taxonomy.Finishes))+1)

	last := rows[len(rows)-1]
	assert.Equal(t, taxonomy.UncategorisedClass, last.MaterialClass)
	assert.Equal(t, 1, last.ItemCount)
	assert.Equal(t, []string{"po-b"}, last.PurchaseOrderIDs)
	assert.Nil(t, last.PurchaseOrders, "order references only for the uncategorised discipline")
}

func TestMaterialClassSummary_UncategorisedDiscipline(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("u1", "", "", 10, 0, 1, days(1)),
		item("u2", "", "", 20, 0, 1, nil),
		item("a", taxonomy.MEP, "Ceilings", 5, 5, 1, nil), // mismatched pair, stays in MEP
	}

	rows := engine.MaterialClassSummary(taxonomy.Uncategorised, items, nil, asOf)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, taxonomy.UncategorisedClass, row.MaterialClass)
	assert.Equal(t, 2, row.ItemCount)
	assert.Equal(t, []string{"po-u1", "po-u2"}, row.PurchaseOrderIDs)
	require.Len(t, row.PurchaseOrders, 2)
	assert.Equal(t, PurchaseOrderRef{ID: "po-u1", Reference: "PO-u1"}, row.PurchaseOrders[0])
}

func TestMaterialClassSummary_WorstStatusFirst(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("ok", taxonomy.Structural, "Structural Steel", 10, 10, 1, days(1)),
		item("late", taxonomy.Structural, "Reinforcement", 10, 0, 1, days(6)),
	}

	rows := engine.MaterialClassSummary(taxonomy.Structural, items, nil, asOf)
	assert.Equal(t, "Reinforcement", rows[0].MaterialClass)
	assert.Equal(t, StatusLate, rows[0].Status)
}

func TestDisciplineSummary_TrendAttached(t *testing.T) {
	engine := New(0)
	items := []LineItem{
		item("a", taxonomy.Groundworks, "Piling & Foundations", 100, 40, 1, days(1)),
	}
	events := []DeliveryEvent{
		receivedEvent("a", 30, 2),
		receivedEvent("a", 10, 9),
	}

	row := findDiscipline(t, engine.DisciplineSummary(items, events, asOf), taxonomy.Groundworks)
	assert.Equal(t, TrendImproving, row.Trend)

	classRow := findClass(t, engine.MaterialClassSummary(taxonomy.Groundworks, items, events, asOf), "Piling & Foundations")
	assert.Equal(t, TrendImproving, classRow.Trend)
}
