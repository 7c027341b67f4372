// Package taxonomy defines the fixed two-level procurement taxonomy
// (discipline → material class) and the normalization of free-text or
// AI-extracted values onto canonical keys.
package taxonomy

import "fmt"

// Discipline is a canonical discipline key.
type Discipline string

// Canonical discipline keys. Uncategorised is a synthetic bucket for
// items that carry no recognisable discipline; it is never a valid
// classification target for the normalizer.
const (
	Groundworks   Discipline = "GROUNDWORKS"
	Structural    Discipline = "STRUCTURAL"
	Envelope      Discipline = "ENVELOPE"
	MEP           Discipline = "MEP"
	Finishes      Discipline = "FINISHES"
	External      Discipline = "EXTERNAL"
	Uncategorised Discipline = "UNCATEGORISED"
)

// UncategorisedClass is the synthetic per-discipline material-class
// bucket for items without a recognisable class.
const UncategorisedClass = "Uncategorised"

var disciplineLabels = map[Discipline]string{
	Groundworks:   "Groundworks & Substructure",
	Structural:    "Structural Works",
	Envelope:      "Building Envelope",
	MEP:           "Mechanical, Electrical & Plumbing",
	Finishes:      "Internal Finishes",
	External:      "External Works",
	Uncategorised: "Uncategorised",
}

// disciplineOrder is the display order for the canonical disciplines.
var disciplineOrder = []Discipline{
	Groundworks,
	Structural,
	Envelope,
	MEP,
	Finishes,
	External,
}

var materialClasses = map[Discipline][]string{
	Groundworks: {
		"Earthworks & Excavation",
		"Piling & Foundations",
		"Drainage & Utilities",
		"Retaining Structures",
		"Ground Improvement",
	},
	Structural: {
		"Structural Steel",
		"Precast Concrete",
		"In-situ Concrete",
		"Reinforcement",
		"Metal Decking",
		"Timber Structures",
	},
	Envelope: {
		"Facades / Cladding",
		"Curtain Walling",
		"Roofing & Waterproofing",
		"Windows & Glazing",
		"External Doors",
		"Insulation",
	},
	MEP: {
		"HVAC & Ventilation",
		"Electrical Distribution",
		"Plumbing & Drainage",
		"Fire Protection",
		"Lifts & Escalators",
		"Controls & BMS",
	},
	Finishes: {
		"Partitions & Drylining",
		"Ceilings",
		"Flooring",
		"Joinery & Carpentry",
		"Painting & Decorating",
		"Internal Doors",
	},
	External: {
		"Roads & Paving",
		"Hard Landscaping",
		"Soft Landscaping",
		"Fencing & Barriers",
		"External Lighting",
	},
}

func init() {
	if err := validateTables(); err != nil {
		panic(err)
	}
}

// validateTables checks closure of the taxonomy: every canonical
// discipline has a label and a class list, and every material class
// belongs to exactly one discipline.
func validateTables() error {
	owners := make(map[string]Discipline)
	for _, d := range disciplineOrder {
		if _, ok := disciplineLabels[d]; !ok {
			return fmt.Errorf("taxonomy: discipline %s has no label", d)
		}
		classes, ok := materialClasses[d]
		if !ok || len(classes) == 0 {
			return fmt.Errorf("taxonomy: discipline %s has no material classes", d)
		}
		for _, c := range classes {
			if owner, dup := owners[c]; dup {
				return fmt.Errorf("taxonomy: material class %q owned by both %s and %s", c, owner, d)
			}
			owners[c] = d
		}
	}
	return nil
}

// All returns the canonical disciplines in display order, excluding
// the synthetic Uncategorised bucket.
func All() []Discipline {
	out := make([]Discipline, len(disciplineOrder))
	copy(out, disciplineOrder)
	return out
}

// IsKnown reports whether d is one of the canonical discipline keys.
func IsKnown(d Discipline) bool {
	_, ok := materialClasses[d]
	return ok
}

// Label returns the human-readable label for a discipline key.
// Unknown keys fall back to the Uncategorised label.
func Label(d Discipline) string {
	if label, ok := disciplineLabels[d]; ok {
		return label
	}
	return disciplineLabels[Uncategorised]
}

// MaterialClasses returns the canonical class list for a discipline.
// The synthetic Uncategorised discipline (and any unknown key) has no
// canonical classes.
func MaterialClasses(d Discipline) []string {
	classes := materialClasses[d]
	out := make([]string, len(classes))
	copy(out, classes)
	return out
}

// HasClass reports whether class is a canonical material class of d.
func HasClass(d Discipline, class string) bool {
	for _, c := range materialClasses[d] {
		if c == class {
			return true
		}
	}
	return false
}
