package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTables(t *testing.T) {
	require.NoError(t, validateTables())
}

func TestAll_ExcludesUncategorised(t *testing.T) {
	all := All()
	assert.Len(t, all, 6)
	for _, d := range all {
		assert.NotEqual(t, Uncategorised, d)
		assert.True(t, IsKnown(d))
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(Structural))
	assert.False(t, IsKnown(Uncategorised))
	assert.False(t, IsKnown(Discipline("PLUMBING")))
	assert.False(t, IsKnown(Discipline("")))
}

func TestLabel_UnknownFallsBackToUncategorised(t *testing.T) {
	assert.Equal(t, "Structural Works", Label(Structural))
	assert.Equal(t, "Uncategorised", Label(Discipline("NOPE")))
}

func TestMaterialClasses_ClosedOwnership(t *testing.T) {
	seen := make(map[string]Discipline)
	for _, d := range All() {
		classes := MaterialClasses(d)
		require.NotEmpty(t, classes)
		for _, c := range classes {
			owner, dup := seen[c]
			require.False(t, dup, "class %q owned by both %s and %s", c, owner, d)
			seen[c] = d
			assert.True(t, HasClass(d, c))
		}
	}
}

func TestMaterialClasses_UncategorisedHasNone(t *testing.T) {
	assert.Empty(t, MaterialClasses(Uncategorised))
	assert.False(t, HasClass(Uncategorised, UncategorisedClass))
}
