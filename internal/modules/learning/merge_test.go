package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/yungbote/chekinn-backend/internal/domain"
)

func TestMergeBigRocksUnion(t *testing.T) {
	existing := types.Learnings{BigRocks: []string{"CAT 2025"}}
	delta := types.Learnings{BigRocks: []string{"job switch", "CAT 2025"}}

	got := Merge(existing, delta)
	assert.ElementsMatch(t, []string{"CAT 2025", "job switch"}, got.BigRocks)
	assert.Len(t, got.BigRocks, 2)
}

func TestMergeEmptyDeltaIsIdentity(t *testing.T) {
	x := types.Learnings{
		BigRocks:           []string{"a"},
		RecurringThemes:    []string{"overthinks"},
		NorthStar:          "IIM A",
		CommunicationStyle: "short voice notes",
		ImportantPeople:    []types.Person{{Name: "Riya", Context: "sister"}},
		LifeEvents:         []types.LifeEvent{{Event: "moved to Pune"}},
	}.Normalized()

	assert.Equal(t, x, Merge(x, types.Learnings{}))
	assert.Equal(t, x, Merge(x, types.Learnings{NorthStar: "   ", BigRocks: []string{""}}))
}

func TestMergeIsMonotonic(t *testing.T) {
	existing := types.Learnings{
		Constraints:       []string{"no relocation"},
		EmotionalPatterns: []string{"anxious before mocks"},
		ImportantPeople:   []types.Person{{Name: "Dev"}},
		LifeEvents:        []types.LifeEvent{{Event: "promotion"}},
		NorthStar:         "run a startup",
	}
	delta := types.Learnings{
		Constraints:     []string{"evening study only"},
		ImportantPeople: []types.Person{{Name: "Dev", Context: "mentor"}, {Name: ""}},
		LifeEvents:      []types.LifeEvent{{Event: "promotion"}},
		NorthStar:       "IIM B",
	}

	got := Merge(existing, delta)
	for _, c := range existing.Constraints {
		assert.Contains(t, got.Constraints, c)
	}
	assert.Equal(t, []string{"no relocation", "evening study only"}, got.Constraints)
	assert.Equal(t, []string{"anxious before mocks"}, got.EmotionalPatterns)
	assert.Equal(t, "IIM B", got.NorthStar)
	// append-only fields keep duplicates and order
	assert.Equal(t, []types.Person{{Name: "Dev"}, {Name: "Dev", Context: "mentor"}, {Name: ""}}, got.ImportantPeople)
	assert.Len(t, got.LifeEvents, 2)
	assert.Equal(t, []string{}, got.BigRocks)
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	existing := types.Learnings{BigRocks: []string{"a"}}
	got := Merge(existing, types.Learnings{BigRocks: []string{"b"}})
	got.BigRocks[0] = "mutated"
	assert.Equal(t, "a", existing.BigRocks[0])
}

func TestEveryN(t *testing.T) {
	p := EveryN{N: 5}
	assert.True(t, p.ShouldExtract(0))
	assert.False(t, p.ShouldExtract(2))
	assert.True(t, p.ShouldExtract(10))
	assert.False(t, EveryN{}.ShouldExtract(10))
	assert.True(t, PolicyFunc(func(int64) bool { return true }).ShouldExtract(3))
}

func TestMergeUnionTrimsBothSides(t *testing.T) {
	existing := types.Learnings{RecurringThemes: []string{" money stress ", "career doubt", "career doubt "}}
	delta := types.Learnings{RecurringThemes: []string{"money stress", "  family  "}}

	got := Merge(existing, delta)
	assert.Equal(t, []string{"money stress", "career doubt", "family"}, got.RecurringThemes)
}

func TestMergeAppendFieldsKeepEveryDeltaEntry(t *testing.T) {
	existing := types.Learnings{LifeEvents: []types.LifeEvent{{Event: "graduated"}}}
	delta := types.Learnings{
		ImportantPeople: []types.Person{{Name: "Asha"}, {Name: "", Context: "a colleague"}},
		LifeEvents:      []types.LifeEvent{{Event: "graduated"}, {Event: " "}},
	}

	got := Merge(existing, delta)
	assert.Len(t, got.ImportantPeople, 2)
	assert.Equal(t, []types.LifeEvent{{Event: "graduated"}, {Event: "graduated"}, {Event: " "}}, got.LifeEvents)
}
