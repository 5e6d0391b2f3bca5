package learning

import (
	"strings"

	types "github.com/yungbote/chekinn-backend/internal/domain"
)

// Merge folds delta into existing and returns the result. Neither argument
// is modified.
//
// Set fields take the union of trimmed items, existing first, each value
// once. Scalar fields take the delta value only when it is non-empty. Append
// fields are existing followed by every delta entry.
func Merge(existing, delta types.Learnings) types.Learnings {
	out := types.Learnings{
		BigRocks:          union(existing.BigRocks, delta.BigRocks),
		RecurringThemes:   union(existing.RecurringThemes, delta.RecurringThemes),
		Constraints:       union(existing.Constraints, delta.Constraints),
		EmotionalPatterns: union(existing.EmotionalPatterns, delta.EmotionalPatterns),

		NorthStar:          latest(existing.NorthStar, delta.NorthStar),
		CommunicationStyle: latest(existing.CommunicationStyle, delta.CommunicationStyle),
		DecisionTendencies: latest(existing.DecisionTendencies, delta.DecisionTendencies),

		ImportantPeople: appendPeople(existing.ImportantPeople, delta.ImportantPeople),
		LifeEvents:      appendEvents(existing.LifeEvents, delta.LifeEvents),
	}
	return out.Normalized()
}

func union(existing, delta []string) []string {
	out := make([]string, 0, len(existing)+len(delta))
	seen := make(map[string]struct{}, len(existing)+len(delta))
	for _, list := range [][]string{existing, delta} {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func latest(existing, delta string) string {
	if v := strings.TrimSpace(delta); v != "" {
		return v
	}
	return existing
}

func appendPeople(existing, delta []types.Person) []types.Person {
	out := make([]types.Person, 0, len(existing)+len(delta))
	out = append(out, existing...)
	return append(out, delta...)
}

func appendEvents(existing, delta []types.LifeEvent) []types.LifeEvent {
	out := make([]types.LifeEvent, 0, len(existing)+len(delta))
	out = append(out, existing...)
	return append(out, delta...)
}
