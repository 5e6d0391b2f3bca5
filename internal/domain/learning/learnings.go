package learning

// Person is someone the user mentioned in conversation.
type Person struct {
	Name    string `json:"name"`
	Context string `json:"context,omitempty"`
}

// LifeEvent is a dated or undated event the user described.
type LifeEvent struct {
	Event   string `json:"event"`
	Context string `json:"context,omitempty"`
}

// Learnings is the accumulated understanding of one user.
//
// Set fields grow by union, scalar fields are replaced only by a non-empty
// value, append fields grow by concatenation. Nothing is ever erased by an
// extraction that omits a field.
type Learnings struct {
	BigRocks          []string `json:"big_rocks"`
	RecurringThemes   []string `json:"recurring_themes"`
	Constraints       []string `json:"constraints"`
	EmotionalPatterns []string `json:"emotional_patterns"`

	NorthStar          string `json:"north_star,omitempty"`
	CommunicationStyle string `json:"communication_style,omitempty"`
	DecisionTendencies string `json:"decision_tendencies,omitempty"`

	ImportantPeople []Person    `json:"important_people"`
	LifeEvents      []LifeEvent `json:"life_events"`
}

// IsEmpty reports whether no field carries information.
func (l Learnings) IsEmpty() bool {
	return len(l.BigRocks) == 0 &&
		len(l.RecurringThemes) == 0 &&
		len(l.Constraints) == 0 &&
		len(l.EmotionalPatterns) == 0 &&
		l.NorthStar == "" &&
		l.CommunicationStyle == "" &&
		l.DecisionTendencies == "" &&
		len(l.ImportantPeople) == 0 &&
		len(l.LifeEvents) == 0
}

// Normalized replaces nil slices with empty ones so the JSON document always
// carries every list key.
func (l Learnings) Normalized() Learnings {
	if l.BigRocks == nil {
		l.BigRocks = []string{}
	}
	if l.RecurringThemes == nil {
		l.RecurringThemes = []string{}
	}
	if l.Constraints == nil {
		l.Constraints = []string{}
	}
	if l.EmotionalPatterns == nil {
		l.EmotionalPatterns = []string{}
	}
	if l.ImportantPeople == nil {
		l.ImportantPeople = []Person{}
	}
	if l.LifeEvents == nil {
		l.LifeEvents = []LifeEvent{}
	}
	return l
}
