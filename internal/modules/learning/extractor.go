package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/oracle"
)

const extractionSystemPrompt = `You read a conversation between a companion and a user who is working through CAT/MBA preparation or job and career decisions, and you note what it reveals about the user.

Only record what the user clearly said or strongly implied. Skip anything already present in the existing learnings. Leave out fields you have nothing new for.

Reply with one JSON object and nothing else, using these keys:
{
  "big_rocks": ["major priorities"],
  "recurring_themes": ["patterns, e.g. 'second-guesses job switches'"],
  "constraints": ["time, money, location or family limits"],
  "north_star": "long-term aspiration",
  "communication_style": "how they like to talk",
  "emotional_patterns": ["emotional tendencies"],
  "decision_tendencies": "how they make decisions",
  "important_people": [{"name": "...", "context": "..."}],
  "life_events": [{"event": "...", "context": "..."}]
}`

// TranscriptTurns is how many trailing messages are sent for extraction.
const TranscriptTurns = 10

// Turn is one transcript line.
type Turn struct {
	Role string
	Text string
}

// Extractor asks the extraction oracle for a Learnings delta.
type Extractor struct {
	client oracle.Client
}

func NewExtractor(client oracle.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract never returns an error; a failed call is reported in the Outcome.
func (e *Extractor) Extract(ctx context.Context, transcript []Turn, existing types.Learnings) oracle.Outcome[types.Learnings] {
	return oracle.Ask(ctx, e.client, extractionSystemPrompt, BuildExtractionPrompt(transcript, existing), DecodeLearnings)
}

func BuildExtractionPrompt(transcript []Turn, existing types.Learnings) string {
	if len(transcript) > TranscriptTurns {
		transcript = transcript[len(transcript)-TranscriptTurns:]
	}
	var b strings.Builder
	b.WriteString("Conversation:\n")
	for _, t := range transcript {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Text)
	}
	existingJSON, _ := json.Marshal(existing.Normalized())
	fmt.Fprintf(&b, "\nExisting learnings: %s\n\nExtract new learnings:", existingJSON)
	return b.String()
}

// DecodeLearnings parses an extraction reply. Wrong-typed fields make the
// whole reply malformed rather than being half applied.
func DecodeLearnings(raw string) (types.Learnings, error) {
	payload, err := oracle.ObjectPayload(raw)
	if err != nil {
		return types.Learnings{}, err
	}
	var out types.Learnings
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return types.Learnings{}, fmt.Errorf("decode learnings: %w", err)
	}
	return out, nil
}
