package chat

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/oracle"
)

// FallbackReply is sent when the companion model cannot be reached.
const FallbackReply = "I'm having trouble connecting right now. Could you try again?"

// ReplyContextTurns is how many trailing turns accompany the new message.
const ReplyContextTurns = 5

const companionPrompt = `You are Chekinn, a thoughtful companion for people working through CAT/MBA preparation and career decisions.

Listen more than you act. Ask gently, remember patterns and never claim certainty ("I might be reading this wrong, but..."). Many messages are transcribed voice notes, so answer in two to four easy sentences that read well aloud.

Conversations fall into cat_mba (CAT, MBA, IIMs, mocks, admissions), jobs_career (jobs, interviews, salary, managers, switching) or roast_play (light, playful openers). Stay away from dating and relationships.

If someone asks to be roasted, tease the behaviour and never the person, keep it short and end with one warm question.

Never push introductions for engagement and never exploit loneliness. You are not a doctor, therapist or lawyer; for crisis topics encourage reaching a qualified professional.`

// ReplyContext carries what the companion knows when answering.
type ReplyContext struct {
	Name         string
	Track        types.Track
	MessageCount int64
	Learnings    *types.Learnings
	History      []Turn
	Message      string
}

// Turn is a prior message in the conversation.
type Turn struct {
	Role string
	Text string
}

type ReplyGenerator struct {
	client oracle.Client
}

func NewReplyGenerator(client oracle.Client) *ReplyGenerator {
	return &ReplyGenerator{client: client}
}

// Reply returns the companion's answer, or FallbackReply and the failure.
func (g *ReplyGenerator) Reply(ctx context.Context, rc ReplyContext) (string, error) {
	out := oracle.Ask(ctx, g.client, BuildSystemPrompt(rc), BuildUserPrompt(rc), func(raw string) (string, error) {
		return strings.TrimSpace(raw), nil
	})
	if !out.OK() {
		return FallbackReply, out.Failure
	}
	return out.Value, nil
}

func BuildSystemPrompt(rc ReplyContext) string {
	var b strings.Builder
	b.WriteString(companionPrompt)

	name := strings.TrimSpace(rc.Name)
	if name == "" {
		name = "there"
	}
	b.WriteString("\n\nABOUT THIS USER:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	if rc.Track != types.TrackNone {
		fmt.Fprintf(&b, "- Current focus: %s\n", rc.Track)
	}
	fmt.Fprintf(&b, "- %s\n", relationshipStage(rc.MessageCount))

	if l := rc.Learnings; l != nil && !l.IsEmpty() {
		b.WriteString("\nWHAT YOU HAVE LEARNED:\n")
		writeList(&b, "Priorities", l.BigRocks)
		writeList(&b, "Recurring themes", l.RecurringThemes)
		writeList(&b, "Constraints", l.Constraints)
		if l.NorthStar != "" {
			fmt.Fprintf(&b, "- Long-term goal: %s\n", l.NorthStar)
		}
		if l.DecisionTendencies != "" {
			fmt.Fprintf(&b, "- Decision style: %s\n", l.DecisionTendencies)
		}
	}
	return b.String()
}

func BuildUserPrompt(rc ReplyContext) string {
	history := rc.History
	if len(history) > ReplyContextTurns {
		history = history[len(history)-ReplyContextTurns:]
	}
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "user: %s", rc.Message)
	return b.String()
}

func relationshipStage(count int64) string {
	switch {
	case count == 0:
		return "First conversation. Be warm and light, no deep questions."
	case count < 10:
		return fmt.Sprintf("Early days (%d messages). Still building trust.", count)
	case count < 30:
		return fmt.Sprintf("Getting to know each other (%d messages). You can refer back to earlier chats.", count)
	default:
		return fmt.Sprintf("Long relationship (%d messages). Connect the dots and challenge gently when useful.", count)
	}
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(items, ", "))
}
