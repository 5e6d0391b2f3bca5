package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/chekinn-backend/internal/modules/oracle"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

const judgmentSystemPrompt = `You decide whether two people preparing for CAT/MBA or navigating jobs and careers would benefit from being introduced.

Weigh shared goals, complementary experience, benefit to both sides, likely conversational chemistry and whether both are in a phase where talking would help. Do not match for romance, on surface similarity alone (same city or college) or for generic networking.

Reply with one JSON object and nothing else:
{"should_match": true or false, "score": number between 0.0 and 1.0, "reason": "one or two sentences on why they might enjoy talking"}

If the match is weak, set should_match to false and keep the score below 0.6.`

const (
	promptListCap  = 5
	promptFieldCap = 200
)

// Evaluator asks the judgment oracle whether two users should meet. It never
// fails: any problem yields FailedVerdict.
type Evaluator struct {
	client  oracle.Client
	timeout time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewEvaluator(client oracle.Client, timeout time.Duration, log *logger.Logger, metrics *observability.Metrics) *Evaluator {
	return &Evaluator{
		client:  client,
		timeout: timeout,
		log:     log.With("module", "MatchEvaluator"),
		metrics: metrics,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, a, b UserView) Verdict {
	ctx, span := observability.StartSpan(ctx, "matching.evaluate",
		attribute.String("user_a", a.ID.String()),
		attribute.String("user_b", b.ID.String()),
	)
	defer span.End()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	out := oracle.Ask(ctx, e.client, judgmentSystemPrompt, BuildMatchPrompt(a, b), DecodeVerdict)
	if !out.OK() {
		e.metrics.ObserveOracle("judgment", string(out.Failure.Kind), time.Since(start))
		e.metrics.IncMatchEvaluation("failed")
		span.SetAttributes(attribute.String("failure", string(out.Failure.Kind)))
		e.log.Warn("match evaluation failed", "user_a", a.ID, "user_b", b.ID, "kind", out.Failure.Kind, "error", out.Failure.Err)
		return FailedVerdict
	}
	e.metrics.ObserveOracle("judgment", "ok", time.Since(start))
	if out.Value.ShouldMatch {
		e.metrics.IncMatchEvaluation("match")
	} else {
		e.metrics.IncMatchEvaluation("no_match")
	}
	span.SetAttributes(attribute.Float64("score", out.Value.Score), attribute.Bool("should_match", out.Value.ShouldMatch))
	return out.Value
}

// BuildMatchPrompt renders both users with every list and field capped so the
// prompt stays bounded however much has been learned.
func BuildMatchPrompt(a, b UserView) string {
	var sb strings.Builder
	writeUser(&sb, "USER A", a)
	sb.WriteString("\n")
	writeUser(&sb, "USER B", b)
	sb.WriteString("\nShould these two people be introduced? Reply only with the JSON object.\n")
	return sb.String()
}

func writeUser(sb *strings.Builder, label string, v UserView) {
	fmt.Fprintf(sb, "=== %s ===\n", label)
	fmt.Fprintf(sb, "Name: %s\n", orUnknown(v.Name))
	fmt.Fprintf(sb, "City: %s\n", orUnknown(v.City))
	fmt.Fprintf(sb, "Role: %s\n", orUnknown(v.CurrentRole))
	fmt.Fprintf(sb, "Intent: %s\n", orUnknown(v.Intent))

	l := v.Learnings
	if len(l.BigRocks) == 0 && len(l.RecurringThemes) == 0 && l.NorthStar == "" {
		return
	}
	sb.WriteString("Learnings:\n")
	if len(l.BigRocks) > 0 {
		fmt.Fprintf(sb, "- Priorities: %s\n", capList(l.BigRocks))
	}
	if len(l.RecurringThemes) > 0 {
		fmt.Fprintf(sb, "- Themes: %s\n", capList(l.RecurringThemes))
	}
	if l.NorthStar != "" {
		fmt.Fprintf(sb, "- Goal: %s\n", capField(l.NorthStar))
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Unknown"
	}
	return capField(s)
}

func capList(items []string) string {
	if len(items) > promptListCap {
		items = items[len(items)-promptListCap:]
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, capField(it))
	}
	return strings.Join(out, ", ")
}

func capField(s string) string {
	r := []rune(s)
	if len(r) <= promptFieldCap {
		return s
	}
	return string(r[:promptFieldCap]) + "…"
}

// DecodeVerdict reads a judgment reply. should_match must be a boolean (or
// "true"/"false"); score must be numeric (or a numeric string) and is
// clamped to [0, 1].
func DecodeVerdict(raw string) (Verdict, error) {
	payload, err := oracle.ObjectPayload(raw)
	if err != nil {
		return Verdict{}, err
	}
	doc := gjson.Parse(payload)

	sm := doc.Get("should_match")
	var should bool
	switch {
	case sm.Type == gjson.True || sm.Type == gjson.False:
		should = sm.Bool()
	case sm.Type == gjson.String && (strings.EqualFold(sm.Str, "true") || strings.EqualFold(sm.Str, "false")):
		should = strings.EqualFold(sm.Str, "true")
	default:
		return Verdict{}, errors.New("should_match missing or not a boolean")
	}

	sc := doc.Get("score")
	var score float64
	switch sc.Type {
	case gjson.Number:
		score = sc.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(sc.Str), 64)
		if err != nil {
			return Verdict{}, fmt.Errorf("score %q is not numeric", sc.Str)
		}
		score = f
	default:
		return Verdict{}, errors.New("score missing or not numeric")
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Verdict{}, errors.New("score is not finite")
	}

	return Verdict{
		ShouldMatch: should,
		Score:       math.Max(0, math.Min(1, score)),
		Reason:      strings.TrimSpace(doc.Get("reason").String()),
	}, nil
}
