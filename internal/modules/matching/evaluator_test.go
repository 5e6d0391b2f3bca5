package matching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type judgeClient struct {
	reply string
	err   error
	wait  time.Duration
}

func (j judgeClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	if j.wait > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(j.wait):
		}
	}
	return j.reply, j.err
}

func TestDecodeVerdict(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Verdict
		wantErr bool
	}{
		{"plain", `{"should_match":true,"score":0.75,"reason":"both prepping for CAT"}`, Verdict{true, 0.75, "both prepping for CAT"}, false},
		{"fenced", "```json\n{\"should_match\":false,\"score\":0.2,\"reason\":\"\"}\n```", Verdict{false, 0.2, ""}, false},
		{"string score", `{"should_match":"true","score":"0.9","reason":"x"}`, Verdict{true, 0.9, "x"}, false},
		{"clamped high", `{"should_match":true,"score":7,"reason":"x"}`, Verdict{true, 1, "x"}, false},
		{"clamped low", `{"should_match":true,"score":-2,"reason":"x"}`, Verdict{true, 0, "x"}, false},
		{"missing score", `{"should_match":true,"reason":"x"}`, Verdict{}, true},
		{"bad bool", `{"should_match":"yes","score":0.8}`, Verdict{}, true},
		{"prose", `I think they should meet.`, Verdict{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeVerdict(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluatorSafeDefault(t *testing.T) {
	a, b := UserView{ID: uuid.New()}, UserView{ID: uuid.New()}
	m := observability.New()

	for name, client := range map[string]judgeClient{
		"unavailable": {err: errors.New("503")},
		"malformed":   {reply: "no idea"},
		"timeout":     {reply: `{"should_match":true,"score":0.9,"reason":"x"}`, wait: time.Second},
	} {
		t.Run(name, func(t *testing.T) {
			e := NewEvaluator(client, 20*time.Millisecond, logger.Nop(), m)
			assert.Equal(t, FailedVerdict, e.Evaluate(context.Background(), a, b))
		})
	}

	e := NewEvaluator(judgeClient{reply: `{"should_match":true,"score":0.8,"reason":"x"}`}, time.Second, logger.Nop(), nil)
	assert.Equal(t, Verdict{true, 0.8, "x"}, e.Evaluate(context.Background(), a, b))
}

func TestBuildMatchPromptIsBounded(t *testing.T) {
	many := make([]string, 50)
	for i := range many {
		many[i] = strings.Repeat("p", 500)
	}
	a := UserView{Name: "Asha", City: "Mumbai", Learnings: types.Learnings{BigRocks: many, NorthStar: "IIM A"}}
	b := UserView{Name: "Ravi"}

	prompt := BuildMatchPrompt(a, b)
	assert.Contains(t, prompt, "Name: Asha")
	assert.Contains(t, prompt, "City: Unknown")
	assert.Contains(t, prompt, "Goal: IIM A")
	assert.Less(t, len(prompt), 2*promptListCap*(promptFieldCap+10)+1000)
}
