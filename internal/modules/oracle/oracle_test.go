package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply string
	err   error
}

func (f fakeClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f.reply, f.err
}

func TestStripWrapper(t *testing.T) {
	cases := map[string]string{
		"plain":         `{"a":1}`,
		"json fence":    "```json\n{\"a\":1}\n```",
		"bare fence":    "```\n{\"a\":1}\n```",
		"inline fence":  "```json{\"a\":1}```",
		"leading prose": "Sure! Here you go:\n{\"a\":1}\nHope that helps.",
		"padded":        "   \n{\"a\":1}\n\n",
		"nested braces": "note {\"a\":{\"b\":2}} end",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out := StripWrapper(in)
			_, err := ObjectPayload(out)
			require.NoError(t, err, "out=%q", out)
		})
	}
}

func TestObjectPayloadRejects(t *testing.T) {
	for _, in := range []string{"no json here", "[1,2]", "{broken"} {
		_, err := ObjectPayload(in)
		assert.Error(t, err, in)
	}
}

func TestAsk(t *testing.T) {
	decode := func(raw string) (string, error) {
		p, err := ObjectPayload(raw)
		return p, err
	}

	out := Ask(context.Background(), fakeClient{reply: "```json\n{\"x\":1}\n```"}, "s", "u", decode)
	require.True(t, out.OK())
	assert.Equal(t, `{"x":1}`, out.Value)

	out = Ask(context.Background(), fakeClient{err: errors.New("down")}, "s", "u", decode)
	require.False(t, out.OK())
	assert.Equal(t, FailureUnavailable, out.Failure.Kind)

	out = Ask(context.Background(), fakeClient{reply: "  "}, "s", "u", decode)
	assert.Equal(t, FailureUnavailable, out.Failure.Kind)
	assert.ErrorIs(t, out.Failure, ErrEmptyReply)

	out = Ask(context.Background(), fakeClient{reply: "nope"}, "s", "u", decode)
	assert.Equal(t, FailureMalformed, out.Failure.Kind)

	out = Ask[string](context.Background(), nil, "s", "u", decode)
	assert.Equal(t, FailureUnavailable, out.Failure.Kind)
}
