package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/chekinn-backend/internal/domain"
)

type stubClient struct {
	reply     string
	err       error
	gotSystem string
	gotUser   string
}

func (s *stubClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	s.gotSystem, s.gotUser = system, user
	return s.reply, s.err
}

func TestReplyIncludesContext(t *testing.T) {
	client := &stubClient{reply: "  That sounds like a big week.  "}
	g := NewReplyGenerator(client)

	var history []Turn
	for i := 0; i < 8; i++ {
		history = append(history, Turn{Role: "user", Text: "turn"})
	}
	got, err := g.Reply(context.Background(), ReplyContext{
		Name:         "Asha",
		Track:        types.TrackCatMBA,
		MessageCount: 12,
		Learnings:    &types.Learnings{BigRocks: []string{"CAT 2025"}, NorthStar: "IIM A"},
		History:      history,
		Message:      "mock scores dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, "That sounds like a big week.", got)
	assert.Contains(t, client.gotSystem, "Name: Asha")
	assert.Contains(t, client.gotSystem, "Current focus: cat_mba")
	assert.Contains(t, client.gotSystem, "Priorities: CAT 2025")
	assert.Contains(t, client.gotSystem, "Long-term goal: IIM A")
	assert.Equal(t, ReplyContextTurns, strings.Count(client.gotUser, "user: turn"))
	assert.True(t, strings.HasSuffix(client.gotUser, "user: mock scores dropped"))
}

func TestReplyFallback(t *testing.T) {
	g := NewReplyGenerator(&stubClient{err: errors.New("timeout")})
	got, err := g.Reply(context.Background(), ReplyContext{Message: "hi"})
	assert.Error(t, err)
	assert.Equal(t, FallbackReply, got)
}
