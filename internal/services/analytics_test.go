package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	"github.com/yungbote/chekinn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/chekinn-backend/internal/domain"
)

func TestAnalyticsReport(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A")
	b := testutil.SeedUser(t, e.db, "B")
	c := testutil.SeedUser(t, e.db, "C")
	testutil.SeedConversation(t, e.db, a.ID, types.TrackCatMBA, 60)
	testutil.SeedConversation(t, e.db, b.ID, types.TrackCatMBA, 4)
	testutil.SeedConversation(t, e.db, c.ID, types.TrackJobsCareer, 2)

	for _, score := range []float64{0.6, 0.7, 0.9} {
		from := testutil.SeedUser(t, e.db, "x")
		_, err := e.introSvc.Create(ctx, from.ID, a.ID, "r", score)
		require.NoError(t, err)
	}

	svc := NewAnalyticsService(testutil.Logger(t), repos.NewAnalyticsRepo(e.db, testutil.Logger(t)))
	r, err := svc.Report(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(6), r.TotalUsers)
	assert.Equal(t, int64(3), r.Conversations)
	assert.Equal(t, int64(1), r.PowerUsers)
	assert.Equal(t, int64(2), r.TrackDistribution[string(types.TrackCatMBA)])
	assert.Equal(t, int64(3), r.IntrosSuggested)
	assert.Equal(t, 3, r.MatchScores.Count)
	assert.InDelta(t, 0.7333, r.MatchScores.Mean, 0.001)
	assert.InDelta(t, 0.7, r.MatchScores.Median, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, ScoreSummary{}, summarize(nil))
}
