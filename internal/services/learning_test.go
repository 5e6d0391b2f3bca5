package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/chekinn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/learning"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
)

func TestLearningMergeCreatesThenGrows(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, e.db, "Asha")

	got, err := e.learningSvc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	_, err = e.learningSvc.Merge(ctx, u.ID, types.Learnings{BigRocks: []string{"switch careers"}, NorthStar: "lead a team"})
	require.NoError(t, err)
	merged, err := e.learningSvc.Merge(ctx, u.ID, types.Learnings{BigRocks: []string{"get into IIM", "switch careers"}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"switch careers", "get into IIM"}, merged.BigRocks)
	assert.Equal(t, "lead a team", merged.NorthStar)

	stored, err := e.learnings.GetByUserID(dbctx.New(ctx), u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, merged, stored.Data.Data())
}

func TestLearningMergeEmptyDeltaIsNoop(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, e.db, "Asha")

	before, err := e.learningSvc.Merge(ctx, u.ID, types.Learnings{Constraints: []string{"weekends only"}})
	require.NoError(t, err)
	after, err := e.learningSvc.Merge(ctx, u.ID, types.Learnings{})
	require.NoError(t, err)
	assert.Equal(t, before, after)

	stored, err := e.learnings.GetByUserID(dbctx.New(ctx), u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
}

func TestLearningConcurrentMergesAllLand(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, e.db, "Asha")

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.learningSvc.Merge(ctx, u.ID, types.Learnings{BigRocks: []string{fmt.Sprintf("rock-%d", i)}})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := e.learningSvc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, got.BigRocks, writers)
}

func TestExtractAndMergeBigRocks(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, e.db, "Asha")
	_, err := e.learningSvc.Merge(ctx, u.ID, types.Learnings{BigRocks: []string{"switch careers"}})
	require.NoError(t, err)

	e.extraction.fn = func(system, user string) (string, error) {
		assert.Contains(t, user, "switch careers", "existing learnings are part of the prompt")
		return "```json\n{\"big_rocks\": [\"get into IIM\"]}\n```", nil
	}
	got, err := e.learningSvc.ExtractAndMerge(ctx, u.ID, []learning.Turn{{Role: "user", Text: "I want IIM"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"switch careers", "get into IIM"}, got.BigRocks)
}

func TestExtractAndMergeSkipsOnOracleFailure(t *testing.T) {
	ctx := context.Background()
	for name, fn := range map[string]func(string, string) (string, error){
		"unavailable": func(string, string) (string, error) { return "", errors.New("connection reset") },
		"malformed":   func(string, string) (string, error) { return `{"big_rocks": "not a list"}`, nil },
	} {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t)
			u := testutil.SeedUser(t, e.db, "Asha")
			existing, err := e.learningSvc.Merge(ctx, u.ID, types.Learnings{BigRocks: []string{"switch careers"}})
			require.NoError(t, err)

			e.extraction.fn = fn
			got, err := e.learningSvc.ExtractAndMerge(ctx, u.ID, []learning.Turn{{Role: "user", Text: "hi"}})
			require.NoError(t, err)
			assert.Equal(t, existing, got)

			stored, err := e.learnings.GetByUserID(dbctx.New(ctx), u.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), stored.Version)
		})
	}
}

func TestLearningValidation(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.learningSvc.Merge(context.Background(), uuid.Nil, types.Learnings{BigRocks: []string{"x"}})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}
