package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/chekinn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
)

func TestIntroCreateValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A")
	b := testutil.SeedUser(t, e.db, "B")

	_, err := e.introSvc.Create(ctx, a.ID, a.ID, "self", 0.9)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = e.introSvc.Create(ctx, a.ID, b.ID, "too high", 1.2)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = e.introSvc.Create(ctx, uuid.Nil, b.ID, "nobody", 0.7)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestIntroPairwiseUniqueness(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A")
	b := testutil.SeedUser(t, e.db, "B")

	first, err := e.introSvc.Create(ctx, a.ID, b.ID, "both prepping", 0.8)
	require.NoError(t, err)
	assert.Equal(t, types.IntroStatusPending, first.Status)
	assert.False(t, first.FromNotified)
	assert.False(t, first.ToNotified)

	_, err = e.introSvc.Create(ctx, a.ID, b.ID, "again", 0.8)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
	_, err = e.introSvc.Create(ctx, b.ID, a.ID, "reversed", 0.8)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// accepted still blocks; declined frees the pair
	_, err = e.introSvc.ApplyAction(ctx, first.ID, types.IntroActionAccept)
	require.NoError(t, err)
	_, err = e.introSvc.Create(ctx, b.ID, a.ID, "reversed", 0.8)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	c := testutil.SeedUser(t, e.db, "C")
	second, err := e.introSvc.Create(ctx, a.ID, c.ID, "x", 0.7)
	require.NoError(t, err)
	_, err = e.introSvc.ApplyAction(ctx, second.ID, types.IntroActionDecline)
	require.NoError(t, err)
	_, err = e.introSvc.Create(ctx, c.ID, a.ID, "second chance", 0.7)
	assert.NoError(t, err)
}

func TestIntroTerminalImmutability(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A")
	b := testutil.SeedUser(t, e.db, "B")
	rec, err := e.introSvc.Create(ctx, a.ID, b.ID, "r", 0.7)
	require.NoError(t, err)

	_, err = e.introSvc.ApplyAction(ctx, rec.ID, "maybe")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	got, err := e.introSvc.ApplyAction(ctx, rec.ID, types.IntroActionDecline)
	require.NoError(t, err)
	assert.Equal(t, types.IntroStatusDeclined, got.Status)

	for _, action := range []types.IntroAction{types.IntroActionAccept, types.IntroActionDecline} {
		_, err = e.introSvc.ApplyAction(ctx, rec.ID, action)
		assert.True(t, apperr.IsCode(err, apperr.CodeConflict), "action %s", action)
	}
	stored, err := e.introSvc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.IntroStatusDeclined, stored.Status)

	_, err = e.introSvc.ApplyAction(ctx, uuid.New(), types.IntroActionAccept)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestIntroListForReadOnceAndIndependent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A", testutil.WithCity("Mumbai"))
	b := testutil.SeedUser(t, e.db, "B", testutil.WithCity("Pune"))
	rec, err := e.introSvc.Create(ctx, a.ID, b.ID, "both prepping", 0.75)
	require.NoError(t, err)

	views, err := e.introSvc.ListFor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsNew)
	assert.Equal(t, rec.ID, views[0].ID)
	assert.Equal(t, IntroDirectionSent, views[0].Direction)
	assert.Equal(t, IntroParty{UserID: b.ID, Name: "B", City: "Pune"}, views[0].Other)

	views, err = e.introSvc.ListFor(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, views[0].IsNew)

	views, err = e.introSvc.ListFor(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsNew)
	assert.Equal(t, IntroDirectionReceived, views[0].Direction)
	assert.Equal(t, "A", views[0].Other.Name)
}

func TestIntroListForConcurrentReadersSeeNewOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A")
	b := testutil.SeedUser(t, e.db, "B")
	_, err := e.introSvc.Create(ctx, a.ID, b.ID, "r", 0.7)
	require.NoError(t, err)

	var seen int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			views, err := e.introSvc.ListFor(ctx, b.ID)
			if assert.NoError(t, err) && len(views) == 1 && views[0].IsNew {
				atomic.AddInt32(&seen, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), seen)
}

func TestMumbaiGenerateAndNotify(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, e.db, "A", testutil.WithCity("Mumbai"))
	b := testutil.SeedUser(t, e.db, "B", testutil.WithCity("Mumbai"))
	testutil.SeedUser(t, e.db, "C", testutil.WithCity("Delhi"))
	e.judgment.fn = func(string, string) (string, error) {
		return `{"should_match": true, "score": 0.75, "reason": "both targeting IIM calls"}`, nil
	}

	res, err := e.matchingSvc.Generate(ctx, a.ID, 3)
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, b.ID, res.Suggestions[0].UserID)
	assert.Equal(t, 0.75, res.Suggestions[0].Score)
	require.Len(t, res.Created, 1)
	assert.Equal(t, 1, e.judgment.Calls())

	first, err := e.introSvc.ListFor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].IsNew)
	second, err := e.introSvc.ListFor(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, second[0].IsNew)
	forB, err := e.introSvc.ListFor(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, forB[0].IsNew)

	// B already introduced by A is no longer a candidate for A
	again, err := e.matchingSvc.Generate(ctx, a.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, again.Suggestions)

	// from B's side the pair exists, so the new suggestion is skipped
	fromB, err := e.matchingSvc.Generate(ctx, b.ID, 3)
	require.NoError(t, err)
	assert.Len(t, fromB.Suggestions, 1)
	assert.Empty(t, fromB.Created)
	assert.Equal(t, 1, fromB.Skipped)
}
