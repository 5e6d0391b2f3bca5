package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/pointers"
)

func TestUserCreateAlsoStartsConversation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	u, err := e.userSvc.Create(ctx, CreateUserInput{
		Name:       " Asha ",
		City:       "Mumbai",
		Industries: []string{"consulting", " ", "fintech"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.True(t, u.OpenToIntros)
	assert.Equal(t, types.ModeVoice, u.PreferredMode)
	assert.Equal(t, []string{"consulting", "fintech"}, []string(u.Industries))

	state, err := e.states.GetByUserID(dbctx.New(ctx), u.ID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, int64(0), state.MessageCount)
	assert.Equal(t, types.TrackNone, state.CurrentTrack)
}

func TestUserCreateValidation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, err := e.userSvc.Create(ctx, CreateUserInput{Name: "  "})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	_, err = e.userSvc.Create(ctx, CreateUserInput{Name: "Asha", PreferredMode: "fax"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestUserUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u, err := e.userSvc.Create(ctx, CreateUserInput{Name: "Asha", City: "Mumbai"})
	require.NoError(t, err)

	got, err := e.userSvc.Update(ctx, u.ID, UpdateUserInput{
		CurrentRole:   pointers.String("Analyst"),
		OpenToIntros:  pointers.Bool(false),
		PreferredMode: pointers.String("TEXT"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Analyst", got.CurrentRole)
	assert.False(t, got.OpenToIntros)
	assert.Equal(t, types.ModeText, got.PreferredMode)
	assert.Equal(t, "Mumbai", got.City)

	_, err = e.userSvc.Update(ctx, uuid.New(), UpdateUserInput{City: pointers.String("Pune")})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	_, err = e.userSvc.Get(ctx, uuid.New())
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
