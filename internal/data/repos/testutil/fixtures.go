package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/chekinn-backend/internal/domain"
)

// UserOpt customizes a seeded user.
type UserOpt func(*types.UserProfile)

func WithCity(city string) UserOpt {
	return func(u *types.UserProfile) { u.City = city }
}

func ClosedToIntros() UserOpt {
	return func(u *types.UserProfile) { u.OpenToIntros = false }
}

// CreatedAt pins the creation time, which fixes discovery order.
func CreatedAt(ts time.Time) UserOpt {
	return func(u *types.UserProfile) { u.CreatedAt = ts }
}

func SeedUser(tb testing.TB, tx *gorm.DB, name string, opts ...UserOpt) *types.UserProfile {
	tb.Helper()
	u := &types.UserProfile{
		ID:           uuid.New(),
		Name:         name,
		OpenToIntros: true,
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedConversation(tb testing.TB, tx *gorm.DB, userID uuid.UUID, track types.Track, count int64) *types.ConversationState {
	tb.Helper()
	cs := &types.ConversationState{UserID: userID, CurrentTrack: track, MessageCount: count}
	if err := tx.Create(cs).Error; err != nil {
		tb.Fatalf("seed conversation: %v", err)
	}
	return cs
}

func SeedIntro(tb testing.TB, tx *gorm.DB, from, to uuid.UUID, status types.IntroStatus) *types.Introduction {
	tb.Helper()
	in := &types.Introduction{
		FromUserID: from,
		ToUserID:   to,
		Reason:     "seeded",
		Score:      0.7,
		Status:     status,
	}
	if err := tx.Create(in).Error; err != nil {
		tb.Fatalf("seed intro: %v", err)
	}
	return in
}
