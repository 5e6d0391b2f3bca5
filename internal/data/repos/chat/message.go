package chat

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, msgs ...*types.ChatMessage) error
	// ListRecent returns up to limit newest messages in chronological order.
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error)
	// ListOldest returns up to limit messages from the start of the conversation.
	ListOldest(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: log.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, msgs ...*types.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	for _, m := range msgs {
		if m == nil || m.UserID == uuid.Nil {
			return fmt.Errorf("message missing user_id")
		}
	}
	return dbc.DB(r.db).Create(&msgs).Error
}

func (r *chatMessageRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	out := []*types.ChatMessage{}
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *chatMessageRepo) ListOldest(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	out := []*types.ChatMessage{}
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
