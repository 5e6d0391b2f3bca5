package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type ConversationStateRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error)
	GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error)
	// RecordTurn sets the current track and adds delta to message_count in one
	// statement. It returns the count before the increment.
	RecordTurn(dbc dbctx.Context, userID uuid.UUID, track types.Track, delta int64) (int64, error)
	SetTrack(dbc dbctx.Context, userID uuid.UUID, track types.Track) (bool, error)
}

type conversationStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationStateRepo(db *gorm.DB, log *logger.Logger) ConversationStateRepo {
	return &conversationStateRepo{
		db:  db,
		log: log.With("repo", "ConversationStateRepo"),
	}
}

func (r *conversationStateRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out types.ConversationState
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *conversationStateRepo) GetOrCreate(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error) {
	ex, err := r.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if ex != nil {
		return ex, nil
	}

	now := time.Now().UTC()
	row := &types.ConversationState{
		UserID:       userID,
		CurrentTrack: types.TrackNone,
		MessageCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	// a concurrent creator may have won; read back whatever is stored
	return r.GetByUserID(dbc, userID)
}

func (r *conversationStateRepo) RecordTurn(dbc dbctx.Context, userID uuid.UUID, track types.Track, delta int64) (int64, error) {
	if delta < 0 {
		return 0, fmt.Errorf("message_count only grows, got delta %d", delta)
	}
	var before int64
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if _, err := r.GetOrCreate(inner, userID); err != nil {
			return err
		}
		if err := tx.Model(&types.ConversationState{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"current_track": track,
				"message_count": gorm.Expr("message_count + ?", delta),
				"updated_at":    time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		var after types.ConversationState
		if err := tx.Where("user_id = ?", userID).First(&after).Error; err != nil {
			return err
		}
		before = after.MessageCount - delta
		return nil
	})
	if err != nil {
		return 0, err
	}
	return before, nil
}

// SetTrack reports false when the user has no conversation.
func (r *conversationStateRepo) SetTrack(dbc dbctx.Context, userID uuid.UUID, track types.Track) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.ConversationState{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_track": track,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
