package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

type LearningProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.LearningProfile, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.LearningProfile, error)
	// InsertIfAbsent creates the first profile for a user. It reports false
	// when a profile already exists.
	InsertIfAbsent(dbc dbctx.Context, userID uuid.UUID, data types.Learnings) (bool, error)
	// CompareAndSwap replaces data only if the stored version still equals
	// expectedVersion, bumping the version. It reports whether it won.
	CompareAndSwap(dbc dbctx.Context, userID uuid.UUID, expectedVersion int64, data types.Learnings) (bool, error)
}

type learningProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningProfileRepo(db *gorm.DB, baseLog *logger.Logger) LearningProfileRepo {
	return &learningProfileRepo{db: db, log: baseLog.With("repo", "LearningProfileRepo")}
}

func (r *learningProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.LearningProfile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out types.LearningProfile
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *learningProfileRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.LearningProfile, error) {
	var results []*types.LearningProfile
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("user_id IN ?", userIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *learningProfileRepo) InsertIfAbsent(dbc dbctx.Context, userID uuid.UUID, data types.Learnings) (bool, error) {
	if userID == uuid.Nil {
		return false, fmt.Errorf("missing user_id")
	}
	now := time.Now().UTC()
	row := &types.LearningProfile{
		UserID:    userID,
		Data:      datatypes.NewJSONType(data.Normalized()),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *learningProfileRepo) CompareAndSwap(dbc dbctx.Context, userID uuid.UUID, expectedVersion int64, data types.Learnings) (bool, error) {
	if userID == uuid.Nil {
		return false, fmt.Errorf("missing user_id")
	}
	res := dbc.DB(r.db).
		Model(&types.LearningProfile{}).
		Where("user_id = ? AND version = ?", userID, expectedVersion).
		Updates(map[string]interface{}{
			"data":       datatypes.NewJSONType(data.Normalized()),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
