package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// CandidateFilter narrows the users that may be suggested to RequesterID.
type CandidateFilter struct {
	RequesterID uuid.UUID
	// City restricts to an exact city match when non-empty.
	City string
	// Track excludes users whose current track is set and differs.
	Track types.Track
	Limit int
}

type UserProfileRepo interface {
	Create(dbc dbctx.Context, profile *types.UserProfile) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.UserProfile, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error)
	ListCandidateIDs(dbc dbctx.Context, filter CandidateFilter) ([]uuid.UUID, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) Create(dbc dbctx.Context, profile *types.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("missing profile")
	}
	return dbc.DB(r.db).Create(profile).Error
}

// GetByID returns nil, nil when the user does not exist.
func (r *userProfileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.UserProfile, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.UserProfile
	err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userProfileRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.UserProfile, error) {
	var results []*types.UserProfile
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateFields reports false when no user has id.
func (r *userProfileRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing user id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).
		Model(&types.UserProfile{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListCandidateIDs returns ids in discovery order (oldest profile first).
// Exclusions apply before the limit.
func (r *userProfileRepo) ListCandidateIDs(dbc dbctx.Context, filter CandidateFilter) ([]uuid.UUID, error) {
	if filter.RequesterID == uuid.Nil {
		return nil, fmt.Errorf("missing requester id")
	}
	if filter.Limit <= 0 {
		return []uuid.UUID{}, nil
	}
	tx := dbc.DB(r.db)

	alreadyIntroduced := tx.Session(&gorm.Session{NewDB: true}).
		Model(&types.Introduction{}).
		Select("to_user_id").
		Where("from_user_id = ?", filter.RequesterID)

	q := tx.Table("user_profile AS u").
		Joins("LEFT JOIN conversation_state cs ON cs.user_id = u.id").
		Where("u.id <> ?", filter.RequesterID).
		Where("u.open_to_intros = ?", true).
		Where("u.id NOT IN (?)", alreadyIntroduced)
	if filter.City != "" {
		q = q.Where("u.city = ?", filter.City)
	}
	if filter.Track != types.TrackNone {
		q = q.Where("(cs.current_track IS NULL OR cs.current_track = '' OR cs.current_track = ?)", filter.Track)
	}

	ids := []uuid.UUID{}
	if err := q.Order("u.created_at ASC").Order("u.id ASC").Limit(filter.Limit).Pluck("u.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
