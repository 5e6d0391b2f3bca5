package intro

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

// ErrActivePair is returned when a non-declined introduction already exists
// for the unordered pair.
var ErrActivePair = errors.New("active introduction exists for pair")

// Side names which party of an introduction is acting.
type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

func (s Side) column() (string, error) {
	switch s {
	case SideFrom:
		return "from_notified", nil
	case SideTo:
		return "to_notified", nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

type IntroductionRepo interface {
	// Create inserts intro unless the pair already has a live record.
	Create(dbc dbctx.Context, intro *types.Introduction) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Introduction, error)
	// ListForUser returns records where userID is either party, newest first.
	ListForUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Introduction, error)
	// MarkNotified flips the side's flag from false to true. It reports
	// whether this call performed the flip.
	MarkNotified(dbc dbctx.Context, id uuid.UUID, side Side) (bool, error)
	// MarkNotifiedMany is MarkNotified for a batch in one statement. It
	// returns the ids this call flipped.
	MarkNotifiedMany(dbc dbctx.Context, ids []uuid.UUID, side Side) (map[uuid.UUID]bool, error)
	// Transition moves a pending record to status. It reports false when the
	// record is missing or no longer pending.
	Transition(dbc dbctx.Context, id uuid.UUID, status types.IntroStatus) (bool, error)
}

type introductionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIntroductionRepo(db *gorm.DB, baseLog *logger.Logger) IntroductionRepo {
	return &introductionRepo{db: db, log: baseLog.With("repo", "IntroductionRepo")}
}

func (r *introductionRepo) Create(dbc dbctx.Context, intro *types.Introduction) error {
	if intro == nil {
		return fmt.Errorf("missing introduction")
	}
	intro.PairKey = types.IntroPairKey(intro.FromUserID, intro.ToUserID)
	return dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&types.Introduction{}).
			Where("pair_key = ? AND status <> ?", intro.PairKey, types.IntroStatusDeclined).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrActivePair
		}
		// the partial unique index backs this check up against concurrent writers
		return tx.Create(intro).Error
	})
}

func (r *introductionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Introduction, error) {
	var out types.Introduction
	err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *introductionRepo) ListForUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Introduction, error) {
	out := []*types.Introduction{}
	q := dbc.DB(r.db).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *introductionRepo) MarkNotified(dbc dbctx.Context, id uuid.UUID, side Side) (bool, error) {
	col, err := side.column()
	if err != nil {
		return false, err
	}
	res := dbc.DB(r.db).
		Model(&types.Introduction{}).
		Where("id = ? AND "+col+" = ?", id, false).
		Updates(map[string]interface{}{col: true})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *introductionRepo) MarkNotifiedMany(dbc dbctx.Context, ids []uuid.UUID, side Side) (map[uuid.UUID]bool, error) {
	col, err := side.column()
	if err != nil {
		return nil, err
	}
	flipped := map[uuid.UUID]bool{}
	if len(ids) == 0 {
		return flipped, nil
	}
	var rows []types.Introduction
	err = dbc.DB(r.db).
		Model(&rows).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ? AND "+col+" = ?", ids, false).
		Update(col, true).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		flipped[row.ID] = true
	}
	return flipped, nil
}

func (r *introductionRepo) Transition(dbc dbctx.Context, id uuid.UUID, status types.IntroStatus) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Introduction{}).
		Where("id = ? AND status = ?", id, types.IntroStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
