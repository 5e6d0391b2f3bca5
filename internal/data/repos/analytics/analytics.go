package analytics

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// Counts is a point-in-time snapshot of platform usage.
type Counts struct {
	TotalUsers        int64
	ActiveUsers       int64
	Conversations     int64
	Messages          int64
	VoiceMessages     int64
	PowerUsers        int64
	TrackDistribution map[string]int64
	IntrosByStatus    map[string]int64
}

type AnalyticsRepo interface {
	Counts(dbc dbctx.Context, activeSince time.Time, powerUserMessages int64) (*Counts, error)
	IntroScores(dbc dbctx.Context) ([]float64, error)
}

type analyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsRepo {
	return &analyticsRepo{db: db, log: baseLog.With("repo", "AnalyticsRepo")}
}

type groupCount struct {
	Grp string
	N   int64
}

func (r *analyticsRepo) Counts(dbc dbctx.Context, activeSince time.Time, powerUserMessages int64) (*Counts, error) {
	tx := dbc.DB(r.db)
	out := &Counts{
		TrackDistribution: map[string]int64{},
		IntrosByStatus:    map[string]int64{},
	}

	if err := tx.Model(&types.UserProfile{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&types.ConversationState{}).Where("updated_at >= ?", activeSince).Count(&out.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&types.ConversationState{}).Count(&out.Conversations).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&types.ChatMessage{}).Count(&out.Messages).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&types.ChatMessage{}).Where("is_voice = ?", true).Count(&out.VoiceMessages).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&types.ConversationState{}).Where("message_count >= ?", powerUserMessages).Count(&out.PowerUsers).Error; err != nil {
		return nil, err
	}

	var tracks []groupCount
	if err := tx.Model(&types.ConversationState{}).
		Select("current_track AS grp, COUNT(*) AS n").
		Where("current_track <> ''").
		Group("current_track").
		Scan(&tracks).Error; err != nil {
		return nil, err
	}
	for _, g := range tracks {
		out.TrackDistribution[g.Grp] = g.N
	}

	var statuses []groupCount
	if err := tx.Model(&types.Introduction{}).
		Select("status AS grp, COUNT(*) AS n").
		Group("status").
		Scan(&statuses).Error; err != nil {
		return nil, err
	}
	for _, g := range statuses {
		out.IntrosByStatus[g.Grp] = g.N
	}
	return out, nil
}

func (r *analyticsRepo) IntroScores(dbc dbctx.Context) ([]float64, error) {
	scores := []float64{}
	if err := dbc.DB(r.db).Model(&types.Introduction{}).Order("score ASC").Pluck("score", &scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
