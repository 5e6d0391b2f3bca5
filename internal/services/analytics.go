package services

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

const (
	activeWindow      = 7 * 24 * time.Hour
	powerUserMessages = 50
)

type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

type AnalyticsReport struct {
	TotalUsers        int64            `json:"total_users"`
	ActiveUsers7d     int64            `json:"active_users_7d"`
	Conversations     int64            `json:"total_conversations"`
	Messages          int64            `json:"total_messages"`
	VoiceMessages     int64            `json:"voice_messages"`
	VoicePercentage   float64          `json:"voice_percentage"`
	PowerUsers        int64            `json:"power_users"`
	TrackDistribution map[string]int64 `json:"track_distribution"`
	IntrosSuggested   int64            `json:"intros_suggested"`
	IntrosAccepted    int64            `json:"intros_accepted"`
	IntrosDeclined    int64            `json:"intros_declined"`
	MatchScores       ScoreSummary     `json:"match_scores"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

type AnalyticsService interface {
	Report(ctx context.Context) (*AnalyticsReport, error)
}

type analyticsService struct {
	log  *logger.Logger
	repo repos.AnalyticsRepo
	now  func() time.Time
}

func NewAnalyticsService(log *logger.Logger, repo repos.AnalyticsRepo) AnalyticsService {
	return &analyticsService{
		log:  log.With("service", "AnalyticsService"),
		repo: repo,
		now:  time.Now,
	}
}

func (s *analyticsService) Report(ctx context.Context) (*AnalyticsReport, error) {
	const op = "analytics.Report"
	dbc := dbctx.New(ctx)
	now := s.now().UTC()

	c, err := s.repo.Counts(dbc, now.Add(-activeWindow), powerUserMessages)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	scores, err := s.repo.IntroScores(dbc)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}

	out := &AnalyticsReport{
		TotalUsers:        c.TotalUsers,
		ActiveUsers7d:     c.ActiveUsers,
		Conversations:     c.Conversations,
		Messages:          c.Messages,
		VoiceMessages:     c.VoiceMessages,
		PowerUsers:        c.PowerUsers,
		TrackDistribution: c.TrackDistribution,
		IntrosAccepted:    c.IntrosByStatus["accepted"],
		IntrosDeclined:    c.IntrosByStatus["declined"],
		MatchScores:       summarize(scores),
		GeneratedAt:       now,
	}
	for _, n := range c.IntrosByStatus {
		out.IntrosSuggested += n
	}
	if c.Messages > 0 {
		out.VoicePercentage, _ = stats.Round(float64(c.VoiceMessages)/float64(c.Messages)*100, 1)
	}
	return out, nil
}

// summarize leaves zeros for an empty sample.
func summarize(scores []float64) ScoreSummary {
	out := ScoreSummary{Count: len(scores)}
	if len(scores) == 0 {
		return out
	}
	data := stats.LoadRawData(scores)
	out.Mean, _ = stats.Mean(data)
	out.Median, _ = stats.Median(data)
	out.P90, _ = stats.Percentile(data, 90)
	return out
}
