package app

import (
	"strings"
	"time"

	"github.com/yungbote/chekinn-backend/internal/clients/openai"
	"github.com/yungbote/chekinn-backend/internal/data/db"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/pkg/envutil"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"github.com/yungbote/chekinn-backend/internal/temporalx"
)

type Config struct {
	HTTPAddr    string
	ServiceName string
	Environment string
	Version     string
	CORSOrigins []string

	// ExtractEvery runs learning extraction when the conversation's message
	// count before the turn is a multiple of it. 0 disables extraction.
	ExtractEvery   int
	ExtractTimeout time.Duration
	EvalTimeout    time.Duration

	Matching matching.Config
	DB       db.Config
	OpenAI   openai.Config
	Temporal temporalx.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		HTTPAddr:    envutil.String("HTTP_ADDR", ":8001", log),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "chekinn-backend", log),
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		CORSOrigins: splitList(envutil.String("CORS_ALLOW_ORIGINS", "", log)),

		ExtractEvery:   envutil.Int("LEARNING_EXTRACT_EVERY", 5, log),
		ExtractTimeout: envutil.Seconds("LEARNING_EXTRACT_TIMEOUT_SECONDS", 60*time.Second, log),
		EvalTimeout:    envutil.Seconds("MATCH_EVAL_TIMEOUT_SECONDS", 30*time.Second, log),

		Matching: matching.Config{
			CandidatePool:  envutil.Int("MATCH_CANDIDATE_POOL", 20, log),
			MaxSuggestions: envutil.Int("MATCH_MAX_SUGGESTIONS", 3, log),
			Concurrency:    envutil.Int("MATCH_EVAL_CONCURRENCY", 4, log),
			Threshold:      envutil.Float("MATCH_THRESHOLD", matching.MatchThreshold, log),
		},
		DB:       db.LoadConfig(log),
		OpenAI:   openai.LoadConfig(log),
		Temporal: temporalx.LoadConfig(log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
