package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/chekinn-backend/internal/clients/redis"
	"github.com/yungbote/chekinn-backend/internal/data/repos/testutil"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type staticOracle string

func (o staticOracle) GenerateText(ctx context.Context, system, user string) (string, error) {
	return string(o), nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := Config{
		HTTPAddr:       ":0",
		ExtractEvery:   5,
		ExtractTimeout: time.Second,
		EvalTimeout:    time.Second,
		Matching:       matching.DefaultConfig(),
	}
	oracles := Oracles{
		Companion:  staticOracle("How was your week?"),
		Extraction: staticOracle(`{}`),
		Judgment:   staticOracle(`{"should_match": true, "score": 0.9, "reason": "both building in fintech"}`),
	}
	return assemble(testutil.Logger(t), cfg, testutil.DB(t), oracles, Clients{IntroBus: redis.NopIntroBus{}}, observability.New())
}

func TestAssembledRouterServesHealth(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateIntrosInProcess(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	priya, err := a.Services.User.Create(ctx, services.CreateUserInput{Name: "Priya", City: "Mumbai", CurrentRole: "Founder"})
	require.NoError(t, err)
	arjun, err := a.Services.User.Create(ctx, services.CreateUserInput{Name: "Arjun", City: "Mumbai", CurrentRole: "Engineer"})
	require.NoError(t, err)

	res, err := a.GenerateIntros(ctx, priya.ID, 3, false)
	require.NoError(t, err)
	assert.Equal(t, priya.ID.String(), res.UserID)
	assert.Equal(t, 1, res.Suggested)
	require.Len(t, res.CreatedIDs, 1)

	views, err := a.Services.Intro.ListFor(ctx, arjun.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsNew)
}

func TestLoadConfigReadsMatchingKnobs(t *testing.T) {
	t.Setenv("MATCH_CANDIDATE_POOL", "12")
	t.Setenv("MATCH_EVAL_CONCURRENCY", "2")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.chekinn.com, http://localhost:3000")
	t.Setenv("HTTP_ADDR", "")

	cfg := LoadConfig(nil)
	assert.Equal(t, ":8001", cfg.HTTPAddr)
	assert.Equal(t, 12, cfg.Matching.CandidatePool)
	assert.Equal(t, 3, cfg.Matching.MaxSuggestions)
	assert.Equal(t, 2, cfg.Matching.Concurrency)
	assert.Equal(t, []string{"https://app.chekinn.com", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.ExtractEvery)
}
