package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	"github.com/yungbote/chekinn-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/chekinn-backend/internal/http/handlers"
	"github.com/yungbote/chekinn-backend/internal/modules/chat"
	"github.com/yungbote/chekinn-backend/internal/modules/learning"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/services"
)

type staticOracle string

func (o staticOracle) GenerateText(ctx context.Context, system, user string) (string, error) {
	return string(o), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.New()

	users := repos.NewUserProfileRepo(db, log)
	states := repos.NewConversationStateRepo(db, log)
	learnings := repos.NewLearningProfileRepo(db, log)
	intros := repos.NewIntroductionRepo(db, log)

	userSvc := services.NewUserService(db, log, users, states)
	learningSvc := services.NewLearningService(log, learnings, learning.NewExtractor(staticOracle(`{}`)), time.Second, metrics)
	introSvc := services.NewIntroService(log, intros, users, nil, metrics)
	chatSvc := services.NewChatService(db, log, users, states, repos.NewChatMessageRepo(db, log), learningSvc,
		chat.NewTrackClassifier(log), chat.NewReplyGenerator(staticOracle("Tell me more.")), learning.EveryN{N: 5}, metrics)
	judge := staticOracle(`{"should_match": true, "score": 0.8, "reason": "shared goals"}`)
	pipeline := matching.NewPipeline(users, learnings, matching.NewSelector(users, states, log),
		matching.NewEvaluator(judge, time.Second, log, metrics), matching.DefaultConfig(), log, metrics)

	return NewRouter(RouterConfig{
		Log:              log,
		Metrics:          metrics,
		HealthHandler:    httpH.NewHealthHandler(func(ctx context.Context) error { return nil }),
		UserHandler:      httpH.NewUserHandler(userSvc),
		ChatHandler:      httpH.NewChatHandler(chatSvc),
		IntroHandler:     httpH.NewIntroHandler(introSvc, services.NewMatchingService(log, pipeline, introSvc)),
		LearningHandler:  httpH.NewLearningHandler(learningSvc),
		AnalyticsHandler: httpH.NewAnalyticsHandler(services.NewAnalyticsService(log, repos.NewAnalyticsRepo(db, log))),
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	out := map[string]any{}
	if ct := rec.Header().Get("Content-Type"); len(ct) >= 16 && ct[:16] == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func createUser(t *testing.T, r *gin.Engine, name, city string) string {
	t.Helper()
	rec, body := do(t, r, nethttp.MethodPost, "/api/users", map[string]any{"name": name, "city": city})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	return body["user"].(map[string]any)["id"].(string)
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t)
	rec, _ := do(t, r, nethttp.MethodGet, "/healthcheck", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, body := do(t, r, nethttp.MethodGet, "/api/health", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestChatAndIntroFlow(t *testing.T) {
	r := newTestRouter(t)
	a := createUser(t, r, "Asha", "Mumbai")
	b := createUser(t, r, "Ravi", "Mumbai")

	rec, body := do(t, r, nethttp.MethodPost, "/api/chat/message", map[string]any{"user_id": a, "text": "mock test scores are low"})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cat_mba", body["track"])
	assert.Equal(t, "Tell me more.", body["reply"].(map[string]any)["text"])

	rec, body = do(t, r, nethttp.MethodGet, "/api/chat/history/"+a, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, body["messages"], 2)

	rec, body = do(t, r, nethttp.MethodPost, "/api/intros/generate/"+a, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, body["created"], 1)
	introID := body["created"].([]any)[0].(map[string]any)["id"].(string)

	rec, body = do(t, r, nethttp.MethodGet, "/api/intros/"+b, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	views := body["intros"].([]any)
	require.Len(t, views, 1)
	assert.Equal(t, true, views[0].(map[string]any)["is_new"])

	rec, _ = do(t, r, nethttp.MethodPost, "/api/intros/action", map[string]any{"intro_id": introID, "action": "accept"})
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	rec, body = do(t, r, nethttp.MethodPost, "/api/intros/action", map[string]any{"intro_id": introID, "action": "decline"})
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", body["error"].(map[string]any)["code"])

	rec, body = do(t, r, nethttp.MethodGet, "/api/analytics", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["total_users"])
	assert.Equal(t, float64(1), body["intros_accepted"])
}

func TestErrorEnvelope(t *testing.T) {
	r := newTestRouter(t)

	rec, body := do(t, r, nethttp.MethodGet, "/api/users/not-a-uuid", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", body["error"].(map[string]any)["code"])

	rec, body = do(t, r, nethttp.MethodGet, "/api/users/"+uuid.NewString(), nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"].(map[string]any)["code"])

	rec, _ = do(t, r, nethttp.MethodPost, "/api/intros/action", map[string]any{"intro_id": uuid.NewString(), "action": "maybe"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	a := createUser(t, r, "Asha", "")
	rec, _ = do(t, r, nethttp.MethodPost, "/api/track/select", map[string]any{"user_id": a, "track": "dating"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	rec, body = do(t, r, nethttp.MethodPost, "/api/track/select", map[string]any{"user_id": a, "track": "roast_play"})
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, nethttp.MethodGet, "/api/health", nil)
	rec, _ := do(t, r, nethttp.MethodGet, "/metrics", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/health")
}
