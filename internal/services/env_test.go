package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	"github.com/yungbote/chekinn-backend/internal/data/repos/testutil"
	"github.com/yungbote/chekinn-backend/internal/modules/chat"
	"github.com/yungbote/chekinn-backend/internal/modules/learning"
	"github.com/yungbote/chekinn-backend/internal/modules/matching"
	"github.com/yungbote/chekinn-backend/internal/observability"
)

// fakeOracle answers GenerateText from a function and counts calls.
type fakeOracle struct {
	mu    sync.Mutex
	calls int
	fn    func(system, user string) (string, error)
}

func replyWith(text string, err error) *fakeOracle {
	return &fakeOracle{fn: func(string, string) (string, error) { return text, err }}
}

func (f *fakeOracle) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	fn := f.fn
	f.mu.Unlock()
	return fn(system, user)
}

func (f *fakeOracle) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	db        *gorm.DB
	users     repos.UserProfileRepo
	states    repos.ConversationStateRepo
	messages  repos.ChatMessageRepo
	learnings repos.LearningProfileRepo
	intros    repos.IntroductionRepo
	metrics   *observability.Metrics

	companion  *fakeOracle
	extraction *fakeOracle
	judgment   *fakeOracle

	userSvc     UserService
	learningSvc LearningService
	introSvc    IntroService
	chatSvc     ChatService
	matchingSvc MatchingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	e := &testEnv{
		db:         db,
		users:      repos.NewUserProfileRepo(db, log),
		states:     repos.NewConversationStateRepo(db, log),
		messages:   repos.NewChatMessageRepo(db, log),
		learnings:  repos.NewLearningProfileRepo(db, log),
		intros:     repos.NewIntroductionRepo(db, log),
		metrics:    observability.New(),
		companion:  replyWith("Tell me more.", nil),
		extraction: replyWith(`{}`, nil),
		judgment:   replyWith(`{"should_match":false,"score":0.1,"reason":"no"}`, nil),
	}
	e.userSvc = NewUserService(db, log, e.users, e.states)
	e.learningSvc = NewLearningService(log, e.learnings, learning.NewExtractor(e.extraction), time.Second, e.metrics)
	e.introSvc = NewIntroService(log, e.intros, e.users, nil, e.metrics)
	e.chatSvc = NewChatService(db, log, e.users, e.states, e.messages, e.learningSvc,
		chat.NewTrackClassifier(log), chat.NewReplyGenerator(e.companion), learning.EveryN{N: 5}, e.metrics)

	selector := matching.NewSelector(e.users, e.states, log)
	evaluator := matching.NewEvaluator(e.judgment, time.Second, log, e.metrics)
	pipeline := matching.NewPipeline(e.users, e.learnings, selector, evaluator, matching.DefaultConfig(), log, e.metrics)
	e.matchingSvc = NewMatchingService(log, pipeline, e.introSvc)
	return e
}
