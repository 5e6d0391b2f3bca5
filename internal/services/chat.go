package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/modules/chat"
	"github.com/yungbote/chekinn-backend/internal/modules/learning"
	"github.com/yungbote/chekinn-backend/internal/observability"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

const (
	// classifierHistory is how many stored messages are loaded per turn.
	classifierHistory  = 20
	defaultHistorySize = 50
	maxHistorySize     = 200
	messageCountStep   = 2
)

type SendMessageInput struct {
	UserID        uuid.UUID `json:"user_id"`
	Text          string    `json:"text"`
	IsVoice       bool      `json:"is_voice"`
	AudioDuration *float64  `json:"audio_duration,omitempty"`
}

// ChatTurn is the outcome of one user message.
type ChatTurn struct {
	Reply     *types.ChatMessage `json:"reply"`
	Track     types.Track        `json:"track"`
	Degraded  bool               `json:"degraded"`
	Extracted bool               `json:"learnings_extracted"`
}

type ChatService interface {
	SendMessage(ctx context.Context, in SendMessageInput) (*ChatTurn, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error)
	SelectTrack(ctx context.Context, userID uuid.UUID, track types.Track) error
}

type chatService struct {
	db         *gorm.DB
	log        *logger.Logger
	users      repos.UserProfileRepo
	states     repos.ConversationStateRepo
	messages   repos.ChatMessageRepo
	learnings  LearningService
	classifier *chat.TrackClassifier
	replies    *chat.ReplyGenerator
	policy     learning.ExtractionPolicy
	metrics    *observability.Metrics
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	users repos.UserProfileRepo,
	states repos.ConversationStateRepo,
	messages repos.ChatMessageRepo,
	learnings LearningService,
	classifier *chat.TrackClassifier,
	replies *chat.ReplyGenerator,
	policy learning.ExtractionPolicy,
	metrics *observability.Metrics,
) ChatService {
	if policy == nil {
		policy = learning.EveryN{N: 5}
	}
	return &chatService{
		db:         db,
		log:        log.With("service", "ChatService"),
		users:      users,
		states:     states,
		messages:   messages,
		learnings:  learnings,
		classifier: classifier,
		replies:    replies,
		policy:     policy,
		metrics:    metrics,
	}
}

func (s *chatService) SendMessage(ctx context.Context, in SendMessageInput) (*ChatTurn, error) {
	const op = "chat.SendMessage"
	text := strings.TrimSpace(in.Text)
	if in.UserID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user_id")
	}
	if text == "" {
		return nil, apperr.Validation(op, "text is required")
	}
	ctx, span := observability.StartSpan(ctx, op, attribute.String("user_id", in.UserID.String()))
	defer span.End()
	dbc := dbctx.New(ctx)

	user, err := s.users.GetByID(dbc, in.UserID)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if user == nil {
		return nil, apperr.NotFound(op, "user %s not found", in.UserID)
	}
	state, err := s.states.GetOrCreate(dbc, in.UserID)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	known, err := s.learnings.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	history, err := s.messages.ListRecent(dbc, in.UserID, classifierHistory)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}

	turns := make([]chat.Turn, 0, len(history))
	tagged := make([]chat.HistoryEntry, 0, len(history))
	for _, m := range history {
		turns = append(turns, chat.Turn{Role: m.Role, Text: m.Text})
		tagged = append(tagged, chat.HistoryEntry{Text: m.Text, Track: m.Track})
	}
	if len(turns) > chat.ReplyContextTurns {
		turns = turns[len(turns)-chat.ReplyContextTurns:]
	}

	start := time.Now()
	reply, replyErr := s.replies.Reply(ctx, chat.ReplyContext{
		Name:         user.Name,
		Track:        state.CurrentTrack,
		MessageCount: state.MessageCount,
		Learnings:    &known,
		History:      turns,
		Message:      text,
	})
	degraded := replyErr != nil
	if degraded {
		s.metrics.ObserveOracle("companion", "failed", time.Since(start))
		s.log.Warn("companion reply failed, sending fallback", "user_id", in.UserID, "error", replyErr)
	} else {
		s.metrics.ObserveOracle("companion", "ok", time.Since(start))
	}

	track := s.classifier.Classify(text, tagged)
	span.SetAttributes(attribute.String("track", string(track)))

	now := time.Now().UTC()
	userMsg := &types.ChatMessage{
		UserID:        in.UserID,
		Role:          types.RoleUser,
		Text:          text,
		IsVoice:       in.IsVoice,
		AudioDuration: in.AudioDuration,
		CreatedAt:     now,
	}
	assistantMsg := &types.ChatMessage{
		UserID:    in.UserID,
		Role:      types.RoleAssistant,
		Text:      reply,
		Track:     track,
		CreatedAt: now.Add(time.Microsecond),
	}

	var before int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.messages.Create(inner, userMsg, assistantMsg); err != nil {
			return err
		}
		var err error
		before, err = s.states.RecordTurn(inner, in.UserID, track, messageCountStep)
		return err
	})
	if err != nil {
		s.log.Warn("chat turn transaction failed", "user_id", in.UserID, "error", err)
		return nil, apperr.MapError(op, err)
	}

	out := &ChatTurn{Reply: assistantMsg, Track: track, Degraded: degraded}
	if s.policy.ShouldExtract(before) {
		transcript := make([]learning.Turn, 0, len(history)+2)
		for _, m := range history {
			transcript = append(transcript, learning.Turn{Role: m.Role, Text: m.Text})
		}
		transcript = append(transcript,
			learning.Turn{Role: types.RoleUser, Text: text},
			learning.Turn{Role: types.RoleAssistant, Text: reply},
		)
		if len(transcript) > learning.TranscriptTurns {
			transcript = transcript[len(transcript)-learning.TranscriptTurns:]
		}
		// a failed merge must not lose the turn that was already stored
		if _, err := s.learnings.ExtractAndMerge(ctx, in.UserID, transcript); err != nil {
			s.log.Warn("learning update failed", "user_id", in.UserID, "error", err)
		} else {
			out.Extracted = true
		}
	}
	return out, nil
}

func (s *chatService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	const op = "chat.History"
	if userID == uuid.Nil {
		return nil, apperr.Validation(op, "missing user_id")
	}
	if limit <= 0 {
		limit = defaultHistorySize
	}
	if limit > maxHistorySize {
		limit = maxHistorySize
	}
	msgs, err := s.messages.ListOldest(dbctx.New(ctx), userID, limit)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	return msgs, nil
}

func (s *chatService) SelectTrack(ctx context.Context, userID uuid.UUID, track types.Track) error {
	const op = "chat.SelectTrack"
	if userID == uuid.Nil {
		return apperr.Validation(op, "missing user_id")
	}
	if !track.Valid() {
		return apperr.Validation(op, "unknown track %q", track)
	}
	found, err := s.states.SetTrack(dbctx.New(ctx), userID, track)
	if err != nil {
		return apperr.MapError(op, err)
	}
	if !found {
		return apperr.NotFound(op, "conversation for user %s not found", userID)
	}
	return nil
}
