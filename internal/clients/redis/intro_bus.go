package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/chekinn-backend/internal/pkg/envutil"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

const (
	IntroEventCreated  = "intro.created"
	IntroEventAccepted = "intro.accepted"
	IntroEventDeclined = "intro.declined"
)

// IntroEvent is published whenever an introduction is created or answered.
type IntroEvent struct {
	Type       string    `json:"type"`
	IntroID    uuid.UUID `json:"intro_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Status     string    `json:"status"`
	Score      float64   `json:"score"`
	At         time.Time `json:"at"`
}

type IntroBus interface {
	Publish(ctx context.Context, ev IntroEvent) error
	Close() error
}

type introBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewIntroBus connects to REDIS_ADDR. When it is unset a no-op bus is
// returned and events are dropped.
func NewIntroBus(log *logger.Logger) (IntroBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.String("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set, introduction events will not be published")
		return NopIntroBus{}, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", "", log),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewIntroBusWithClient(rdb, envutil.String("REDIS_CHANNEL", "intros", log), log), nil
}

func NewIntroBusWithClient(rdb *goredis.Client, channel string, log *logger.Logger) IntroBus {
	if channel == "" {
		channel = "intros"
	}
	return &introBus{
		log:     log.With("service", "RedisIntroBus"),
		rdb:     rdb,
		channel: channel,
	}
}

// Client exposes the underlying connection for the pool collector.
func Client(b IntroBus) *goredis.Client {
	if rb, ok := b.(*introBus); ok {
		return rb.rdb
	}
	return nil
}

func (b *introBus) Publish(ctx context.Context, ev IntroEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis intro bus not initialized")
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *introBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

type NopIntroBus struct{}

func (NopIntroBus) Publish(context.Context, IntroEvent) error { return nil }
func (NopIntroBus) Close() error                              { return nil }
