package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yungbote/chekinn-backend/internal/pkg/envutil"
	"github.com/yungbote/chekinn-backend/internal/pkg/httpx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

// Client is the text generation client shared by the companion and the
// learning and judgment oracles.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		APIKey:     envutil.String("OPENAI_API_KEY", "", log),
		BaseURL:    strings.TrimRight(envutil.String("OPENAI_BASE_URL", "https://api.openai.com/v1", log), "/"),
		Model:      envutil.String("OPENAI_MODEL", "gpt-4o-mini", log),
		Timeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second, log),
		MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 3, log),
	}
}

type client struct {
	log        *logger.Logger
	api        openai.Client
	model      string
	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries are handled here so they are logged and classified like the
		// rest of the upstream calls
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		api:        openai.NewClient(opts...),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
	}, nil
}

type statusError struct {
	StatusCode int
	Err        error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openai http %d: %v", e.StatusCode, e.Err)
}

func (e *statusError) Unwrap() error { return e.Err }

func (e *statusError) HTTPStatusCode() int { return e.StatusCode }

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &statusError{StatusCode: apiErr.StatusCode, Err: err}
	}
	return err
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := c.generateOnce(ctx, system, user)
		if err == nil {
			return out, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= c.maxRetries {
			return "", err
		}
		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("OpenAI request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return "", err
		}
		backoff *= 2
	}
}

func (c *client) generateOnce(ctx context.Context, system, user string) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(user))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    c.model,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
