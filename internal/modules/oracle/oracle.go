// Package oracle wraps calls to text-generating models whose output must be
// decoded into structured values. Failures are returned as values, never as
// errors, so callers pick their own safe default.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Client is the minimal text generation surface the oracles need.
type Client interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

type FailureKind string

const (
	// FailureUnavailable covers transport errors, timeouts and empty replies.
	FailureUnavailable FailureKind = "unavailable"
	// FailureMalformed covers replies that could not be decoded.
	FailureMalformed FailureKind = "malformed"
)

type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return "oracle " + string(f.Kind)
	}
	return fmt.Sprintf("oracle %s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome holds either a decoded Value or a Failure.
type Outcome[T any] struct {
	Value   T
	Failure *Failure
}

func (o Outcome[T]) OK() bool { return o.Failure == nil }

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func Unavailable[T any](err error) Outcome[T] {
	return Outcome[T]{Failure: &Failure{Kind: FailureUnavailable, Err: err}}
}

func Malformed[T any](err error) Outcome[T] {
	return Outcome[T]{Failure: &Failure{Kind: FailureMalformed, Err: err}}
}

var ErrEmptyReply = errors.New("empty reply")

// Ask sends one prompt and decodes the reply. The caller's ctx bounds the call.
func Ask[T any](ctx context.Context, c Client, system, user string, decode func(raw string) (T, error)) Outcome[T] {
	if c == nil {
		return Unavailable[T](errors.New("oracle client not configured"))
	}
	raw, err := c.GenerateText(ctx, system, user)
	if err != nil {
		return Unavailable[T](err)
	}
	if strings.TrimSpace(raw) == "" {
		return Unavailable[T](ErrEmptyReply)
	}
	v, err := decode(raw)
	if err != nil {
		return Malformed[T](err)
	}
	return Success(v)
}

// StripWrapper removes markdown fences and surrounding prose, returning the
// outermost JSON object when one can be located.
func StripWrapper(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// drop the info string ("json", "JSON", ...) on the opening fence
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.HasPrefix(strings.TrimSpace(s[:nl]), "{") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	if gjson.Valid(s) && strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// ObjectPayload strips raw and checks it is a JSON object.
func ObjectPayload(raw string) (string, error) {
	s := StripWrapper(raw)
	if !gjson.Valid(s) {
		return "", fmt.Errorf("reply is not valid json")
	}
	if !gjson.Parse(s).IsObject() {
		return "", fmt.Errorf("reply is not a json object")
	}
	return s, nil
}
