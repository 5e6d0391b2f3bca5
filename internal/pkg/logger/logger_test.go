package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValue(t *testing.T) {
	if got := sanitizeValue("openai_api_key", "sk-123"); got != "[REDACTED]" {
		t.Fatalf("api key not redacted: %v", got)
	}
	got, _ := sanitizeValue("name", "Asha").(string)
	if !strings.HasPrefix(got, "hash:") {
		t.Fatalf("name not hashed: %q", got)
	}
	long := strings.Repeat("a", 200)
	clipped, _ := sanitizeValue("text", long).(string)
	if len([]rune(clipped)) != maxTextLogLen+1 {
		t.Fatalf("text not clipped, len=%d", len([]rune(clipped)))
	}
	if got := sanitizeValue("user_id", "u1"); got != "u1" {
		t.Fatalf("user_id should pass through, got %v", got)
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"password", "x", "dangling"})
	if len(out) != 3 || out[1] != "[REDACTED]" || out[2] != "dangling" {
		t.Fatalf("unexpected output: %#v", out)
	}
}
