package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"client_email", "ops@example.com",
		"user_id", "5d1f7d3c-0000-4000-8000-000000000001",
		"contract_id", "c-1",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("unexpected length: got=%d want=7", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("email not redacted: %v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[3])
	}
	if out[5] != "c-1" {
		t.Fatalf("contract_id should pass through: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("odd trailing key should be kept: %v", out[6])
	}
}

func TestNewTestModeIsQuiet(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("should be dropped", "k", "v")
	l.With("repo", "TaskRepo").Warn("also dropped")
	l.Sync()
}
