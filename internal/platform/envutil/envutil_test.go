package envutil

import (
	"testing"
	"time"
)

func TestLookups(t *testing.T) {
	t.Setenv("EU_STRING", "  hello ")
	t.Setenv("EU_INT", "42")
	t.Setenv("EU_BAD_INT", "x")
	t.Setenv("EU_BOOL", "yes")
	t.Setenv("EU_DURATION", "15s")
	t.Setenv("EU_SECONDS", "30")

	if got := String("EU_STRING", "def"); got != "hello" {
		t.Fatalf("String: got=%q", got)
	}
	if got := String("EU_MISSING", "def"); got != "def" {
		t.Fatalf("String default: got=%q", got)
	}
	if got := Int("EU_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d", got)
	}
	if got := Int("EU_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got=%d", got)
	}
	if !Bool("EU_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	if Bool("EU_MISSING", false) {
		t.Fatalf("Bool default: expected false")
	}
	if got := Duration("EU_DURATION", time.Second); got != 15*time.Second {
		t.Fatalf("Duration: got=%v", got)
	}
	if got := Duration("EU_SECONDS", time.Second); got != 30*time.Second {
		t.Fatalf("Duration seconds: got=%v", got)
	}
}
