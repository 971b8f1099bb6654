package config

import (
	"testing"
	"time"
)

func TestGetStringFallback(t *testing.T) {
	t.Setenv("TB_TEST_STRING", "set")
	if got := GetString("TB_TEST_STRING", "fallback"); got != "set" {
		t.Fatalf("got %q", got)
	}
	if got := GetString("TB_TEST_STRING_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestGetIntFallback(t *testing.T) {
	t.Setenv("TB_TEST_INT", "42")
	if got := GetInt("TB_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("TB_TEST_INT_BAD", "nope")
	if got := GetInt("TB_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("invalid value should fall back, got %d", got)
	}
	if got := GetInt("TB_TEST_INT_MISSING", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}

func TestGetBoolFallback(t *testing.T) {
	t.Setenv("TB_TEST_BOOL", "true")
	if !GetBool("TB_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("TB_TEST_BOOL_BAD", "sometimes")
	if GetBool("TB_TEST_BOOL_BAD", false) {
		t.Fatal("invalid value should fall back")
	}
}

func TestGetDurationFallback(t *testing.T) {
	t.Setenv("TB_TEST_DUR", "30m")
	if got := GetDuration("TB_TEST_DUR", time.Hour); got != 30*time.Minute {
		t.Fatalf("got %v", got)
	}
	t.Setenv("TB_TEST_DUR_BAD", "soon")
	if got := GetDuration("TB_TEST_DUR_BAD", time.Hour); got != time.Hour {
		t.Fatalf("invalid value should fall back, got %v", got)
	}
}
