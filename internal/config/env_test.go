package config

import (
	"testing"
	"time"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("DEFENDER_TEST_PRESENT", "value")

	if got := GetEnv("DEFENDER_TEST_PRESENT", "fallback"); got != "value" {
		t.Fatalf("GetEnv(present) = %q, want %q", got, "value")
	}
	if got := GetEnv("DEFENDER_TEST_MISSING_KEY", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv(missing) = %q, want %q", got, "fallback")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("DEFENDER_TEST_INT", " 42 ")
	v, err := GetEnvInt("DEFENDER_TEST_INT", 7)
	if err != nil || v != 42 {
		t.Fatalf("GetEnvInt = %d, %v, want 42, nil", v, err)
	}

	t.Setenv("DEFENDER_TEST_INT", "forty")
	v, err = GetEnvInt("DEFENDER_TEST_INT", 7)
	if err == nil {
		t.Fatalf("expected parse error for malformed int")
	}
	if v != 7 {
		t.Fatalf("GetEnvInt on error = %d, want fallback 7", v)
	}

	t.Setenv("DEFENDER_TEST_INT", "")
	v, err = GetEnvInt("DEFENDER_TEST_INT", 7)
	if err != nil || v != 7 {
		t.Fatalf("GetEnvInt(empty) = %d, %v, want 7, nil", v, err)
	}
}

func TestGetEnvFloatDurationBool(t *testing.T) {
	t.Setenv("DEFENDER_TEST_FLOAT", "0.25")
	t.Setenv("DEFENDER_TEST_DUR", "150ms")
	t.Setenv("DEFENDER_TEST_BOOL", "true")

	f, err := GetEnvFloat("DEFENDER_TEST_FLOAT", 1)
	if err != nil || f != 0.25 {
		t.Fatalf("GetEnvFloat = %v, %v, want 0.25, nil", f, err)
	}
	d, err := GetEnvDuration("DEFENDER_TEST_DUR", time.Second)
	if err != nil || d != 150*time.Millisecond {
		t.Fatalf("GetEnvDuration = %v, %v, want 150ms, nil", d, err)
	}
	b, err := GetEnvBool("DEFENDER_TEST_BOOL", false)
	if err != nil || !b {
		t.Fatalf("GetEnvBool = %v, %v, want true, nil", b, err)
	}
}
