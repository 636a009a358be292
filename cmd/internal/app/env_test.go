package app

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("GATE_TEST_STRING", "  hello  ")
	t.Setenv("GATE_TEST_BOOL", "true")
	t.Setenv("GATE_TEST_INT", "42")
	t.Setenv("GATE_TEST_INT_BAD", "nope")
	t.Setenv("GATE_TEST_DUR", "250ms")

	if got := EnvString("GATE_TEST_STRING", "def"); got != "hello" {
		t.Fatalf("EnvString=%q", got)
	}
	if got := EnvString("GATE_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("EnvString default=%q", got)
	}
	if !EnvBool("GATE_TEST_BOOL", false) {
		t.Fatalf("EnvBool should be true")
	}
	if got := EnvInt("GATE_TEST_INT", 1); got != 42 {
		t.Fatalf("EnvInt=%d", got)
	}
	if got := EnvInt("GATE_TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("EnvInt bad value should fall back, got %d", got)
	}
	if got := EnvInt32("GATE_TEST_INT", 1); got != 42 {
		t.Fatalf("EnvInt32=%d", got)
	}
	if got := EnvDuration("GATE_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("EnvDuration=%v", got)
	}
	if got := EnvDuration("GATE_TEST_MISSING", time.Second); got != time.Second {
		t.Fatalf("EnvDuration default=%v", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"GATE_HTTP_ADDR", "GATE_LOG_FORMAT", "GATE_HTTP_READ_TIMEOUT",
		"GATE_DB_MAX_CONNS", "GATE_READINESS_REQUIRE_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("LogFormat=%q", cfg.LogFormat)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout=%v", cfg.ReadTimeout)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("DBMaxConns=%d", cfg.DBMaxConns)
	}
	if cfg.ReadinessRequireDB {
		t.Fatalf("ReadinessRequireDB should default to false")
	}
}
