package app

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRemapPrettyKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "status_class", want: "class"},
		{in: "duration_ms", want: "duration"},
		{in: "method", want: "method"},
		{in: "err", want: "err"},
	}

	for _, tc := range cases {
		if got := remapPrettyKey(tc.in); got != tc.want {
			t.Fatalf("remapPrettyKey(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "", want: `""`},
		{in: "has space", want: `"has space"`},
		{in: `key=value`, want: `"key=value"`},
	}

	for _, tc := range cases {
		if got := quoteIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteIfNeeded(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestPrettyHandler_LineShape(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	h := newPrettyHandler(&sb, &slog.HandlerOptions{Level: slog.LevelDebug}, false)

	r := slog.NewRecord(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelInfo, "http.request", 0)
	r.AddAttrs(
		slog.String("method", "post"),
		slog.String("path", "/auth/login"),
		slog.Int("status", 200),
		slog.String("status_class", "2xx"),
		slog.Int64("duration_ms", 12),
	)

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	line := sb.String()
	for _, want := range []string{
		"lvl=[INFO]",
		"msg=http.request",
		"method=POST",
		"path=/auth/login",
		"status=200",
		"class=2xx",
		"duration=12ms",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line missing %q: %q", want, line)
		}
	}
}
