package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *SlogLogger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h))
}

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	ctx := context.Background()

	l.Debug(ctx, "dbg")
	l.Info(ctx, "inf")
	l.Warn(ctx, "wrn")
	l.Error(ctx, "err")

	out := buf.String()
	for _, want := range []string{"dbg", "inf", "wrn", "err"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	child := l.With("module", "test")
	child.Info(context.Background(), "hello")

	if !strings.Contains(buf.String(), "module=test") {
		t.Errorf("child logger did not include bound attribute: %s", buf.String())
	}
}
