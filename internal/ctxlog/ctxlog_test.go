package ctxlog

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Debug("resolving plugin", "name", "eslint")

	if !strings.Contains(buf.String(), "resolving plugin") {
		t.Errorf("expected debug line in output, got %q", buf.String())
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output written without debug mode: %q", buf.String())
	}

	New(&buf, false).Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warning missing from output: %q", buf.String())
	}
}

func TestFromContext_Missing(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil for empty context")
	}
}
