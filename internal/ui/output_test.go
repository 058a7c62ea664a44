package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_PlainOutputForBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Success("Successfully invoked generator for plugin: box-cli-plugin-eslint")
	p.Warn("preferences may be outdated")
	p.Step("git diff")

	out := buf.String()
	assert.Contains(t, out, "✔  Successfully invoked generator")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "   git diff")
	assert.NotContains(t, out, "\x1b[", "buffers must not receive ANSI escapes")
}

func TestPrinter_List(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).List([]string{"src/main.js", ".eslintrc.json"})

	assert.Equal(t, "     src/main.js\n     .eslintrc.json\n", buf.String())
}

func TestRunWithSpinner_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	called := false
	err := p.RunWithSpinner(context.Background(), "⚓", "Running completion hooks...", func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, buf.String(), "Running completion hooks...")
}

func TestRunWithSpinner_PropagatesError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("hook failed")

	err := New(&buf).RunWithSpinner(context.Background(), "📦", "Installing", func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
