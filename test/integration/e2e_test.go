//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/packages-box/box/internal/config"
	"github.com/packages-box/box/internal/invoke"
	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/prompt"
	"github.com/packages-box/box/internal/ui"
	"github.com/packages-box/box/internal/vcs"
)

const greeterGenerator = `package main

import "fmt"

func Generate(options map[string]any, pkg map[string]any) (map[string]any, error) {
	return map[string]any{
		"package": map[string]any{
			"scripts":         map[string]any{"greet": "cat src/hello.txt"},
			"devDependencies": map[string]any{"greeter-runtime": "^2.0.0"},
			"browserslist":    []any{"> 1%", "last 2 versions"},
		},
		"files": map[string]any{
			"src/hello.txt": fmt.Sprintf("hello %v\n", options["who"]),
		},
		"remove":  []string{"src/old.txt"},
		"exitLog": "run npm run greet",
	}, nil
}
`

const greeterPrompts = `package main

func Prompts(pkg map[string]any) ([]map[string]any, error) {
	return []map[string]any{
		{"name": "who", "type": "input", "message": "Greet whom?", "default": "world"},
	}, nil
}
`

type countingInstaller struct{ calls int }

func (c *countingInstaller) Install(context.Context) error {
	c.calls++
	return nil
}

// TestFullFlowInvokeScriptPlugin runs the invoke pipeline end to end:
// resolve the short name, interpret the script plugin, answer its prompt
// from stdin, write files, install, and list changed files from git.
func TestFullFlowInvokeScriptPlugin(t *testing.T) {
	env := setupTestEnv(t)
	installScriptPlugin(t, env.ProjectDir, "box-cli-plugin-greeter", map[string]string{
		plugin.GeneratorScript: greeterGenerator,
		plugin.PromptsScript:   greeterPrompts,
	})
	// node_modules must not show up as a change.
	writeFile(t, filepath.Join(env.ProjectDir, ".gitignore"), "node_modules\n")
	git(t, env.ProjectDir, "add", ".gitignore")
	git(t, env.ProjectDir, "-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-q", "-m", "ignore")

	var out bytes.Buffer
	installer := &countingInstaller{}
	inv := &invoke.Invoker{
		Dir:       env.ProjectDir,
		Env:       config.Env{},
		Loader:    plugin.ChainLoader{plugin.NewRegistry(), plugin.ScriptLoader{}},
		Asker:     prompt.NewTerminal(strings.NewReader("team\n"), &out),
		Repo:      vcs.Git{Dir: env.ProjectDir},
		Installer: installer,
		Printer:   ui.New(&out),
	}

	if err := inv.Invoke(context.Background(), "greeter", invoke.RawOptions{Values: map[string]any{}}); err != nil {
		t.Fatalf("Invoke: %v\noutput:\n%s", err, out.String())
	}

	hello := filepath.Join(env.ProjectDir, "src", "hello.txt")
	assertFileExists(t, hello)
	assertFileContains(t, hello, "hello team")
	assertFileNotExists(t, filepath.Join(env.ProjectDir, "src", "old.txt"))

	manifest := filepath.Join(env.ProjectDir, "package.json")
	assertFileContains(t, manifest, `"greet": "cat src/hello.txt"`)
	assertFileContains(t, manifest, `"greeter-runtime": "^2.0.0"`)
	// browserslist is new, so it moves to its own file.
	assertFileContains(t, filepath.Join(env.ProjectDir, ".browserslistrc"), "last 2 versions")

	if installer.calls != 1 {
		t.Errorf("install calls = %d, want 1", installer.calls)
	}

	log := out.String()
	for _, want := range []string{
		"Invoking generator for box-cli-plugin-greeter",
		"Installing additional dependencies",
		"Successfully invoked generator for plugin",
		"The following files have been updated / added:",
		"src/hello.txt",
		"package.json",
		"run npm run greet",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, log)
		}
	}
}

// TestFullFlowDirtyTreeDeclined leaves the project untouched when the
// working tree has uncommitted changes and the user declines.
func TestFullFlowDirtyTreeDeclined(t *testing.T) {
	env := setupTestEnv(t)
	writeFile(t, filepath.Join(env.ProjectDir, "uncommitted.txt"), "wip\n")

	var out bytes.Buffer
	inv := &invoke.Invoker{
		Dir:       env.ProjectDir,
		Env:       config.Env{},
		Loader:    plugin.ScriptLoader{},
		Asker:     prompt.NewTerminal(strings.NewReader("n\n"), &out),
		Repo:      vcs.Git{Dir: env.ProjectDir},
		Installer: &countingInstaller{},
		Printer:   ui.New(&out),
	}

	if err := inv.Invoke(context.Background(), "greeter", invoke.RawOptions{Values: map[string]any{}}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(out.String(), "There are uncommitted changes") {
		t.Errorf("missing dirty-tree warning\noutput:\n%s", out.String())
	}
	assertFileNotExists(t, filepath.Join(env.ProjectDir, "src", "hello.txt"))
}
