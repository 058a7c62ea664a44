//go:build integration

package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, holds the preferences file
	ProjectDir string // a git repository with a package.json
}

// setupTestEnv creates an isolated home and a committed project so the
// invoke pipeline can report changed files through real git.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("BOX_CLI_CONFIG_PATH", filepath.Join(env.HomeDir, ".boxrc"))

	writeFile(t, filepath.Join(env.ProjectDir, "package.json"), `{
  "name": "demo",
  "version": "0.1.0",
  "devDependencies": {
    "box-cli-plugin-greeter": "^1.0.0"
  }
}
`)
	writeFile(t, filepath.Join(env.ProjectDir, "src", "old.txt"), "stale\n")

	git(t, env.ProjectDir, "init", "-q")
	git(t, env.ProjectDir, "add", "-A")
	git(t, env.ProjectDir, "-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-q", "-m", "init")
	return env
}

// installScriptPlugin writes a plugin script under node_modules/<id>.
func installScriptPlugin(t *testing.T, projectDir, id string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		writeFile(t, filepath.Join(projectDir, "node_modules", id, name), content)
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q\ncontent:\n%s", path, substr, string(data))
	}
}
