package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/project"
)

type cliEnv struct {
	home  string
	prefs string
}

func setupCLI(t *testing.T) cliEnv {
	t.Helper()
	home := t.TempDir()
	prefs := filepath.Join(home, ".boxrc")
	t.Setenv("HOME", home)
	t.Setenv("BOX_CLI_CONFIG_PATH", prefs)
	t.Setenv("BOX_CLI_TEST", "1")
	t.Setenv("BOX_CLI_DEBUG", "")
	buildVersion = "1.2.3"
	return cliEnv{home: home, prefs: prefs}
}

func resetFlags() {
	versionShort, versionJSON = false, false
	configJSON = false
	presetFile, presetShowYAML = "", false
	checkRuntime, checkPreferences, checkProject = false, false, false
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConfigSetGet(t *testing.T) {
	env := setupCLI(t)

	_, _, err := runCLI(t, "config", "set", "packageManager", "yarn")
	require.NoError(t, err)
	_, _, err = runCLI(t, "config", "set", "useTaobaoRegistry", "true")
	require.NoError(t, err)

	out, _, err := runCLI(t, "config", "get", "packageManager")
	require.NoError(t, err)
	assert.Equal(t, "yarn\n", out)

	data, err := os.ReadFile(env.prefs)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "yarn", doc["packageManager"])
	assert.Equal(t, true, doc["useTaobaoRegistry"])

	out, _, err = runCLI(t, "config", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"packageManager": "yarn"`)

	_, _, err = runCLI(t, "config", "delete", "packageManager")
	require.NoError(t, err)
	_, _, err = runCLI(t, "config", "get", "packageManager")
	assert.ErrorContains(t, err, "not set")
}

func TestConfigSetUnknownKey(t *testing.T) {
	env := setupCLI(t)

	_, _, err := runCLI(t, "config", "set", "colour", "blue")
	assert.ErrorContains(t, err, "unknown preference")
	assert.NoFileExists(t, env.prefs)
}

func TestCorruptPreferencesFailsEveryCommand(t *testing.T) {
	env := setupCLI(t)
	require.NoError(t, os.WriteFile(env.prefs, []byte("{not json"), 0644))

	_, _, err := runCLI(t, "config", "get", "packageManager")
	assert.ErrorContains(t, err, "syntax errors")
}

func TestPresetCommands(t *testing.T) {
	env := setupCLI(t)

	good := filepath.Join(env.home, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"useConfigFiles": true, "plugins": {"@vue/cli-plugin-babel": {}}}`), 0644))
	bad := filepath.Join(env.home, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"plugins": "nope"}`), 0644))

	_, _, err := runCLI(t, "preset", "save", "mine", "--file", good)
	require.NoError(t, err)

	_, _, err = runCLI(t, "preset", "save", "broken", "--file", bad)
	assert.Error(t, err)

	out, _, err := runCLI(t, "preset", "list")
	require.NoError(t, err)
	assert.Equal(t, "  default (built-in)\n  mine\n", out)

	out, _, err = runCLI(t, "preset", "show", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, `"useConfigFiles": true`)

	out, _, err = runCLI(t, "preset", "show", "mine", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "useConfigFiles: true")

	_, _, err = runCLI(t, "preset", "show", "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, _, err = runCLI(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "1.2.3", info["latest"])
}

func TestInvokeCommand(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.ManifestFile),
		[]byte(`{"name": "app", "devDependencies": {"box-cli-plugin-hello": "^1.0.0"}}`), 0644))

	var got map[string]any
	Plugins.Register("box-cli-plugin-hello", &plugin.Bundle{
		Generator: func(api plugin.API, options map[string]any) error {
			got = options
			api.Render("hello.txt", "hello "+options["greeting"].(string)+"\n")
			api.ExtendPackage(map[string]any{"scripts": map[string]any{"hello": "cat hello.txt"}})
			return nil
		},
	})

	out, _, err := runCLI(t, "invoke", "hello", "--greeting", "world")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully invoked generator for plugin")
	assert.Equal(t, map[string]any{"greeting": "world"}, got)

	data, err := os.ReadFile(filepath.Join(dir, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))

	pkg, err := project.Load(dir)
	require.NoError(t, err)
	scripts, ok := pkg.Get("scripts")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"hello": "cat hello.txt"}, scripts)
}

func TestInvokeUnknownPluginInTestMode(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.ManifestFile), []byte(`{"name": "app"}`), 0644))

	// Test mode reports the failure without exiting.
	_, stderr, err := runCLI(t, "invoke", "nothing")
	require.NoError(t, err)
	assert.Contains(t, stderr, "cannot resolve plugin nothing")
}

func TestDoctorProjectCheck(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.ManifestFile),
		[]byte(`{"name": "app", "version": "0.1.0", "devDependencies": {"@vue/cli-plugin-eslint": "^5.0.0"}}`), 0644))

	out, _, err := runCLI(t, "doctor", "--check-project", "--check-preferences")
	require.NoError(t, err)
	assert.Contains(t, out, "app 0.1.0")
	assert.Contains(t, out, "plugin eslint (@vue/cli-plugin-eslint)")
	assert.Contains(t, out, "No preferences saved yet")
}
