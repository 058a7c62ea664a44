package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packages-box/box/internal/project"
	"github.com/packages-box/box/internal/prompt"
)

const generatorSource = `package main

import "fmt"

func Generate(options map[string]any, pkg map[string]any) (map[string]any, error) {
	name, _ := pkg["name"].(string)
	return map[string]any{
		"package": map[string]any{
			"devDependencies": map[string]any{"box-plugin-extra": "^1.0.0"},
		},
		"files": map[string]any{
			"src/hello.txt": fmt.Sprintf("hello %v from %s", options["who"], name),
		},
		"remove":  []string{"src/old.txt"},
		"exitLog": "done",
	}, nil
}
`

const promptsSource = `package main

func Prompts(pkg map[string]any) ([]map[string]any, error) {
	return []map[string]any{
		{"name": "who", "type": "input", "message": "Who?", "default": "world"},
		{"name": "style", "type": "list", "choices": []any{"a", "b"}},
	}, nil
}
`

type recordingAPI struct {
	pkg      map[string]any
	extended []map[string]any
	files    map[string]string
	logs     []string
}

func (r *recordingAPI) ID() string                     { return "box-cli-plugin-hello" }
func (r *recordingAPI) Pkg() map[string]any            { return r.pkg }
func (r *recordingAPI) ExtendPackage(f map[string]any) { r.extended = append(r.extended, f) }
func (r *recordingAPI) Render(path, content string)    { r.files[path] = content }
func (r *recordingAPI) RemoveFile(path string)         { delete(r.files, path) }
func (r *recordingAPI) OnCreateComplete(Hook)          {}
func (r *recordingAPI) AfterAnyInvoke(Hook)            {}
func (r *recordingAPI) ExitLog(msg string)             { r.logs = append(r.logs, msg) }

func writeScript(t *testing.T, dir, id, name, src string) {
	t.Helper()
	pluginDir := filepath.Join(dir, "node_modules", id)
	require.NoError(t, os.MkdirAll(pluginDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, name), []byte(src), 0644))
}

func TestScriptLoader(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "box-cli-plugin-hello", GeneratorScript, generatorSource)
	writeScript(t, dir, "box-cli-plugin-hello", PromptsScript, promptsSource)

	b, err := ScriptLoader{}.Load(context.Background(), "box-cli-plugin-hello", dir)
	require.NoError(t, err)
	require.NotNil(t, b.Generator)
	require.NotNil(t, b.Prompts)

	questions, err := b.Prompts.GetPrompts(project.NewDescriptor(map[string]any{"name": "app"}))
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "who", questions[0].Name)
	assert.Equal(t, "world", questions[0].Default)
	assert.Equal(t, prompt.KindList, questions[1].Type)
	assert.Len(t, questions[1].Choices, 2)

	api := &recordingAPI{pkg: map[string]any{"name": "app"}, files: map[string]string{"src/old.txt": "x"}}
	require.NoError(t, b.Generator(api, map[string]any{"who": "box"}))
	assert.Equal(t, "hello box from app", api.files["src/hello.txt"])
	assert.NotContains(t, api.files, "src/old.txt")
	require.Len(t, api.extended, 1)
	assert.Equal(t, map[string]any{"box-plugin-extra": "^1.0.0"}, api.extended[0]["devDependencies"])
	assert.Equal(t, []string{"done"}, api.logs)
}

func TestScriptLoaderScopedID(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "@acme/vue-cli-plugin-x", GeneratorScript, generatorSource)

	b, err := ScriptLoader{}.Load(context.Background(), "@acme/vue-cli-plugin-x", dir)
	require.NoError(t, err)
	assert.Nil(t, b.Prompts)
}

func TestScriptLoaderErrors(t *testing.T) {
	t.Run("not installed", func(t *testing.T) {
		_, err := ScriptLoader{}.Load(context.Background(), "box-cli-plugin-none", t.TempDir())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no generator", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "box-cli-plugin-p", PromptsScript, promptsSource)
		_, err := ScriptLoader{}.Load(context.Background(), "box-cli-plugin-p", dir)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing function", func(t *testing.T) {
		dir := t.TempDir()
		writeScript(t, dir, "box-cli-plugin-q", GeneratorScript, "package main\n")
		_, err := ScriptLoader{}.Load(context.Background(), "box-cli-plugin-q", dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must define Generate")
	})
}
