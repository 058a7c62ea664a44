package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/packages-box/box/internal/project"
	"github.com/packages-box/box/internal/prompt"
)

// Script entry points.
const (
	GeneratorScript = "generator.go"
	PromptsScript   = "prompts.go"

	generateFuncName = "Generate"
	promptsFuncName  = "Prompts"
)

// ScriptLoader interprets plugin scripts found at
// <dir>/node_modules/<id>/generator.go and, optionally, prompts.go.
//
// generator.go is a main package declaring
//
//	func Generate(options map[string]any, pkg map[string]any) (map[string]any, error)
//
// whose result may carry "package" (fields merged into package.json),
// "files" (path to content), "remove" (paths to delete) and "exitLog"
// (string). prompts.go declares
//
//	func Prompts(pkg map[string]any) ([]map[string]any, error)
type ScriptLoader struct{}

// Load implements Loader.
func (ScriptLoader) Load(_ context.Context, id, dir string) (*Bundle, error) {
	pluginDir := filepath.Join(dir, "node_modules", filepath.FromSlash(id))
	if _, err := os.Stat(pluginDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s is not installed in %s", ErrNotFound, id, dir)
		}
		return nil, fmt.Errorf("plugin: stat %s: %w", pluginDir, err)
	}

	genPath := filepath.Join(pluginDir, GeneratorScript)
	generate, err := loadScriptFunc(genPath, generateFuncName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s has no %s", ErrInvalid, id, GeneratorScript)
	}
	if err != nil {
		return nil, err
	}

	b := &Bundle{Generator: scriptGenerator(genPath, generate)}

	promptsPath := filepath.Join(pluginDir, PromptsScript)
	prompts, err := loadScriptFunc(promptsPath, promptsFuncName)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		b.Prompts = scriptPrompts(promptsPath, prompts)
	}
	return b, nil
}

func loadScriptFunc(path, name string) (reflect.Value, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reflect.Value{}, err
		}
		return reflect.Value{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return reflect.Value{}, fmt.Errorf("plugin: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return reflect.Value{}, fmt.Errorf("plugin: loading stdlib symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return reflect.Value{}, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}
	fn, err := i.Eval(name)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("plugin: %s must define %s: %w", path, name, err)
	}
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("plugin: %s: %s is not a function", path, name)
	}
	return fn, nil
}

// callScript invokes fn and splits its (value[, error]) results.
func callScript(fn reflect.Value, name string, args ...any) (any, error) {
	in := make([]reflect.Value, len(args))
	for idx, a := range args {
		in[idx] = reflect.ValueOf(a)
	}
	if fn.Type().NumIn() != len(in) {
		return nil, fmt.Errorf("%s must take %d arguments", name, len(in))
	}
	results := fn.Call(in)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return (value[, error])", name)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned non-error second value", name)
	}
	return results[0].Interface(), nil
}

func scriptGenerator(path string, fn reflect.Value) GeneratorFunc {
	return func(api API, options map[string]any) error {
		if options == nil {
			options = map[string]any{}
		}
		raw, err := callScript(fn, generateFuncName, options, api.Pkg())
		if err != nil {
			return fmt.Errorf("plugin: %s: %w", path, err)
		}
		var out struct {
			Package map[string]any    `json:"package"`
			Files   map[string]string `json:"files"`
			Remove  []string          `json:"remove"`
			ExitLog string            `json:"exitLog"`
		}
		if err := normalize(raw, &out); err != nil {
			return fmt.Errorf("plugin: %s: %s result: %w", path, generateFuncName, err)
		}
		if len(out.Package) > 0 {
			api.ExtendPackage(out.Package)
		}
		paths := make([]string, 0, len(out.Files))
		for p := range out.Files {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			api.Render(p, out.Files[p])
		}
		for _, p := range out.Remove {
			api.RemoveFile(p)
		}
		if out.ExitLog != "" {
			api.ExitLog(out.ExitLog)
		}
		return nil
	}
}

func scriptPrompts(path string, fn reflect.Value) PromptSource {
	return PromptFunc(func(pkg *project.Descriptor) ([]prompt.Question, error) {
		raw, err := callScript(fn, promptsFuncName, pkg.Fields())
		if err != nil {
			return nil, fmt.Errorf("plugin: %s: %w", path, err)
		}
		var entries []map[string]any
		if err := normalize(raw, &entries); err != nil {
			return nil, fmt.Errorf("plugin: %s: %s result: %w", path, promptsFuncName, err)
		}
		questions, err := prompt.DecodeQuestions(entries)
		if err != nil {
			return nil, fmt.Errorf("plugin: %s: %w", path, err)
		}
		return questions, nil
	})
}

// normalize converts interpreter-produced values into plain decoded JSON
// shapes.
func normalize(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
