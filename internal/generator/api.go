package generator

import (
	"maps"
	"path"
	"reflect"
	"slices"
	"strings"

	"github.com/packages-box/box/internal/plugin"
)

// pluginAPI is the plugin.API handed to one plugin's generator.
type pluginAPI struct {
	gen *Generator
	id  string
}

var _ plugin.API = (*pluginAPI)(nil)

func (a *pluginAPI) ID() string { return a.id }

func (a *pluginAPI) Pkg() map[string]any { return a.gen.pkg.Fields() }

func (a *pluginAPI) ExtendPackage(fields map[string]any) {
	for key, value := range fields {
		existing, ok := a.gen.pkg.Get(key)
		if !ok {
			a.gen.pkg.Set(key, value)
			continue
		}
		a.gen.pkg.Set(key, mergeValue(existing, value))
	}
}

func (a *pluginAPI) Render(p, content string) {
	a.gen.files[normalizePath(p)] = content
}

func (a *pluginAPI) RemoveFile(p string) {
	delete(a.gen.files, normalizePath(p))
}

// OnCreateComplete hooks run at the end of this invocation. Outside invoke
// mode they are creation hooks and run after every invocation as well.
func (a *pluginAPI) OnCreateComplete(hook plugin.Hook) {
	if a.gen.invoking {
		a.gen.afterInvoke = append(a.gen.afterInvoke, hook)
		return
	}
	a.gen.afterAnyInvoke = append(a.gen.afterAnyInvoke, hook)
}

func (a *pluginAPI) AfterAnyInvoke(hook plugin.Hook) {
	a.gen.afterAnyInvoke = append(a.gen.afterAnyInvoke, hook)
}

func (a *pluginAPI) ExitLog(msg string) {
	a.gen.exitLogs = append(a.gen.exitLogs, exitLog{id: a.id, msg: msg})
}

func normalizePath(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// mergeValue deep-merges objects, appends unseen array entries and
// otherwise lets the new value win.
func mergeValue(existing, incoming any) any {
	switch in := incoming.(type) {
	case map[string]any:
		ex, ok := existing.(map[string]any)
		if !ok {
			return in
		}
		out := maps.Clone(ex)
		for k, v := range in {
			if old, ok := out[k]; ok {
				out[k] = mergeValue(old, v)
			} else {
				out[k] = v
			}
		}
		return out
	case []any:
		ex, ok := existing.([]any)
		if !ok {
			return in
		}
		out := slices.Clone(ex)
		for _, v := range in {
			if !containsValue(out, v) {
				out = append(out, v)
			}
		}
		return out
	default:
		return incoming
	}
}

func containsValue(list []any, v any) bool {
	return slices.ContainsFunc(list, func(e any) bool {
		return reflect.DeepEqual(e, v)
	})
}
