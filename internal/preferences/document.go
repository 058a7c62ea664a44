package preferences

import (
	"maps"
	"time"
)

// Document is the persisted preferences object. Values are JSON-decoded
// (numbers are float64, objects are map[string]any).
type Document map[string]any

// Known top-level keys. Save drops every key not listed in Defaults.
const (
	KeyLatestVersion     = "latestVersion"
	KeyLastChecked       = "lastChecked"
	KeyPackageManager    = "packageManager"
	KeyUseTaobaoRegistry = "useTaobaoRegistry"
	KeyPresets           = "presets"
)

// Defaults returns the canonical defaults document. Its key set defines which
// keys survive Save.
func Defaults() Document {
	return Document{
		KeyLastChecked:       nil,
		KeyLatestVersion:     nil,
		KeyPackageManager:    nil,
		KeyUseTaobaoRegistry: nil,
		KeyPresets: map[string]any{
			"default": DefaultPreset(),
		},
	}
}

// DefaultPreset returns the preset used when the user has saved none.
func DefaultPreset() map[string]any {
	return map[string]any{
		"useConfigFiles": false,
		"plugins": map[string]any{
			"@vue/cli-plugin-babel": map[string]any{},
			"@vue/cli-plugin-eslint": map[string]any{
				"config": "base",
				"lintOn": []any{"save"},
			},
		},
	}
}

// IsKnownKey reports whether key is part of the canonical defaults set.
func IsKnownKey(key string) bool {
	_, ok := Defaults()[key]
	return ok
}

// LatestVersion returns the cached latest release, or "" when unset.
func (d Document) LatestVersion() string {
	s, _ := d[KeyLatestVersion].(string)
	return s
}

// LastChecked returns the time of the last remote version check, or the zero
// time when unset. The document stores Unix milliseconds.
func (d Document) LastChecked() time.Time {
	switch v := d[KeyLastChecked].(type) {
	case float64:
		return time.UnixMilli(int64(v))
	case int64:
		return time.UnixMilli(v)
	case int:
		return time.UnixMilli(int64(v))
	default:
		return time.Time{}
	}
}

// PackageManager returns the preferred package manager, or "" when unset.
func (d Document) PackageManager() string {
	s, _ := d[KeyPackageManager].(string)
	return s
}

// UseTaobaoRegistry reports whether the mirror registry was chosen.
func (d Document) UseTaobaoRegistry() bool {
	b, _ := d[KeyUseTaobaoRegistry].(bool)
	return b
}

// Presets returns the saved presets keyed by name. Entries that are not
// objects are skipped.
func (d Document) Presets() map[string]map[string]any {
	raw, _ := d[KeyPresets].(map[string]any)
	presets := make(map[string]map[string]any, len(raw))
	for name, v := range raw {
		if p, ok := v.(map[string]any); ok {
			presets[name] = p
		}
	}
	return presets
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	return Document(deepCopyMap(d))
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case Document:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
