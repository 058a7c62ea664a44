package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
)

// ManifestFile is the project manifest file name.
const ManifestFile = "package.json"

// ErrManifestNotFound is returned when the project directory has no
// package.json.
var ErrManifestNotFound = errors.New("package.json not found")

// maxRedirects bounds vuePlugins.resolveFrom chains.
const maxRedirects = 16

// Descriptor is a parsed package.json. Every field is kept as decoded so
// that unknown fields survive a rewrite.
type Descriptor struct {
	fields map[string]any
}

// NewDescriptor wraps fields as a Descriptor. fields is copied.
func NewDescriptor(fields map[string]any) *Descriptor {
	d := &Descriptor{fields: map[string]any{}}
	if fields != nil {
		d.fields = deepCopyMap(fields)
	}
	return d
}

// Load reads the manifest in dir. When the manifest declares
// vuePlugins.resolveFrom, the manifest of that directory (relative to dir)
// is loaded instead, recursively.
func Load(dir string) (*Descriptor, error) {
	_, d, err := resolve(dir)
	return d, err
}

// ResolveDir returns the directory whose manifest Load reads for dir.
func ResolveDir(dir string) (string, error) {
	resolved, _, err := resolve(dir)
	return resolved, err
}

func resolve(dir string) (string, *Descriptor, error) {
	start := dir
	for range maxRedirects {
		d, err := readManifest(dir)
		if err != nil {
			return "", nil, err
		}
		from := d.resolveFrom()
		if from == "" {
			return dir, d, nil
		}
		dir = filepath.Join(dir, from)
	}
	return "", nil, fmt.Errorf("too many vuePlugins.resolveFrom redirects starting at %s", start)
}

func readManifest(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return &Descriptor{fields: fields}, nil
}

func (d *Descriptor) resolveFrom() string {
	vp, _ := d.fields["vuePlugins"].(map[string]any)
	from, _ := vp["resolveFrom"].(string)
	return from
}

// Name returns the package name.
func (d *Descriptor) Name() string {
	s, _ := d.fields["name"].(string)
	return s
}

// Version returns the package version.
func (d *Descriptor) Version() string {
	s, _ := d.fields["version"].(string)
	return s
}

// Dependencies returns a copy of the dependencies mapping.
func (d *Descriptor) Dependencies() map[string]string {
	return stringMap(d.fields["dependencies"])
}

// DevDependencies returns a copy of the devDependencies mapping.
func (d *Descriptor) DevDependencies() map[string]string {
	return stringMap(d.fields["devDependencies"])
}

// Get returns the raw value of a top-level field.
func (d *Descriptor) Get(key string) (any, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Set replaces a top-level field.
func (d *Descriptor) Set(key string, value any) {
	d.fields[key] = value
}

// Delete removes a top-level field.
func (d *Descriptor) Delete(key string) {
	delete(d.fields, key)
}

// Fields returns a deep copy of every top-level field.
func (d *Descriptor) Fields() map[string]any {
	return deepCopyMap(d.fields)
}

// Clone returns an independent copy of d.
func (d *Descriptor) Clone() *Descriptor {
	return &Descriptor{fields: deepCopyMap(d.fields)}
}

// Marshal encodes the manifest with two-space indentation and a trailing
// newline, keeping keys sorted.
func (d *Descriptor) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.fields); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ManifestFile, err)
	}
	return buf.Bytes(), nil
}

// Write saves the manifest to dir.
func (d *Descriptor) Write(dir string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", ManifestFile, err)
	}
	return nil
}

func stringMap(v any) map[string]string {
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]any:
		for k, val := range m {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	case map[string]string:
		maps.Copy(out, m)
	}
	return out
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
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
