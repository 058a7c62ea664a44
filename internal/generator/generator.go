package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/packages-box/box/internal/ctxlog"
	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/project"
	"github.com/packages-box/box/internal/ui"
)

// Options configures a Generator.
type Options struct {
	Pkg     *project.Descriptor
	Plugins []plugin.Ref
	Files   project.FileTree

	// Hooks registered before generation. Plugins append to copies of these.
	AfterInvoke    []plugin.Hook
	AfterAnyInvoke []plugin.Hook

	// Invoking is set when plugins are applied to an existing project
	// rather than during project creation.
	Invoking bool
}

// GenerateOptions controls post-processing.
type GenerateOptions struct {
	// ExtractConfigFiles moves known tool configuration out of package.json
	// into dedicated files.
	ExtractConfigFiles bool
	// CheckExisting leaves a field in package.json when its config file
	// already exists in the project.
	CheckExisting bool
}

type exitLog struct {
	id  string
	msg string
}

// Generator runs plugin generators against an in-memory project.
type Generator struct {
	dir      string
	plugins  []plugin.Ref
	invoking bool

	originalPkg   *project.Descriptor
	pkg           *project.Descriptor
	originalFiles project.FileTree
	files         project.FileTree

	afterInvoke    []plugin.Hook
	afterAnyInvoke []plugin.Hook
	exitLogs       []exitLog
}

// New creates a Generator for the project in dir.
func New(dir string, opts Options) *Generator {
	pkg := opts.Pkg
	if pkg == nil {
		pkg = project.NewDescriptor(nil)
	}
	files := opts.Files.Clone()
	if files == nil {
		files = project.FileTree{}
	}
	// The manifest is tracked through pkg.
	delete(files, project.ManifestFile)
	return &Generator{
		dir:            dir,
		plugins:        opts.Plugins,
		invoking:       opts.Invoking,
		originalPkg:    pkg.Clone(),
		pkg:            pkg.Clone(),
		originalFiles:  files,
		files:          files.Clone(),
		afterInvoke:    slices.Clone(opts.AfterInvoke),
		afterAnyInvoke: slices.Clone(opts.AfterAnyInvoke),
	}
}

// Generate applies every plugin in order, post-processes the manifest and
// writes changes to disk. A failing plugin stops generation before
// anything is written.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) error {
	log := ctxlog.FromContext(ctx)
	for _, ref := range g.plugins {
		if ref.Apply == nil {
			return fmt.Errorf("%w: %s", plugin.ErrInvalid, ref.ID)
		}
		log.Debug("applying generator", "plugin", ref.ID)
		api := &pluginAPI{gen: g, id: ref.ID}
		if err := ref.Apply(api, ref.Options); err != nil {
			return fmt.Errorf("running generator for %s: %w", ref.ID, err)
		}
	}

	if opts.ExtractConfigFiles {
		g.extractConfigFiles(opts.CheckExisting)
	}

	return g.write()
}

// Pkg returns the manifest as generated.
func (g *Generator) Pkg() *project.Descriptor {
	return g.pkg.Clone()
}

// Files returns the file tree as generated, excluding package.json.
func (g *Generator) Files() project.FileTree {
	return g.files.Clone()
}

// AfterInvokeHooks returns hooks for the end of this invocation.
func (g *Generator) AfterInvokeHooks() []plugin.Hook {
	return slices.Clone(g.afterInvoke)
}

// AfterAnyInvokeHooks returns hooks that run after every invocation.
func (g *Generator) AfterAnyInvokeHooks() []plugin.Hook {
	return slices.Clone(g.afterAnyInvoke)
}

// PrintExitLogs prints the messages plugins recorded with ExitLog.
func (g *Generator) PrintExitLogs(p *ui.Printer) {
	if len(g.exitLogs) == 0 {
		return
	}
	for _, l := range g.exitLogs {
		p.Log(fmt.Sprintf(" %s %s", p.Accent("["+plugin.ShortID(l.id)+"]"), l.msg))
	}
	p.Log("")
}

// write persists package.json and every file that differs from the
// original snapshot, and removes files no longer in the tree.
func (g *Generator) write() error {
	if !manifestEqual(g.originalPkg, g.pkg) {
		if err := g.pkg.Write(g.dir); err != nil {
			return err
		}
	}

	for path, content := range g.files {
		if old, ok := g.originalFiles[path]; ok && old == content {
			continue
		}
		if err := writeFile(g.dir, path, content); err != nil {
			return err
		}
	}

	for path := range g.originalFiles {
		if _, ok := g.files[path]; ok {
			continue
		}
		target := filepath.Join(g.dir, filepath.FromSlash(path))
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

func writeFile(dir, path, content string) error {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to write %s outside the project", path)
	}
	target := filepath.Join(dir, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func manifestEqual(a, b *project.Descriptor) bool {
	ad, err := a.Marshal()
	if err != nil {
		return false
	}
	bd, err := b.Marshal()
	if err != nil {
		return false
	}
	return string(ad) == string(bd)
}
