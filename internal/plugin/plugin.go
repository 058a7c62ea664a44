package plugin

import (
	"context"
	"errors"

	"github.com/packages-box/box/internal/project"
	"github.com/packages-box/box/internal/prompt"
)

var (
	// ErrNotFound is returned when a plugin is not declared by the project
	// or cannot be located by any loader.
	ErrNotFound = errors.New("plugin not found")
	// ErrInvalid is returned when a plugin exists but has no generator.
	ErrInvalid = errors.New("plugin has no generator")
)

// Hook runs after files have been written.
type Hook func(ctx context.Context) error

// API is what a generator sees of the project being generated.
type API interface {
	// ID is the fully-qualified plugin id.
	ID() string
	// Pkg returns a copy of the manifest as generated so far.
	Pkg() map[string]any
	// ExtendPackage deep-merges fields into the manifest.
	ExtendPackage(fields map[string]any)
	// Render writes content to path, relative to the project root.
	Render(path, content string)
	// RemoveFile deletes path from the project.
	RemoveFile(path string)
	// OnCreateComplete registers a hook for the end of this invocation.
	OnCreateComplete(hook Hook)
	// AfterAnyInvoke registers a hook that runs after every invocation.
	AfterAnyInvoke(hook Hook)
	// ExitLog records a message printed once generation succeeds.
	ExitLog(msg string)
}

// GeneratorFunc applies a plugin to the project.
type GeneratorFunc func(api API, options map[string]any) error

// PromptSource produces the questions used to gather plugin options.
type PromptSource interface {
	GetPrompts(pkg *project.Descriptor) ([]prompt.Question, error)
}

// StaticPrompts is a fixed question list.
type StaticPrompts []prompt.Question

// GetPrompts returns the list unchanged.
func (s StaticPrompts) GetPrompts(*project.Descriptor) ([]prompt.Question, error) {
	return s, nil
}

// PromptFunc computes questions from the project manifest.
type PromptFunc func(pkg *project.Descriptor) ([]prompt.Question, error)

// GetPrompts calls f.
func (f PromptFunc) GetPrompts(pkg *project.Descriptor) ([]prompt.Question, error) {
	return f(pkg)
}

// Bundle is what a plugin provides.
type Bundle struct {
	Generator GeneratorFunc
	Prompts   PromptSource // nil when the plugin asks nothing
}

// Ref is a resolved plugin ready to run.
type Ref struct {
	ID      string
	Apply   GeneratorFunc
	Options map[string]any
}

// Loader locates the bundle of a resolved plugin id for the project in dir.
type Loader interface {
	Load(ctx context.Context, id, dir string) (*Bundle, error)
}
