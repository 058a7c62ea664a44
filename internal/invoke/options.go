package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/packages-box/box/internal/plugin"
	"github.com/packages-box/box/internal/project"
	"github.com/packages-box/box/internal/prompt"
)

// ErrInvalidOptionsJSON is returned when --inline-options is not a JSON
// object.
var ErrInvalidOptionsJSON = errors.New("couldn't parse inline options JSON")

// RegistryKey is the option key the registry flag is stored under.
const RegistryKey = "registry"

// RawOptions are the plugin options as given on the command line.
type RawOptions struct {
	Registry   string         // --registry
	InlineJSON string         // --inline-options
	Values     map[string]any // every other flag
}

// OptionSource is where a plugin's options come from. It is one of
// InlineJSON, Explicit, Interactive or NoOptions.
type OptionSource interface {
	optionSource()
}

// InlineJSON options are parsed from a JSON object.
type InlineJSON struct{ Raw string }

// Explicit options were passed as flags.
type Explicit struct{ Values map[string]any }

// Interactive options are answers to the plugin's prompts.
type Interactive struct{ Prompts plugin.PromptSource }

// NoOptions means the plugin gets an empty option set.
type NoOptions struct{}

func (InlineJSON) optionSource()  {}
func (Explicit) optionSource()    {}
func (Interactive) optionSource() {}
func (NoOptions) optionSource()   {}

// SelectSource picks exactly one option source: inline JSON first, then
// explicit flags, then the plugin's prompts. The registry flag does not
// count as an explicit option.
func SelectSource(raw RawOptions, bundle *plugin.Bundle) OptionSource {
	switch {
	case raw.InlineJSON != "":
		return InlineJSON{Raw: raw.InlineJSON}
	case len(explicitValues(raw.Values)) > 0:
		return Explicit{Values: explicitValues(raw.Values)}
	case bundle != nil && bundle.Prompts != nil:
		return Interactive{Prompts: bundle.Prompts}
	default:
		return NoOptions{}
	}
}

func explicitValues(values map[string]any) map[string]any {
	out := maps.Clone(values)
	delete(out, RegistryKey)
	return out
}

// AssembleOptions produces the option mapping for src. Only Interactive
// consults asker.
func AssembleOptions(ctx context.Context, src OptionSource, pkg *project.Descriptor, asker prompt.Asker) (map[string]any, error) {
	switch s := src.(type) {
	case InlineJSON:
		var opts map[string]any
		if err := json.Unmarshal([]byte(s.Raw), &opts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptionsJSON, err)
		}
		if opts == nil {
			// "null" means no options.
			return map[string]any{}, nil
		}
		return opts, nil
	case Explicit:
		return maps.Clone(s.Values), nil
	case Interactive:
		questions, err := s.Prompts.GetPrompts(pkg)
		if err != nil {
			return nil, fmt.Errorf("loading prompts: %w", err)
		}
		if len(questions) == 0 {
			return map[string]any{}, nil
		}
		answers, err := asker.Ask(ctx, questions)
		if err != nil {
			return nil, fmt.Errorf("prompting for options: %w", err)
		}
		if answers == nil {
			answers = map[string]any{}
		}
		return answers, nil
	case NoOptions, nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("unknown option source %T", src)
	}
}

// BuildOptions selects the source for raw, assembles the options and merges
// the registry flag back in. A registry chosen by the plugin options wins.
func BuildOptions(ctx context.Context, raw RawOptions, bundle *plugin.Bundle, pkg *project.Descriptor, asker prompt.Asker) (map[string]any, error) {
	opts, err := AssembleOptions(ctx, SelectSource(raw, bundle), pkg, asker)
	if err != nil {
		return nil, err
	}
	if _, set := opts[RegistryKey]; !set && raw.Registry != "" {
		opts[RegistryKey] = raw.Registry
	}
	return opts, nil
}
