package cli

import (
	"fmt"
	"strings"

	"github.com/packages-box/box/internal/invoke"
)

// Flags of `box invoke` that are not passed to the plugin.
const (
	flagRegistry      = "registry"
	flagInlineOptions = "inline-options"
)

// ParseArgs parses free-form plugin flags. "--foo" is true, "--no-foo" is
// false, "--foo=bar" and "--foo bar" are "bar", and "-abc" sets a, b and c.
// Values stay strings except for "true" and "false". Repeated flags collect
// into a list. Arguments that are not flags, and everything after "--", are
// returned as positional. --registry and --inline-options must carry a
// string value.
func ParseArgs(args []string) (invoke.RawOptions, []string, error) {
	raw := invoke.RawOptions{Values: map[string]any{}}
	var positional []string
	var err error

	set := func(key string, value any) {
		switch key {
		case flagRegistry, flagInlineOptions:
			s, ok := value.(string)
			if !ok {
				if err == nil {
					err = fmt.Errorf("--%s requires a value", key)
				}
				return
			}
			if key == flagRegistry {
				raw.Registry = s
			} else {
				raw.InlineJSON = s
			}
			return
		}
		prev, ok := raw.Values[key]
		if !ok {
			raw.Values[key] = value
			return
		}
		if list, isList := prev.([]any); isList {
			raw.Values[key] = append(list, value)
			return
		}
		raw.Values[key] = []any{prev, value}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(arg, "--"):
			name := arg[2:]
			if key, value, ok := strings.Cut(name, "="); ok {
				set(key, coerce(value))
				continue
			}
			if key, ok := strings.CutPrefix(name, "no-"); ok {
				set(key, false)
				continue
			}
			if i+1 < len(args) && !isFlag(args[i+1]) {
				i++
				set(name, coerce(args[i]))
				continue
			}
			set(name, true)
		case len(arg) > 1 && arg[0] == '-' && !isNumber(arg):
			letters := arg[1:]
			for _, r := range letters[:len(letters)-1] {
				set(string(r), true)
			}
			last := letters[len(letters)-1:]
			if i+1 < len(args) && !isFlag(args[i+1]) {
				i++
				set(last, coerce(args[i]))
				continue
			}
			set(last, true)
		default:
			positional = append(positional, arg)
		}
	}
	return raw, positional, err
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && !isNumber(arg)
}

func isNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r == '.' && !dot:
			dot = true
		case r < '0' || r > '9':
			return false
		}
	}
	return true
}

func coerce(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	default:
		return v
	}
}
