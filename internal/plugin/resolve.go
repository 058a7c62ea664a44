package plugin

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/packages-box/box/internal/branding"
	"github.com/packages-box/box/internal/project"
)

const (
	legacyPrefix = "@vue/cli-plugin-"
	servicePkg   = "@vue/cli-service"
)

var (
	fullIDRE   = regexp.MustCompile(`^(@vue/|vue-|@[\w-]+(\.)?[\w-]+/vue-)cli-plugin-`)
	scopedIDRE = regexp.MustCompile(`^(@[^/]+)/(.+)$`)
)

// IsFullID reports whether id is already a fully-qualified plugin id.
func IsFullID(id string) bool {
	return fullIDRE.MatchString(id)
}

// ResolveID expands a short plugin name using the generic naming
// convention: "foo" becomes "vue-cli-plugin-foo" and "@scope/foo" becomes
// "@scope/vue-cli-plugin-foo". Full ids are returned unchanged.
func ResolveID(name string) string {
	if IsFullID(name) || name == servicePkg {
		return name
	}
	if m := scopedIDRE.FindStringSubmatch(name); m != nil {
		scope, short := m[1], m[2]
		if scope == "@vue" {
			return legacyPrefix + short
		}
		return scope + "/vue-cli-plugin-" + short
	}
	return "vue-cli-plugin-" + name
}

// Candidates returns the ids name may refer to, in priority order.
func Candidates(name string) []string {
	return []string{
		branding.PluginPrefix() + name,
		legacyPrefix + name,
		ResolveID(name),
	}
}

// Resolve maps a user-supplied plugin name to the id declared in pkg.
// devDependencies are searched before dependencies; within each, the
// candidates of Candidates are tried in order.
func Resolve(name string, pkg *project.Descriptor) (string, error) {
	candidates := Candidates(name)
	for _, deps := range []map[string]string{pkg.DevDependencies(), pkg.Dependencies()} {
		for _, id := range candidates {
			if deps[id] != "" {
				return id, nil
			}
		}
	}
	return "", fmt.Errorf("%w: cannot resolve plugin %s from package.json. Did you forget to install it?", ErrNotFound, strings.TrimSpace(name))
}

var shortIDRE = regexp.MustCompile(`^(@[^/]+/)?(vue-|box-)?cli-plugin-`)

// ShortID strips the naming-convention prefix from a plugin id, so
// "@vue/cli-plugin-eslint" becomes "eslint" and "@acme/vue-cli-plugin-x"
// becomes "@acme/x".
func ShortID(id string) string {
	m := shortIDRE.FindStringSubmatch(id)
	if m == nil {
		return id
	}
	rest := id[len(m[0]):]
	if m[1] == "" || m[1] == "@vue/" {
		return rest
	}
	return m[1] + rest
}

// Declared returns the plugin ids listed in pkg's dependencies and
// devDependencies, sorted.
func Declared(pkg *project.Descriptor) []string {
	var ids []string
	for _, deps := range []map[string]string{pkg.DevDependencies(), pkg.Dependencies()} {
		for id := range deps {
			if (IsFullID(id) || strings.HasPrefix(id, branding.PluginPrefix())) && !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}
