package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// configTarget describes where a package.json field goes when extracted.
type configTarget struct {
	// files lists every file name the tool reads; the first is written.
	files  []string
	render func(value any) (string, error)
}

var configTargets = map[string]configTarget{
	"babel": {
		files:  []string{"babel.config.js", ".babelrc", ".babelrc.js", "babel.config.json"},
		render: renderJSModule,
	},
	"eslintConfig": {
		files:  []string{".eslintrc.js", ".eslintrc", ".eslintrc.json", ".eslintrc.yaml", ".eslintrc.yml"},
		render: renderJSModule,
	},
	"jest": {
		files:  []string{"jest.config.js", "jest.config.json"},
		render: renderJSModule,
	},
	"postcss": {
		files:  []string{"postcss.config.js", ".postcssrc", ".postcssrc.js", ".postcssrc.json", ".postcssrc.yaml", ".postcssrc.yml"},
		render: renderJSModule,
	},
	"browserslist": {
		files:  []string{".browserslistrc"},
		render: renderLines,
	},
}

// extractConfigFiles moves config fields that plugins added to package.json
// into their own files. Fields already present before generation stay put.
// With checkExisting, a field also stays when one of its files exists.
func (g *Generator) extractConfigFiles(checkExisting bool) {
	for key, target := range configTargets {
		value, ok := g.pkg.Get(key)
		if !ok || value == nil {
			continue
		}
		if _, existed := g.originalPkg.Get(key); existed {
			continue
		}
		if checkExisting && g.hasAnyFile(target.files) {
			continue
		}
		content, err := target.render(value)
		if err != nil {
			continue
		}
		g.files[target.files[0]] = content
		g.pkg.Delete(key)
	}
}

func (g *Generator) hasAnyFile(names []string) bool {
	for _, name := range names {
		if _, ok := g.files[name]; ok {
			return true
		}
	}
	return false
}

func renderJSModule(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return "module.exports = " + string(data) + "\n", nil
}

func renderLines(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return ensureEOL(v), nil
	case []any:
		lines := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return "", fmt.Errorf("unexpected %T in list", e)
			}
			lines = append(lines, s)
		}
		return ensureEOL(strings.Join(lines, "\n")), nil
	default:
		return "", fmt.Errorf("unexpected %T", value)
	}
}

func ensureEOL(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
