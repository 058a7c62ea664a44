// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml in this package before building; Go's //go:embed
// bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	PackageName  string `yaml:"package_name"`
	RCFile       string `yaml:"rc_file"`
	PluginPrefix string `yaml:"plugin_prefix"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is empty.
		defaults = brand{
			CLIName:      "box",
			DisplayName:  "Packages Box",
			Description:  "Invoke generator plugins against an existing project",
			HomeDir:      ".box",
			EnvPrefix:    "BOX",
			GoModule:     "github.com/packages-box/box",
			PackageName:  "@jijiang/packages-box",
			RCFile:       ".boxrc",
			PluginPrefix: "box-cli-plugin-",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "box").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".box").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "BOX").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// PackageName returns the published package queried for new releases.
func PackageName() string { load(); return defaults.PackageName }

// RCFile returns the file name of the user preferences document under $HOME.
func RCFile() string { load(); return defaults.RCFile }

// PluginPrefix returns the first-party plugin package prefix
// (e.g., "box-cli-plugin-").
func PluginPrefix() string { load(); return defaults.PluginPrefix }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("CLI_TEST") → "BOX_CLI_TEST".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
