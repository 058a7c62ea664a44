package config

import (
	"os"
	"path/filepath"

	"github.com/packages-box/box/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// DefaultRegistry is used when neither a flag, a preference, nor the
	// config file names a package registry.
	DefaultRegistry = "https://registry.npmjs.org"
)

// Keys understood by the config layer. Each is also readable from the
// environment as BOX_<KEY>.
const (
	KeyTest       = "cli_test"
	KeyDebug      = "cli_debug"
	KeyConfigPath = "cli_config_path"
	KeyRegistry   = "registry"
)

// Env holds the environment switches that disable non-hermetic side effects.
type Env struct {
	Test  bool
	Debug bool
}

// Hermetic reports whether installs and real version checks must be skipped.
func (e Env) Hermetic() bool {
	return e.Test || e.Debug
}

// Dir returns the path to the config directory (~/.box/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.box/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyRegistry, DefaultRegistry)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// LoadEnv reads the test and debug switches.
func LoadEnv() Env {
	return Env{
		Test:  viper.GetBool(KeyTest),
		Debug: viper.GetBool(KeyDebug),
	}
}

// Registry returns the configured default package registry URL.
func Registry() string {
	if v := viper.GetString(KeyRegistry); v != "" {
		return v
	}
	return DefaultRegistry
}

// PreferencesPath returns the path of the user preferences document.
// BOX_CLI_CONFIG_PATH overrides the default ~/.boxrc.
func PreferencesPath() string {
	if v := viper.GetString(KeyConfigPath); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.RCFile())
	}
	return filepath.Join(home, branding.RCFile())
}
